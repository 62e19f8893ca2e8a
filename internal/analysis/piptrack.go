package analysis

import "math"

// Piptrack finds the spectral peaks of every frame and refines each one by
// parabolic interpolation. It returns bin-major matrices of equal shape,
// pitches[bin][frame] in Hz and magnitudes[bin][frame]; cells that are not a
// peak hold zero in both.
//
// A bin is a peak when its centre frequency lies in [fmin, fmax), it is a
// local maximum of the frame, and its magnitude exceeds threshold times the
// frame's largest magnitude.
func Piptrack(spec [][]float64, sampleRate, windowSize int, fmin, fmax, threshold float64) (pitches, magnitudes [][]float64) {
	bins := windowSize/2 + 1
	frames := len(spec)

	pitches = make([][]float64, bins)
	magnitudes = make([][]float64, bins)
	for k := range pitches {
		pitches[k] = make([]float64, frames)
		magnitudes[k] = make([]float64, frames)
	}

	binHz := float64(sampleRate) / float64(windowSize)
	lo := int(math.Ceil(fmin / binHz))
	if lo < 1 {
		lo = 1
	}
	hi := int(math.Ceil(fmax/binHz)) - 1 // last bin with centre < fmax
	if hi > bins-2 {
		hi = bins - 2
	}

	for t, frame := range spec {
		peak := 0.0
		for _, m := range frame {
			if m > peak {
				peak = m
			}
		}
		ref := threshold * peak

		for k := lo; k <= hi && k+1 < len(frame); k++ {
			m := frame[k]
			if m <= ref || m <= frame[k-1] || m < frame[k+1] {
				continue
			}

			avg := 0.5 * (frame[k+1] - frame[k-1])
			curv := 2*m - frame[k+1] - frame[k-1]
			shift := 0.0
			if math.Abs(curv) > 1e-12 {
				shift = avg / curv
			}

			pitches[k][t] = (float64(k) + shift) * binHz
			magnitudes[k][t] = m + 0.5*avg*shift
		}
	}
	return pitches, magnitudes
}
