package analysis

import (
	"math"
	"sort"
)

const (
	amin  = 1e-5
	topDB = 80.0
)

// OnsetStrength is the half-wave rectified spectral flux of the log-magnitude
// spectrogram, averaged over bins. Levels are in dB relative to the loudest
// cell and floored topDB below it. The first frame has zero strength.
func OnsetStrength(spec [][]float64) []float64 {
	env := make([]float64, len(spec))
	if len(spec) < 2 {
		return env
	}

	ref := 0.0
	for _, frame := range spec {
		for _, m := range frame {
			if m > ref {
				ref = m
			}
		}
	}
	if ref == 0 {
		return env
	}

	toDB := func(frame []float64) []float64 {
		out := make([]float64, len(frame))
		for k, m := range frame {
			db := 20 * math.Log10(math.Max(m, amin)/ref)
			out[k] = math.Max(db, -topDB)
		}
		return out
	}

	prev := toDB(spec[0])
	for t := 1; t < len(spec); t++ {
		cur := toDB(spec[t])
		var flux float64
		for k := range cur {
			if d := cur[k] - prev[k]; d > 0 {
				flux += d
			}
		}
		env[t] = flux / float64(len(cur))
		prev = cur
	}
	return env
}

// EstimateTempo picks the beat period of an onset envelope sampled at fps
// frames per second. The envelope's autocorrelation is weighted by a
// log-normal prior centred on startBPM (one octave standard deviation) and the
// best lag is refined by parabolic interpolation. A flat or too short envelope
// gives 0.
func EstimateTempo(env []float64, fps, startBPM, minBPM, maxBPM float64) float64 {
	n := len(env)
	minLag := int(math.Floor(fps * 60 / maxBPM))
	if minLag < 1 {
		minLag = 1
	}
	maxLag := int(math.Ceil(fps * 60 / minBPM))
	if maxLag > n-2 {
		maxLag = n - 2
	}
	if maxLag-minLag < 2 {
		return 0
	}

	var mean float64
	for _, v := range env {
		mean += v
	}
	mean /= float64(n)
	x := make([]float64, n)
	for i, v := range env {
		x[i] = v - mean
	}

	weighted := make([]float64, maxLag+1)
	best := -1
	for lag := minLag; lag <= maxLag; lag++ {
		var sum float64
		for i := 0; i+lag < n; i++ {
			sum += x[i] * x[i+lag]
		}
		ac := sum / float64(n-lag)

		bpm := 60 * fps / float64(lag)
		z := math.Log2(bpm / startBPM)
		weighted[lag] = ac * math.Exp(-0.5*z*z)

		if best < 0 || weighted[lag] > weighted[best] {
			best = lag
		}
	}
	if best < 0 || weighted[best] <= 0 {
		return 0
	}

	lag := float64(best)
	if best > minLag && best < maxLag {
		a, b, c := weighted[best-1], weighted[best], weighted[best+1]
		if denom := a - 2*b + c; denom != 0 {
			if delta := 0.5 * (a - c) / denom; math.Abs(delta) < 1 {
				lag += delta
			}
		}
	}
	return 60 * fps / lag
}

// TrackBeats runs a dynamic-programming beat tracker over env for the given
// tempo and returns beat frame indices in increasing order. Each beat maximises
// onset strength plus a penalty, scaled by tightness, on the squared log ratio
// between the inter-beat interval and the beat period.
func TrackBeats(env []float64, bpm, fps, tightness float64) []int {
	n := len(env)
	if bpm <= 0 || n == 0 {
		return nil
	}
	period := fps * 60 / bpm
	if period < 1 {
		return nil
	}

	sd := stddev(env)
	if sd == 0 {
		return nil
	}
	norm := make([]float64, n)
	for i, v := range env {
		norm[i] = v / sd
	}
	local := smoothBeats(norm, period)

	localMax := 0.0
	for _, v := range local {
		localMax = math.Max(localMax, v)
	}

	// candidate predecessors sit between 2 periods and half a period back
	lo := -int(math.Round(2 * period))
	hi := -int(math.Round(period / 2))
	offsets := make([]int, 0, hi-lo+1)
	txwt := make([]float64, 0, hi-lo+1)
	for o := lo; o <= hi; o++ {
		offsets = append(offsets, o)
		r := math.Log(float64(-o) / period)
		txwt = append(txwt, -tightness*r*r)
	}

	cum := make([]float64, n)
	back := make([]int, n)
	first := true
	for i := 0; i < n; i++ {
		bestScore := math.Inf(-1)
		bestPrev := -1
		for j, o := range offsets {
			score := txwt[j]
			prev := i + o
			if prev >= 0 {
				score += cum[prev]
			}
			if score > bestScore {
				bestScore = score
				bestPrev = prev
			}
		}
		cum[i] = local[i] + bestScore

		if first && local[i] < 0.01*localMax {
			back[i] = -1
		} else {
			back[i] = bestPrev
			first = false
		}
	}

	beats := []int{lastBeat(cum)}
	for back[beats[len(beats)-1]] >= 0 {
		beats = append(beats, back[beats[len(beats)-1]])
	}
	for i, j := 0, len(beats)-1; i < j; i, j = i+1, j-1 {
		beats[i], beats[j] = beats[j], beats[i]
	}
	return beats
}

// smoothBeats convolves x with a Gaussian of standard deviation period/32.
func smoothBeats(x []float64, period float64) []float64 {
	half := int(math.Round(period))
	kernel := make([]float64, 2*half+1)
	for i := range kernel {
		d := float64(i-half) * 32 / period
		kernel[i] = math.Exp(-0.5 * d * d)
	}

	out := make([]float64, len(x))
	for i := range x {
		var sum float64
		for j, w := range kernel {
			if k := i + j - half; k >= 0 && k < len(x) {
				sum += w * x[k]
			}
		}
		out[i] = sum
	}
	return out
}

// lastBeat is the last local maximum of the cumulative score that reaches
// half the median local-maximum score.
func lastBeat(cum []float64) int {
	n := len(cum)
	isMax := func(i int) bool {
		if i == 0 {
			return n == 1
		}
		if i == n-1 {
			return cum[i] > cum[i-1]
		}
		return cum[i] > cum[i-1] && cum[i] >= cum[i+1]
	}

	var maxima []float64
	for i := range cum {
		if isMax(i) {
			maxima = append(maxima, cum[i])
		}
	}
	if len(maxima) == 0 {
		return n - 1
	}
	med := median(maxima)

	for i := n - 1; i >= 0; i-- {
		if isMax(i) && 2*cum[i] > med {
			return i
		}
	}
	return n - 1
}

func median(x []float64) float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}
	return 0.5 * (s[m-1] + s[m])
}

func stddev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	var ss float64
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(x)-1))
}

// FramesToTime converts frame indices to seconds.
func FramesToTime(frames []int, sampleRate, hopSize int) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = float64(f) * float64(hopSize) / float64(sampleRate)
	}
	return out
}
