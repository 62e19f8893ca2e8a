package pitch

import (
	"errors"
	"fmt"
)

var ErrShapeMismatch = errors.New("pitch and magnitude matrices differ in shape")

// DominantFrequencies reduces a bin-major pitch/magnitude pair
// (pitches[bin][frame]) to one estimate per frame: the frequency at the first
// bin holding the frame's largest magnitude. A frame whose largest magnitude
// is zero, or whose selected frequency is not positive, is NoFrequency.
func DominantFrequencies(pitches, magnitudes [][]float64) ([]Frequency, error) {
	if len(pitches) != len(magnitudes) {
		return nil, fmt.Errorf("%w: %d vs %d bins", ErrShapeMismatch, len(pitches), len(magnitudes))
	}
	if len(pitches) == 0 {
		return []Frequency{}, nil
	}

	frames := len(magnitudes[0])
	for bin := range magnitudes {
		if len(magnitudes[bin]) != frames || len(pitches[bin]) != frames {
			return nil, fmt.Errorf("%w: bin %d is ragged", ErrShapeMismatch, bin)
		}
	}

	out := make([]Frequency, frames)
	for t := 0; t < frames; t++ {
		best := 0
		for bin := 1; bin < len(magnitudes); bin++ {
			if magnitudes[bin][t] > magnitudes[best][t] {
				best = bin
			}
		}

		hz := pitches[best][t]
		if magnitudes[best][t] == 0 || hz <= 0 {
			out[t] = NoFrequency()
			continue
		}
		out[t] = Hz(hz)
	}
	return out, nil
}
