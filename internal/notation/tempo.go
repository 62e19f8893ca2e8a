package notation

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidTempo = errors.New("invalid tempo")

// MaxTempo bounds the magnitude of a bpm either policy accepts. Beyond it the
// metronome mark is not representable.
const MaxTempo = math.MaxInt32

// TempoPolicy decides what happens to a tempo estimate before it is assembled.
type TempoPolicy int

const (
	// TempoPassthrough accepts any finite tempo, including zero and negative
	// values. Check reports them through the returned warning flag.
	TempoPassthrough TempoPolicy = iota
	// TempoStrict rejects tempos whose metronome mark would be below 1 bpm.
	TempoStrict
)

func (p TempoPolicy) String() string {
	switch p {
	case TempoPassthrough:
		return "passthrough"
	case TempoStrict:
		return "strict"
	default:
		return "unknown"
	}
}

func ParseTempoPolicy(s string) (TempoPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "passthrough", "":
		return TempoPassthrough, nil
	case "strict":
		return TempoStrict, nil
	}
	return TempoPassthrough, fmt.Errorf("unknown tempo policy %q", s)
}

// Check validates bpm under p. NaN, infinite values and magnitudes above
// MaxTempo are rejected by every policy because they have no integer
// metronome mark. suspicious is true when passthrough lets a tempo below
// 1 bpm through.
func (p TempoPolicy) Check(bpm float64) (suspicious bool, err error) {
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return false, fmt.Errorf("%w: %v", ErrInvalidTempo, bpm)
	}
	if math.Abs(bpm) > MaxTempo {
		return false, fmt.Errorf("%w: %g bpm is beyond ±%d", ErrInvalidTempo, bpm, MaxTempo)
	}
	if bpm >= 1 {
		return false, nil
	}
	if p == TempoStrict {
		return false, fmt.Errorf("%w: %.2f bpm truncates below 1", ErrInvalidTempo, bpm)
	}
	return true, nil
}
