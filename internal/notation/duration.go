package notation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Divisions is the number of ticks in a quarter note. It is shared by the
// MusicXML <divisions> element and the MIDI time base.
const Divisions = 480

// Duration is a note length in ticks (Divisions per quarter note).
type Duration int

const (
	Whole     Duration = 4 * Divisions
	Half      Duration = 2 * Divisions
	Quarter   Duration = Divisions
	Eighth    Duration = Divisions / 2
	Sixteenth Duration = Divisions / 4
)

var ErrInvalidDuration = errors.New("invalid note duration")

var durationNames = map[string]Duration{
	"whole":   Whole,
	"half":    Half,
	"quarter": Quarter,
	"eighth":  Eighth,
	"16th":    Sixteenth,
}

// QuarterLength returns d in quarter notes.
func (d Duration) QuarterLength() float64 {
	return float64(d) / Divisions
}

func (d Duration) String() string {
	for name, v := range durationNames {
		if v == d {
			return name
		}
	}
	return fmt.Sprintf("%d/%d", d, Divisions)
}

// ParseDuration accepts a note name (whole, half, quarter, eighth, 16th) or a
// fraction of a quarter note such as "1", "1/2" or "3/2".
func ParseDuration(s string) (Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := durationNames[s]; ok {
		return d, nil
	}

	num, den := s, "1"
	if i := strings.IndexByte(s, '/'); i >= 0 {
		num, den = s[:i], s[i+1:]
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	m, err := strconv.Atoi(den)
	if err != nil || m == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	if n <= 0 || n > math.MaxInt32/Divisions || m < 0 || (n*Divisions)%m != 0 {
		return 0, fmt.Errorf("%w: %q is not a positive multiple of 1/%d quarter", ErrInvalidDuration, s, Divisions)
	}
	return Duration(n * Divisions / m), nil
}
