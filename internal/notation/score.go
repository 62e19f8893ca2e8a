// Package notation holds the symbolic side of a transcription: fixed-length
// note and rest events and the single-part score they are assembled into.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidTimeSignature = errors.New("invalid time signature")

// Tempo is a metronome mark in whole beats per minute.
type Tempo struct {
	BPM int
}

// MetronomeMark truncates bpm toward zero. The value is not validated; see
// TempoPolicy.
func MetronomeMark(bpm float64) Tempo {
	return Tempo{BPM: int(bpm)}
}

type TimeSignature struct {
	Beats    int
	BeatUnit int
}

// CommonTime is 4/4.
var CommonTime = TimeSignature{Beats: 4, BeatUnit: 4}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Beats, ts.BeatUnit)
}

// MeasureLength is the length of one full measure, or 0 when ts has no
// positive beats or beat unit.
func (ts TimeSignature) MeasureLength() Duration {
	if ts.Beats <= 0 || ts.BeatUnit <= 0 {
		return 0
	}
	return Duration(ts.Beats * 4 * Divisions / ts.BeatUnit)
}

func (ts TimeSignature) Validate() error {
	if ts.Beats <= 0 {
		return fmt.Errorf("%w: %s has no beats", ErrInvalidTimeSignature, ts)
	}
	switch ts.BeatUnit {
	case 1, 2, 4, 8, 16:
		return nil
	}
	return fmt.Errorf("%w: beat unit %d is not a power of two up to 16", ErrInvalidTimeSignature, ts.BeatUnit)
}

// ParseTimeSignature parses "beats/unit", e.g. "3/4".
func ParseTimeSignature(s string) (TimeSignature, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, s)
	}
	beats, err := strconv.Atoi(num)
	if err != nil {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, s)
	}
	unit, err := strconv.Atoi(den)
	if err != nil {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrInvalidTimeSignature, s)
	}
	ts := TimeSignature{Beats: beats, BeatUnit: unit}
	if err := ts.Validate(); err != nil {
		return TimeSignature{}, err
	}
	return ts, nil
}

// Part is one staff with one voice. Its contents are, in order, the tempo
// marking, the time signature and the events.
type Part struct {
	Name          string
	Tempo         Tempo
	TimeSignature TimeSignature
	Events        []Event
}

// Append adds e after the part's existing events.
func (p *Part) Append(e Event) {
	p.Events = append(p.Events, e)
}

// Duration is the summed length of every event.
func (p *Part) Duration() Duration {
	var total Duration
	for _, e := range p.Events {
		total += e.duration
	}
	return total
}

// Score owns exactly one part.
type Score struct {
	Title string
	Part  Part
}

// DefaultPartName labels the single part.
const DefaultPartName = "Melody"

// Assemble builds a score from a raw tempo estimate, a time signature and the
// events. The tempo is truncated toward zero and passed through as is; events
// keep their order. Assemble has no hidden state, so equal inputs give equal
// scores.
func Assemble(tempoBPM float64, ts TimeSignature, events []Event) *Score {
	part := Part{
		Name:          DefaultPartName,
		Tempo:         MetronomeMark(tempoBPM),
		TimeSignature: ts,
		Events:        make([]Event, 0, len(events)),
	}
	for _, e := range events {
		part.Append(e)
	}
	return &Score{Part: part}
}
