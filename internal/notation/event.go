package notation

import (
	"fmt"

	"github.com/himanishpuri/AcousticScore/internal/pitch"
)

// Event is one note or one rest of a fixed duration.
type Event struct {
	rest     bool
	pitch    int
	duration Duration
}

func NewNote(p int, d Duration) Event { return Event{pitch: p, duration: d} }

func NewRest(d Duration) Event { return Event{rest: true, duration: d} }

func (e Event) IsRest() bool { return e.rest }

// Pitch returns the note number; ok is false for rests.
func (e Event) Pitch() (p int, ok bool) { return e.pitch, !e.rest }

func (e Event) Duration() Duration { return e.duration }

func (e Event) String() string {
	if e.rest {
		return fmt.Sprintf("Rest(%s)", e.duration)
	}
	return fmt.Sprintf("Note(%d,%s)", e.pitch, e.duration)
}

// Sequence emits one event per semitone value, in order: a note of duration d
// for every present value and a rest of duration d for every absent one.
// Repeated pitches stay separate events; nothing is tied or merged.
func Sequence(semitones []pitch.Semitone, d Duration) []Event {
	events := make([]Event, len(semitones))
	for i, s := range semitones {
		if n, ok := s.Value(); ok {
			events[i] = NewNote(n, d)
		} else {
			events[i] = NewRest(d)
		}
	}
	return events
}

// Counts returns the number of notes and rests in events.
func Counts(events []Event) (notes, rests int) {
	for _, e := range events {
		if e.rest {
			rests++
		} else {
			notes++
		}
	}
	return notes, rests
}
