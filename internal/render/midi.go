package render

import (
	"fmt"
	"io"

	"github.com/himanishpuri/AcousticScore/internal/notation"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	midiChannel  = 0
	midiVelocity = 100
)

// checkMIDI rejects values a Standard MIDI File cannot carry.
func checkMIDI(part *notation.Part) error {
	if part.Tempo.BPM <= 0 {
		return fmt.Errorf("%w: MIDI needs a positive tempo, got %d bpm", ErrUnrenderable, part.Tempo.BPM)
	}
	if part.TimeSignature.Beats > 255 {
		return fmt.Errorf("%w: %d beats per measure", ErrUnrenderable, part.TimeSignature.Beats)
	}
	for i, e := range part.Events {
		if p, ok := e.Pitch(); ok && (p < 0 || p > 127) {
			return fmt.Errorf("%w: event %d has pitch %d outside 0..127", ErrUnrenderable, i, p)
		}
	}
	return nil
}

// encodeMIDI writes a single-track SMF at notation.Divisions ticks per
// quarter. Rests only advance time.
func encodeMIDI(w io.Writer, score *notation.Score) error {
	part := &score.Part
	if err := checkMIDI(part); err != nil {
		return err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(notation.Divisions)

	var tr smf.Track
	if name := part.Name; name != "" {
		tr.Add(0, smf.MetaTrackSequenceName(name))
	}
	tr.Add(0, smf.MetaMeter(uint8(part.TimeSignature.Beats), uint8(part.TimeSignature.BeatUnit)))
	tr.Add(0, smf.MetaTempo(float64(part.Tempo.BPM)))

	var delta uint32
	for _, e := range part.Events {
		ticks := uint32(e.Duration())
		p, ok := e.Pitch()
		if !ok {
			delta += ticks
			continue
		}
		key := uint8(p)
		tr.Add(delta, midi.NoteOn(midiChannel, key, midiVelocity))
		tr.Add(ticks, midi.NoteOff(midiChannel, key))
		delta = 0
	}
	tr.Close(delta)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("adding MIDI track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing MIDI: %w", err)
	}
	return nil
}
