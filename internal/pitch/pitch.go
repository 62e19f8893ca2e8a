// Package pitch turns per-frame frequency estimates into equal-tempered
// semitone numbers (MIDI note-number convention, A4 = 69 = 440 Hz).
package pitch

import (
	"fmt"
	"math"
)

// Concert pitch reference.
const (
	ReferenceHz   = 440.0
	ReferenceNote = 69
)

// Frequency is one frame's pitch estimate: either a value in Hz or absent.
type Frequency struct {
	hz      float64
	present bool
}

// Hz wraps a frequency estimate. Non-positive values are kept as given and are
// treated as "no pitch" by Quantize.
func Hz(v float64) Frequency { return Frequency{hz: v, present: true} }

// NoFrequency marks a frame with no reliable pitch.
func NoFrequency() Frequency { return Frequency{} }

func (f Frequency) Value() (float64, bool) { return f.hz, f.present }

// Voiced reports whether f carries a usable pitch: present, finite and > 0.
func (f Frequency) Voiced() bool {
	return f.present && f.hz > 0 && !math.IsInf(f.hz, 1)
}

func (f Frequency) String() string {
	if !f.present {
		return "-"
	}
	return fmt.Sprintf("%.2fHz", f.hz)
}

// Semitone is one frame's quantized pitch: a note number or absent.
type Semitone struct {
	note    int
	present bool
}

func Note(n int) Semitone { return Semitone{note: n, present: true} }

func NoNote() Semitone { return Semitone{} }

func (s Semitone) Value() (int, bool) { return s.note, s.present }

func (s Semitone) String() string {
	if !s.present {
		return "-"
	}
	return fmt.Sprintf("%d", s.note)
}

// ToSemitone is the continuous note number of hz.
func ToSemitone(hz float64) float64 {
	return ReferenceNote + 12*math.Log2(hz/ReferenceHz)
}

// ToHz is the inverse of ToSemitone.
func ToHz(note float64) float64 {
	return ReferenceHz * math.Pow(2, (note-ReferenceNote)/12)
}

// roundNote rounds half away from zero.
func roundNote(x float64) int {
	return int(math.Round(x))
}

// Quantize maps every frequency to the nearest semitone. The output has the
// same length as freqs and index i of the output comes from index i of the
// input. Absent, zero, negative and NaN frequencies become NoNote. Frames are
// quantized independently; nothing is smoothed.
func Quantize(freqs []Frequency) []Semitone {
	out := make([]Semitone, len(freqs))
	for i, f := range freqs {
		if !f.Voiced() {
			out[i] = NoNote()
			continue
		}
		out[i] = Note(roundNote(ToSemitone(f.hz)))
	}
	return out
}
