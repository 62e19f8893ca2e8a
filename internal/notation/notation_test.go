package notation

import (
	"math"
	"testing"

	"github.com/himanishpuri/AcousticScore/internal/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceMapsElementWise(t *testing.T) {
	got := Sequence([]pitch.Semitone{pitch.Note(60), pitch.NoNote(), pitch.Note(64)}, Quarter)

	want := []Event{NewNote(60, Quarter), NewRest(Quarter), NewNote(64, Quarter)}
	assert.Equal(t, want, got)
}

func TestSequenceDoesNotMergeRepeatedPitches(t *testing.T) {
	in := []pitch.Semitone{pitch.Note(67), pitch.Note(67), pitch.Note(67), pitch.NoNote(), pitch.NoNote()}
	got := Sequence(in, Eighth)

	require.Len(t, got, len(in))
	for i, e := range got[:3] {
		p, ok := e.Pitch()
		assert.True(t, ok, "event %d", i)
		assert.Equal(t, 67, p)
		assert.Equal(t, Eighth, e.Duration())
	}
	assert.True(t, got[3].IsRest())
	assert.True(t, got[4].IsRest())
}

func TestSequenceEmpty(t *testing.T) {
	assert.Empty(t, Sequence(nil, Quarter))
}

func TestCounts(t *testing.T) {
	notes, rests := Counts([]Event{NewNote(1, Quarter), NewRest(Quarter), NewRest(Quarter)})
	assert.Equal(t, 1, notes)
	assert.Equal(t, 2, rests)
}

func TestMetronomeMarkTruncatesTowardZero(t *testing.T) {
	assert.Equal(t, 120, MetronomeMark(120.7).BPM)
	assert.Equal(t, 99, MetronomeMark(99.999).BPM)
	assert.Equal(t, -3, MetronomeMark(-3.9).BPM)
	assert.Equal(t, 0, MetronomeMark(0.4).BPM)
}

func TestAssembleOrderAndContent(t *testing.T) {
	events := []Event{NewNote(69, Quarter), NewRest(Quarter)}
	score := Assemble(120.7, CommonTime, events)

	require.NotNil(t, score)
	assert.Equal(t, 120, score.Part.Tempo.BPM)
	assert.Equal(t, CommonTime, score.Part.TimeSignature)
	assert.Equal(t, events, score.Part.Events)
	assert.Equal(t, DefaultPartName, score.Part.Name)
}

func TestAssembleIsIdempotent(t *testing.T) {
	events := Sequence([]pitch.Semitone{pitch.Note(60), pitch.NoNote()}, Quarter)

	a := Assemble(97.2, CommonTime, events)
	b := Assemble(97.2, CommonTime, events)
	assert.Equal(t, a, b)
}

func TestAssembleDoesNotAliasInput(t *testing.T) {
	events := []Event{NewNote(60, Quarter)}
	score := Assemble(60, CommonTime, events)

	events[0] = NewRest(Quarter)
	assert.False(t, score.Part.Events[0].IsRest())
}

func TestAssembleAllRests(t *testing.T) {
	const n = 7
	semis := make([]pitch.Semitone, n)
	for i := range semis {
		semis[i] = pitch.NoNote()
	}

	score := Assemble(100, CommonTime, Sequence(semis, Quarter))

	notes, rests := Counts(score.Part.Events)
	assert.Equal(t, 0, notes)
	assert.Equal(t, n, rests)
}

func TestAssemblePassesThroughNonPositiveTempo(t *testing.T) {
	assert.Equal(t, 0, Assemble(0, CommonTime, nil).Part.Tempo.BPM)
	assert.Equal(t, -12, Assemble(-12.5, CommonTime, nil).Part.Tempo.BPM)
}

func TestTempoPolicyCheck(t *testing.T) {
	tests := []struct {
		name       string
		policy     TempoPolicy
		bpm        float64
		suspicious bool
		wantErr    bool
	}{
		{"passthrough normal", TempoPassthrough, 120.7, false, false},
		{"passthrough zero", TempoPassthrough, 0, true, false},
		{"passthrough negative", TempoPassthrough, -40, true, false},
		{"passthrough nan", TempoPassthrough, math.NaN(), false, true},
		{"strict normal", TempoStrict, 60, false, false},
		{"strict zero", TempoStrict, 0, false, true},
		{"strict below one", TempoStrict, 0.7, false, true},
		{"strict inf", TempoStrict, math.Inf(1), false, true},
		{"strict at ceiling", TempoStrict, MaxTempo, false, false},
		{"strict huge", TempoStrict, 1e20, false, true},
		{"passthrough huge", TempoPassthrough, 1e20, false, true},
		{"passthrough huge negative", TempoPassthrough, -1e20, false, true},
		{"passthrough above ceiling", TempoPassthrough, MaxTempo + 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suspicious, err := tt.policy.Check(tt.bpm)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTempo)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.suspicious, suspicious)
		})
	}
}

func TestCheckedTempoHasPositiveMark(t *testing.T) {
	for _, bpm := range []float64{1, 120.7, 1e6, MaxTempo} {
		_, err := TempoStrict.Check(bpm)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, Assemble(bpm, CommonTime, nil).Part.Tempo.BPM, 1)
	}
}

func TestParseTempoPolicy(t *testing.T) {
	p, err := ParseTempoPolicy("Strict")
	require.NoError(t, err)
	assert.Equal(t, TempoStrict, p)

	p, err = ParseTempoPolicy("")
	require.NoError(t, err)
	assert.Equal(t, TempoPassthrough, p)

	_, err = ParseTempoPolicy("clamp")
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    Duration
		wantErr bool
	}{
		{"quarter", Quarter, false},
		{"EIGHTH", Eighth, false},
		{"16th", Sixteenth, false},
		{"whole", Whole, false},
		{"1", Quarter, false},
		{"1/2", Eighth, false},
		{"3/2", Quarter + Eighth, false},
		{"1/3", 160, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"1/0", 0, true},
		{"1/7", 0, true},
		{"4473924", 4473924 * Quarter, false},
		{"4473925", 0, true},
		{"9223372036854775807", 0, true},
		{"19215358410114117/3", 0, true},
		{"dotted", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDuration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationQuarterLength(t *testing.T) {
	assert.Equal(t, 1.0, Quarter.QuarterLength())
	assert.Equal(t, 0.5, Eighth.QuarterLength())
	assert.Equal(t, "quarter", Quarter.String())
}

func TestParseTimeSignature(t *testing.T) {
	ts, err := ParseTimeSignature("3/4")
	require.NoError(t, err)
	assert.Equal(t, TimeSignature{Beats: 3, BeatUnit: 4}, ts)
	assert.Equal(t, 3*Quarter, ts.MeasureLength())

	ts, err = ParseTimeSignature("6/8")
	require.NoError(t, err)
	assert.Equal(t, 6*Eighth, ts.MeasureLength())

	for _, bad := range []string{"4", "0/4", "4/3", "a/4", "4/b"} {
		_, err := ParseTimeSignature(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeSignature, bad)
	}
}

func TestMeasureLengthWithoutBeatUnit(t *testing.T) {
	assert.Zero(t, TimeSignature{}.MeasureLength())
	assert.Zero(t, TimeSignature{Beats: 4}.MeasureLength())
	assert.Zero(t, TimeSignature{Beats: -3, BeatUnit: 4}.MeasureLength())

	score := Assemble(120, TimeSignature{}, Sequence(
		[]pitch.Semitone{pitch.Note(60), pitch.Note(62), pitch.NoNote(), pitch.Note(64), pitch.Note(65)}, Quarter))
	var ms []Measure
	require.NotPanics(t, func() { ms = score.Part.Measures() })
	require.Len(t, ms, 2)
	assert.Len(t, ms[0].Items, 4)
}

func TestMeasuresFillBars(t *testing.T) {
	part := Part{TimeSignature: CommonTime}
	for i := 0; i < 6; i++ {
		part.Append(NewNote(60+i, Quarter))
	}

	ms := part.Measures()
	require.Len(t, ms, 2)
	assert.Len(t, ms[0].Items, 4)
	assert.Len(t, ms[1].Items, 2)
	assert.Equal(t, 2, ms[1].Number)
	assert.Equal(t, 3*Quarter, ms[0].Items[3].Offset)
	for _, m := range ms {
		for _, it := range m.Items {
			assert.Equal(t, TieNone, it.Tie)
		}
	}
}

func TestMeasuresSplitAcrossBarline(t *testing.T) {
	// Three dotted halves in 4/4: the second straddles bar 1 and 2.
	dotted := Half + Quarter
	part := Part{
		TimeSignature: CommonTime,
		Events:        []Event{NewNote(60, dotted), NewNote(62, dotted), NewRest(dotted)},
	}

	ms := part.Measures()
	require.Len(t, ms, 3)

	require.Len(t, ms[0].Items, 2)
	assert.Equal(t, TieNone, ms[0].Items[0].Tie)
	assert.Equal(t, TieStart, ms[0].Items[1].Tie)
	assert.Equal(t, Quarter, ms[0].Items[1].Event.Duration())

	require.Len(t, ms[1].Items, 2)
	assert.Equal(t, TieStop, ms[1].Items[0].Tie)
	assert.Equal(t, Half, ms[1].Items[0].Event.Duration())
	assert.True(t, ms[1].Items[1].Event.IsRest())
	assert.Equal(t, Half, ms[1].Items[1].Event.Duration())
	assert.Equal(t, TieNone, ms[1].Items[1].Tie)

	require.Len(t, ms[2].Items, 1)
	assert.True(t, ms[2].Items[0].Event.IsRest())
	assert.Equal(t, Quarter, ms[2].Items[0].Event.Duration())

	// Layout never changes the part itself.
	assert.Len(t, part.Events, 3)
	assert.Equal(t, 3*dotted, part.Duration())
}

func TestMeasuresLongNoteContinuesTie(t *testing.T) {
	part := Part{TimeSignature: TimeSignature{Beats: 2, BeatUnit: 4}, Events: []Event{NewNote(70, Whole+Half)}}

	ms := part.Measures()
	require.Len(t, ms, 3)
	assert.Equal(t, TieStart, ms[0].Items[0].Tie)
	assert.Equal(t, TieContinue, ms[1].Items[0].Tie)
	assert.Equal(t, TieStop, ms[2].Items[0].Tie)
}

func TestMeasuresEmptyPart(t *testing.T) {
	part := Part{TimeSignature: CommonTime}
	ms := part.Measures()
	require.Len(t, ms, 1)
	assert.Empty(t, ms[0].Items)
}
