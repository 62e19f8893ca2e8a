package pitch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantizeEqualTemperedFrequencies(t *testing.T) {
	for k := -48; k <= 48; k++ {
		hz := 440 * math.Pow(2, float64(k)/12)
		got := Quantize([]Frequency{Hz(hz)})

		require.Len(t, got, 1)
		n, ok := got[0].Value()
		require.True(t, ok, "k=%d", k)
		assert.Equal(t, 69+k, n, "k=%d (%.4f Hz)", k, hz)
	}
}

func TestQuantizeKeepsLengthAndAbsence(t *testing.T) {
	in := []Frequency{
		Hz(261.63),
		NoFrequency(),
		Hz(0),
		Hz(-440),
		Hz(math.NaN()),
		Hz(329.63),
	}

	got := Quantize(in)
	require.Len(t, got, len(in))

	for i, s := range got {
		_, ok := s.Value()
		assert.Equal(t, in[i].Voiced(), ok, "index %d", i)
	}

	n, _ := got[0].Value()
	assert.Equal(t, 60, n)
	n, _ = got[5].Value()
	assert.Equal(t, 64, n)
}

func TestQuantizeEmpty(t *testing.T) {
	assert.Empty(t, Quantize(nil))
	assert.Empty(t, Quantize([]Frequency{}))
}

func TestQuantizeRoundsToNearest(t *testing.T) {
	// 30 cents sharp of A4 stays A4, 70 cents sharp goes to A#4.
	got := Quantize([]Frequency{Hz(ToHz(69.3)), Hz(ToHz(69.7)), Hz(ToHz(68.6))})
	want := []Semitone{Note(69), Note(70), Note(69)}
	assert.Equal(t, want, got)
}

func TestRoundNoteHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 61, roundNote(60.5))
	assert.Equal(t, 62, roundNote(61.5))
	assert.Equal(t, -1, roundNote(-0.5))
	assert.Equal(t, 60, roundNote(60.49))
}

func TestQuantizeDoesNotClamp(t *testing.T) {
	got := Quantize([]Frequency{Hz(5), Hz(20000)})

	low, _ := got[0].Value()
	high, _ := got[1].Value()
	assert.Less(t, low, 0)
	assert.Greater(t, high, 127)
}

func TestToHzInvertsToSemitone(t *testing.T) {
	for _, hz := range []float64{27.5, 110, 440, 1234.5} {
		assert.InDelta(t, hz, ToHz(ToSemitone(hz)), 1e-9)
	}
}

func TestDominantFrequencies(t *testing.T) {
	// 3 bins x 4 frames.
	pitches := [][]float64{
		{100, 0, 220, 0},
		{440, 0, 330, 0},
		{880, 0, 660, -5},
	}
	magnitudes := [][]float64{
		{0.1, 0, 0.5, 0},
		{0.9, 0, 0.5, 0},
		{0.2, 0, 0.1, 3},
	}

	got, err := DominantFrequencies(pitches, magnitudes)
	require.NoError(t, err)
	require.Len(t, got, 4)

	hz, ok := got[0].Value()
	assert.True(t, ok)
	assert.Equal(t, 440.0, hz)

	_, ok = got[1].Value()
	assert.False(t, ok, "all-zero column is absent")

	// Ties pick the first bin with the maximum.
	assert.Equal(t, Hz(220), got[2])

	_, ok = got[3].Value()
	assert.False(t, ok, "negative frequency is absent")
}

func TestDominantFrequenciesShapeMismatch(t *testing.T) {
	_, err := DominantFrequencies([][]float64{{1}}, [][]float64{{1}, {2}})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = DominantFrequencies([][]float64{{1, 2}, {3}}, [][]float64{{1, 2}, {3, 4}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDominantFrequenciesEmpty(t *testing.T) {
	got, err := DominantFrequencies(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
