package music

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFretboard_StandardOpenStrings(t *testing.T) {
	fb := NewFretboard(StandardTuning, DefaultFrets)
	want := []string{"E4", "B3", "G3", "D3", "A2", "E2"}
	for i, name := range want {
		n, ok := fb.NoteAt(i+1, 0)
		require.True(t, ok)
		assert.Equal(t, name, n.FullName(), "string %d", i+1)
	}
}

func TestFretboard_NoteAt(t *testing.T) {
	fb := NewFretboard(StandardTuning, DefaultFrets)

	n, ok := fb.NoteAt(1, 8)
	require.True(t, ok)
	assert.Equal(t, C, n.PitchClass)
	assert.Equal(t, 72, n.MIDI())
	assert.Equal(t, "s1f8", n.PositionID())

	n, ok = fb.NoteAt(2, 1)
	require.True(t, ok)
	assert.Equal(t, "C4", n.FullName())
	assert.Equal(t, 60, n.MIDI())
}

func TestFretboard_OffBoard(t *testing.T) {
	fb := NewFretboard(StandardTuning, 12)
	for _, p := range []Position{{0, 0}, {7, 0}, {1, -1}, {1, 13}} {
		_, ok := fb.NoteAt(p.String, p.Fret)
		assert.False(t, ok, "position %v", p)
	}
}

func TestFretboard_MustNoteAtPanics(t *testing.T) {
	fb := NewFretboard(StandardTuning, 12)
	assert.Panics(t, func() { fb.MustNoteAt(9, 0) })
}

func TestTuningByName(t *testing.T) {
	tn, err := TuningByName("Drop-D")
	require.NoError(t, err)
	assert.Equal(t, "drop-d", tn.Name)

	_, err = TuningByName("banjo")
	assert.True(t, errors.Is(err, ErrUnknownTuning))
}

func TestNote_DisplayName(t *testing.T) {
	n := Note{PitchClass: ASharp, Octave: 3}
	assert.Equal(t, "A#", n.DisplayName(AccidentalSharp))
	assert.Equal(t, "Bb", n.DisplayName(AccidentalFlat))
	assert.Equal(t, "A#3", n.FullName())
}

func TestNoteFromMIDI(t *testing.T) {
	n := NoteFromMIDI(61, Position{String: 2, Fret: 2})
	assert.Equal(t, CSharp, n.PitchClass)
	assert.Equal(t, 4, n.Octave)
	assert.Equal(t, 61, n.MIDI())
}
