package zonepicker

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/router"
)

func newPicker(t *testing.T, current string) (*ZonePickerScreen, **music.PositionSet) {
	t.Helper()
	var picked *music.PositionSet
	fb := music.NewFretboard(music.StandardTuning, 12)
	return New(fb, current, func(z *music.PositionSet) { picked = z }), &picked
}

func TestSuggestions(t *testing.T) {
	got := Suggestions(music.NewFretboard(music.StandardTuning, 12))
	assert.Equal(t, []string{"all", "open", "first-position", "natural-notes",
		"string-6", "string-5", "string-4", "string-3", "string-2", "string-1"}, got)
}

func TestZonePicker_SubmitValid(t *testing.T) {
	s, picked := newPicker(t, "open")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
	require.NotNil(t, *picked)
	assert.Equal(t, "open", (*picked).Name())
	assert.Equal(t, 6, (*picked).Size())
}

func TestZonePicker_SubmitInvalid(t *testing.T) {
	s, picked := newPicker(t, "string-9")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Nil(t, *picked)
	assert.Error(t, s.input.Err())
	assert.Contains(t, s.View(100, 30), "unknown zone preset")
}

func TestZonePicker_FretRange(t *testing.T) {
	s, picked := newPicker(t, "frets-0-4")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, 30, (*picked).Size())
}

func TestZonePicker_CyclesPresets(t *testing.T) {
	s, _ := newPicker(t, "all")
	assert.Equal(t, 0, s.selected)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, "open", s.input.Value())

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, "string-1", s.input.Value(), "cycling wraps around")
}

func TestZonePicker_PreviewShowsSize(t *testing.T) {
	s, _ := newPicker(t, "string-6")
	assert.Contains(t, s.View(100, 30), "13 positions")
}
