package progress

import (
	"math/rand/v2"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/router"
	"github.com/abhisek/fretiz/internal/ui/components"
)

func newTracker() *mastery.Tracker {
	return mastery.NewTracker(nil, mastery.DefaultConfig(), rand.New(rand.NewPCG(3, 4)))
}

func TestProgress_StartsOnCurrentString(t *testing.T) {
	s := New(newTracker(), music.StandardTuning)
	assert.Equal(t, music.Position{String: 6, Fret: 0}, s.cursor)
	assert.Equal(t, "Progress", s.Title())
}

func TestProgress_CursorStaysOnTrackedFrets(t *testing.T) {
	s := New(newTracker(), music.StandardTuning)

	for i := 0; i < 20; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	}
	assert.Equal(t, mastery.FretsPerString-1, s.cursor.Fret)

	for i := 0; i < 10; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	}
	assert.Equal(t, 1, s.cursor.String)
}

func TestProgress_CellStates(t *testing.T) {
	tr := newTracker()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		tr.RecordAttempt(6, 0, true, time.Second, now)
	}
	tr.RecordAttempt(6, 1, false, time.Second, now)

	s := New(tr, music.StandardTuning)
	assert.Equal(t, components.CellMastered, s.cellState(music.Position{String: 6, Fret: 0}))
	assert.Equal(t, components.CellLearning, s.cellState(music.Position{String: 6, Fret: 1}))
	assert.Equal(t, components.CellLocked, s.cellState(music.Position{String: 1, Fret: 0}))

	view := s.View(100, 30)
	assert.Contains(t, view, "1 mastered")
	assert.Contains(t, view, "4 answers")
}

func TestProgress_EnterOpensDetail(t *testing.T) {
	tr := newTracker()
	tr.RecordAttempt(6, 0, true, 2*time.Second, time.Now())

	s := New(tr, music.StandardTuning)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)

	assert.Equal(t, "String 6, fret 0", msg.Screen.Title())
	view := msg.Screen.View(100, 30)
	assert.Contains(t, view, "E2")
	assert.Contains(t, view, "learning")
	assert.Contains(t, view, "100%")
	assert.Contains(t, view, "2.0s")
}

func TestProgress_QuitPops(t *testing.T) {
	s := New(newTracker(), music.StandardTuning)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}
