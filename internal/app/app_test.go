package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fretiz/internal/flow"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/router"
	"github.com/abhisek/fretiz/internal/screen"
	"github.com/abhisek/fretiz/internal/screens/home"
	"github.com/abhisek/fretiz/internal/screens/welcome"
	"github.com/abhisek/fretiz/internal/ui/layout"
)

type escScreen struct {
	handles bool
	escapes int
}

func (s *escScreen) Init() tea.Cmd { return nil }
func (s *escScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		s.escapes++
	}
	return s, nil
}
func (s *escScreen) View(int, int) string { return "esc screen" }
func (s *escScreen) Title() string        { return "Esc" }
func (s *escScreen) HandlesEscape() bool  { return s.handles }
func (s *escScreen) Status() string       { return "✓ 3/5" }
func (s *escScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "X", Description: "Custom"}}
}

func testOptions(splash bool) Options {
	fb := music.NewFretboard(music.StandardTuning, 12)
	zone, _ := music.ZonePreset("open", fb)
	return Options{
		Splash: splash,
		Home:   home.Deps{Fretboard: fb, Zone: zone, Flow: flow.DefaultConfig()},
	}
}

func sized(m AppModel) AppModel {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(AppModel)
}

func TestNewAppModel_Splash(t *testing.T) {
	m := newAppModel(testOptions(true))
	_, ok := m.router.Active().(*welcome.WelcomeScreen)
	assert.True(t, ok)

	m = newAppModel(testOptions(false))
	_, ok = m.router.Active().(*home.HomeScreen)
	assert.True(t, ok)
}

func TestEscPopsUnlessHandled(t *testing.T) {
	m := sized(newAppModel(testOptions(false)))
	plain := &escScreen{}
	m.router.Push(plain)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
	assert.Equal(t, 0, plain.escapes)

	m.router.Pop()
	owner := &escScreen{handles: true}
	m.router.Push(owner)
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, owner.escapes, "screen that handles Esc receives it")
	assert.Equal(t, 2, m.router.Depth())
}

func TestEscAtRootIsIgnored(t *testing.T) {
	m := sized(newAppModel(testOptions(false)))
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
}

func TestViewShowsStatusAndHints(t *testing.T) {
	m := sized(newAppModel(testOptions(false)))
	m.router.Push(&escScreen{})

	content := m.render()
	assert.Contains(t, content, "✓ 3/5")
	assert.Contains(t, content, "Custom")
	assert.Contains(t, content, "Ctrl+C")
}

func TestViewTooSmall(t *testing.T) {
	m := newAppModel(testOptions(false))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	content := next.(AppModel).render()
	assert.NotContains(t, content, "PRACTICE")
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(testOptions(false))
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
