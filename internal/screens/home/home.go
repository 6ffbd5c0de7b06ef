package home

import (
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/fretiz/internal/flow"
	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/router"
	"github.com/abhisek/fretiz/internal/screen"
	"github.com/abhisek/fretiz/internal/screens/history"
	"github.com/abhisek/fretiz/internal/screens/progress"
	sessionscreen "github.com/abhisek/fretiz/internal/screens/session"
	"github.com/abhisek/fretiz/internal/screens/zonepicker"
	"github.com/abhisek/fretiz/internal/store"
	"github.com/abhisek/fretiz/internal/ui/components"
)

// Deps are what the home screen hands to the screens it opens.
type Deps struct {
	Fretboard *music.Fretboard
	Zone      *music.PositionSet
	Flow      flow.Config
	// Progressive sessions let Tracker choose targets.
	Progressive bool
	Tracker     *mastery.Tracker
	Snapshots   store.SnapshotRepo
	Events      store.EventRepo
	Recorder    flow.Recorder
	Logger      *zap.Logger
	Rand        *rand.Rand
}

const (
	itemPractice = iota
	itemZone
	itemProgress
	itemHistory
	itemQuit
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps          Deps
	menu          components.Menu
	menuLabels    []string
	stats         mastery.Stats
	mascotVariant MascotVariant
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ router.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &HomeScreen{
		deps:       deps,
		menuLabels: []string{"PRACTICE", "CHOOSE ZONE", "PROGRESS", "HISTORY", "QUIT"},
	}

	items := []components.MenuItem{
		{Label: h.menuLabels[itemPractice], Action: h.openSession},
		{Label: h.menuLabels[itemZone], Action: h.openZonePicker},
		{Label: h.menuLabels[itemProgress], Action: h.openProgress, Disabled: deps.Tracker == nil},
		{Label: h.menuLabels[itemHistory], Action: h.openHistory, Disabled: deps.Events == nil},
		{Label: h.menuLabels[itemQuit], Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	h.Refresh()
	return h
}

// Refresh reloads the dashboard after a session or zone change.
func (h *HomeScreen) Refresh() tea.Cmd {
	h.mascotVariant = MascotIdle
	if h.deps.Tracker != nil {
		h.stats = h.deps.Tracker.Stats()
		if len(h.stats.MasteredStrings) > 0 {
			h.mascotVariant = MascotCelebrating
		}
	}
	if h.deps.Zone == nil {
		h.mascotVariant = MascotAlert
	}
	return nil
}

func (h *HomeScreen) openSession() tea.Cmd {
	opts := sessionscreen.Options{
		Fretboard: h.deps.Fretboard,
		Zone:      h.deps.Zone,
		Flow:      h.deps.Flow,
		Snapshots: h.deps.Snapshots,
		Recorder:  h.deps.Recorder,
		Logger:    h.deps.Logger,
		Rand:      h.deps.Rand,
	}
	if h.deps.Progressive {
		opts.Tracker = h.deps.Tracker
	}
	next := sessionscreen.New(opts)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (h *HomeScreen) openZonePicker() tea.Cmd {
	current := ""
	if h.deps.Zone != nil {
		current = h.deps.Zone.Name()
	}
	picker := zonepicker.New(h.deps.Fretboard, current, func(z *music.PositionSet) {
		h.deps.Logger.Info("zone changed", zap.String("zone", z.Name()), zap.Int("size", z.Size()))
		h.deps.Zone = z
	})
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: picker}
	}
}

func (h *HomeScreen) openProgress() tea.Cmd {
	next := progress.New(h.deps.Tracker, h.deps.Fretboard.Tuning())
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (h *HomeScreen) openHistory() tea.Cmd {
	next := history.New(h.deps.Events, h.deps.Fretboard)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

// Zone returns the zone the next session will use.
func (h *HomeScreen) Zone() *music.PositionSet {
	return h.deps.Zone
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant, cw))
	}
	sections = append(sections, renderStatsBar(h.stats, h.deps.Tracker != nil, cw, compact))
	sections = append(sections, renderZoneLine(h.deps.Zone, h.deps.Progressive, cw))

	disabled := make(map[int]bool)
	for i, item := range h.menu.Items {
		if item.Disabled {
			disabled[i] = true
		}
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw, disabled))
	}

	content := strings.Join(sections, "\n\n")
	return renderCabinetFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
