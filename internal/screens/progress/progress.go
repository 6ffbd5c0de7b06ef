package progress

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/router"
	"github.com/abhisek/fretiz/internal/screen"
	"github.com/abhisek/fretiz/internal/ui/components"
	"github.com/abhisek/fretiz/internal/ui/layout"
	"github.com/abhisek/fretiz/internal/ui/theme"
)

// ProgressScreen maps the tracker's state onto the fretboard.
type ProgressScreen struct {
	tracker *mastery.Tracker
	board   *music.Fretboard
	cursor  music.Position
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a ProgressScreen. Only the frets the tracker covers are
// drawn, whatever the length of tuning's neck.
func New(tracker *mastery.Tracker, tuning music.Tuning) *ProgressScreen {
	return &ProgressScreen{
		tracker: tracker,
		board:   music.NewFretboard(tuning, mastery.FretsPerString-1),
		cursor:  music.Position{String: tracker.CurrentString(), Fret: 0},
	}
}

func (s *ProgressScreen) Init() tea.Cmd {
	return nil
}

func (s *ProgressScreen) Title() string {
	return "Progress"
}

// KeyHints returns the key binding hints for the footer.
func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓←→", Description: "Move"},
		{Key: "Enter", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.cursor.String = max(s.cursor.String-1, 1)
		case "down", "j":
			s.cursor.String = min(s.cursor.String+1, s.board.Strings())
		case "left", "h":
			s.cursor.Fret = max(s.cursor.Fret-1, 0)
		case "right", "l":
			s.cursor.Fret = min(s.cursor.Fret+1, s.board.Frets())
		case "enter":
			return s, s.selectPosition()
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

// selectPosition opens the ledger of the position under the cursor.
func (s *ProgressScreen) selectPosition() tea.Cmd {
	note := s.board.MustNoteAt(s.cursor.String, s.cursor.Fret)
	detail := newPositionDetail(s.tracker, note)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: detail}
	}
}

func (s *ProgressScreen) View(width, height int) string {
	st := s.tracker.Stats()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderStrings(st)))
	b.WriteString("\n\n")

	board := components.FretboardView{
		Board:  s.board,
		Cursor: &s.cursor,
		State:  s.cellState,
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, board.View()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderLegend()))
	b.WriteString("\n\n")

	summary := fmt.Sprintf("%d positions unlocked   %d mastered   %d answers   %.0f%% correct",
		st.UnlockedPositions, st.MasteredPositions, st.TotalAttempts, st.Accuracy()*100)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(summary))

	return b.String()
}

// renderStrings shows the traversal order with each string's status.
func (s *ProgressScreen) renderStrings(st mastery.Stats) string {
	mastered := make(map[int]bool, len(st.MasteredStrings))
	for _, str := range st.MasteredStrings {
		mastered[str] = true
	}

	parts := make([]string, 0, len(mastery.StringOrder))
	for _, str := range mastery.StringOrder {
		label := fmt.Sprintf("%d %s", str, s.board.MustNoteAt(str, 0).PitchClass.SharpName())
		switch {
		case mastered[str]:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).Render("✓ "+label))
		case str == st.CurrentString:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("▸ "+label))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render("· "+label))
		}
	}
	return strings.Join(parts, "   ")
}

func (s *ProgressScreen) cellState(pos music.Position) components.CellState {
	return cellState(s.tracker.PositionState(pos.String, pos.Fret))
}

func cellState(ps mastery.PositionState) components.CellState {
	switch ps {
	case mastery.PositionNew:
		return components.CellNew
	case mastery.PositionLearning:
		return components.CellLearning
	case mastery.PositionMastered:
		return components.CellMastered
	default:
		return components.CellLocked
	}
}

func renderLegend() string {
	return theme.CellNew.Render(" new ") + "  " +
		theme.CellLearning.Render(" learning ") + "  " +
		theme.CellMastered.Render(" mastered ") + "  " +
		theme.CellLocked.Render(" locked ")
}
