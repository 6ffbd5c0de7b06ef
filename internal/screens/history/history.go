package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/router"
	"github.com/abhisek/fretiz/internal/screen"
	"github.com/abhisek/fretiz/internal/store"
	"github.com/abhisek/fretiz/internal/ui/layout"
	"github.com/abhisek/fretiz/internal/ui/theme"
)

const (
	sessionLimit   = 50
	weakSpotLimit  = 12
	weakSpotMinTry = 2
)

type tab int

const (
	tabSessions tab = iota
	tabWeakSpots
)

type historyLoadedMsg struct {
	Totals    store.AnswerStats
	Sessions  []store.SessionSummary
	WeakSpots []store.PositionStat
	Err       error
}

// HistoryScreen lists past sessions and the positions answered worst.
type HistoryScreen struct {
	eventRepo store.EventRepo
	board     *music.Fretboard

	totals    store.AnswerStats
	sessions  []store.SessionSummary
	weakSpots []store.PositionStat

	tab      tab
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. board names the notes in the weak
// spot list and may be nil.
func New(eventRepo store.EventRepo, board *music.Fretboard) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		board:     board,
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		totals, err := repo.AnswerStats(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		sessions, err := repo.RecentSessions(ctx, sessionLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		weak, err := repo.PositionStats(ctx, weakSpotMinTry, weakSpotLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Totals: totals, Sessions: sessions, WeakSpots: weak}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Sessions / Weak spots"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.totals = msg.Totals
			s.sessions = msg.Sessions
			s.weakSpots = msg.WeakSpots
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab", "left", "right", "h", "l":
			if s.tab == tabSessions {
				s.tab = tabWeakSpots
			} else {
				s.tab = tabSessions
			}
			s.selected = 0
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < s.rowCount()-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) rowCount() int {
	if s.tab == tabWeakSpots {
		return len(s.weakSpots)
	}
	return len(s.sessions)
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 && s.totals.Attempts == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderTotals()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderTabs()))
	b.WriteString("\n\n")

	// Header, borders and the lines above leave this many rows for data.
	visible := max(height-10, 3)
	var t *table.Table
	if s.tab == tabWeakSpots {
		t = s.weakSpotTable()
	} else {
		t = s.sessionTable()
	}
	if s.rowCount() == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(s.emptyText())))
		return b.String()
	}
	t.Height(visible + 4).YOffset(max(s.selected-visible+1, 0))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, t.Render()))
	return b.String()
}

func (s *HistoryScreen) emptyText() string {
	if s.tab == tabWeakSpots {
		return fmt.Sprintf("No position has %d or more attempts yet.", weakSpotMinTry)
	}
	return "No finished sessions yet."
}

func (s *HistoryScreen) renderTotals() string {
	avg := "-"
	if s.totals.Attempts > 0 {
		avg = fmt.Sprintf("%.1fs", s.totals.AverageTime.Seconds())
	}
	line := fmt.Sprintf("%d answers   %.0f%% correct   avg %s   %d sessions completed",
		s.totals.Attempts, s.totals.Accuracy()*100, avg, s.totals.CompletedSessions)
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(line)
}

func (s *HistoryScreen) renderTabs() string {
	active := lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Primary).Bold(true).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(theme.TextDim).Padding(0, 1)

	sessions, weak := inactive, inactive
	if s.tab == tabSessions {
		sessions = active
	} else {
		weak = active
	}
	return sessions.Render("Sessions") + "  " + weak.Render("Weak spots")
}

func (s *HistoryScreen) sessionTable() *table.Table {
	rows := make([][]string, 0, len(s.sessions))
	for _, sess := range s.sessions {
		acc := "-"
		if sess.Accuracy != nil {
			acc = fmt.Sprintf("%d%%", *sess.Accuracy)
		}
		status := "done"
		if sess.Action == "abandoned" {
			status = "quit"
		}
		rows = append(rows, []string{
			sess.Timestamp.Local().Format("Jan 02 15:04"),
			sess.Zone,
			fmt.Sprintf("%d/%d", sess.CorrectAnswers, sess.QuestionsCompleted),
			acc,
			fmt.Sprintf("%d", sess.HintsUsed),
			status,
		})
	}
	return s.styledTable().
		Headers("When", "Zone", "Correct", "Accuracy", "Hints", "").
		Rows(rows...)
}

func (s *HistoryScreen) weakSpotTable() *table.Table {
	rows := make([][]string, 0, len(s.weakSpots))
	for _, p := range s.weakSpots {
		note := "?"
		if s.board != nil {
			if n, ok := s.board.NoteAt(p.String, p.Fret); ok {
				note = n.PitchClass.SharpName()
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.String),
			fmt.Sprintf("%d", p.Fret),
			note,
			fmt.Sprintf("%d", p.Attempts),
			fmt.Sprintf("%.0f%%", p.Accuracy()*100),
			fmt.Sprintf("%.1fs", p.AverageTime.Seconds()),
		})
	}
	return s.styledTable().
		Headers("String", "Fret", "Note", "Tries", "Accuracy", "Avg").
		Rows(rows...)
}

func (s *HistoryScreen) styledTable() *table.Table {
	header := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	selected := cell.Foreground(theme.BgDark).Background(theme.Primary)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row == s.selected:
				return selected
			default:
				return cell
			}
		})
}
