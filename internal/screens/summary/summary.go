package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/quiz"
	"github.com/abhisek/fretiz/internal/router"
	"github.com/abhisek/fretiz/internal/screen"
	"github.com/abhisek/fretiz/internal/ui/layout"
	"github.com/abhisek/fretiz/internal/ui/theme"
)

// Summary is everything shown after a completed session.
type Summary struct {
	Result   quiz.Result
	Zone     string
	Duration time.Duration
	Unlocks  []mastery.Unlock
	// Progress is nil for sessions without a mastery tracker.
	Progress *mastery.Stats
	// SaveErr is set when the tracker snapshot could not be written.
	SaveErr error
}

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary Summary
	again   func() screen.Screen
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. again builds a fresh session with the
// same settings; nil disables "practice again".
func New(summary Summary, again func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{summary: summary, again: again}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
	if s.again != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Practice again"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "r", "R":
			if s.again != nil {
				next := s.again()
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	r := sum.Result
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder

	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(headline(r.Accuracy)))
	b.WriteString("\n\n")

	meta := fmt.Sprintf("Zone: %s", sum.Zone)
	if sum.Duration > 0 {
		mins := int(sum.Duration.Minutes())
		secs := int(sum.Duration.Seconds()) % 60
		meta += fmt.Sprintf("    Duration: %d:%02d", mins, secs)
	}
	b.WriteString(center.Foreground(theme.TextDim).Render(meta))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Questions: %d      First-try correct: %d      Accuracy: %d%%",
		r.TotalQuestions, r.CorrectAnswers, r.Accuracy)
	b.WriteString(center.Foreground(theme.Text).Render(statsLine))
	b.WriteString("\n")
	attemptsLine := fmt.Sprintf("Attempts: %d      Avg attempts per correct: %.2f      Hints: %d",
		r.TotalAttempts, r.AverageAttempts, r.HintsUsed)
	b.WriteString(center.Foreground(theme.Text).Render(attemptsLine))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))

	if len(sum.Unlocks) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Unlocked")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, u := range sum.Unlocks {
			style := lipgloss.NewStyle().Foreground(theme.Success)
			if u.Kind == mastery.KindStringAdvanced {
				style = style.Bold(true)
			}
			b.WriteString(center.Render(style.Render("★ " + u.String())))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if p := sum.Progress; p != nil {
		line := fmt.Sprintf("Current string: %d    Unlocked positions: %d    Mastered: %d",
			p.CurrentString, p.UnlockedPositions, p.MasteredPositions)
		b.WriteString(center.Foreground(theme.Secondary).Render(line))
		b.WriteString("\n")
	}

	if sum.SaveErr != nil {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.Error).Render("Progress could not be saved: " + sum.SaveErr.Error()))
	}

	return b.String()
}

func headline(accuracy int) string {
	switch {
	case accuracy == 100:
		return "Flawless!"
	case accuracy >= 80:
		return "Great session!"
	case accuracy >= 50:
		return "Session complete"
	default:
		return "Keep practicing!"
	}
}
