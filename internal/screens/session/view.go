package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fretiz/internal/feedback"
	"github.com/abhisek/fretiz/internal/flow"
	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/quiz"
	"github.com/abhisek/fretiz/internal/ui/components"
	"github.com/abhisek/fretiz/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	if s.ctrl.Status() == flow.StatusPaused {
		return renderPaused(width)
	}

	s.maxFret = components.VisibleFrets(s.opts.Fretboard, width-4)
	s.cursor.Fret = min(s.cursor.Fret, s.maxFret)

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if q := s.ctrl.CurrentQuestion(); q != nil {
		b.WriteString(center.Foreground(theme.Text).Bold(true).Render(q.Text))
	}
	b.WriteString("\n\n")

	board := components.FretboardView{
		Board:  s.opts.Fretboard,
		Cursor: &s.cursor,
		State:  s.cellState,
		Label:  s.cellLabel,
		Width:  width - 4,
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, board.View()))
	b.WriteString("\n\n")

	b.WriteString(center.Render(s.renderMessage()))
	b.WriteString("\n")
	if s.banner != "" {
		b.WriteString(center.Foreground(theme.Accent).Bold(true).Render(s.banner))
	}
	b.WriteString("\n\n")

	p := s.ctrl.Progress()
	bar := components.NewProgressBar("Progress", p.QuestionsCompleted, p.TotalQuestions, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))

	return b.String()
}

func (s *SessionScreen) renderInfoLine(width int) string {
	p := s.ctrl.Progress()
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Zone: %s", s.opts.Zone.Name()))

	att := s.ctrl.Attempts()
	attempts := "∞"
	if att.RemainingAttempts >= 0 {
		attempts = fmt.Sprintf("%d", att.RemainingAttempts)
	}
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d   Tries left %s", p.CurrentQuestion, p.TotalQuestions, attempts))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

func (s *SessionScreen) renderMessage() string {
	switch s.messageKind {
	case messageCorrect:
		return theme.Correct.Render(s.message)
	case messageIncorrect:
		return theme.Incorrect.Render(s.message)
	case messageHint:
		return lipgloss.NewStyle().Foreground(theme.Hint).Bold(true).Render(s.message)
	}
	return theme.HintText.Render("Move with the arrow keys and press Enter on the note")
}

// cellState layers live feedback over zone membership and, for
// progressive sessions, the tracker's view of each position.
func (s *SessionScreen) cellState(pos music.Position) components.CellState {
	if fb, ok := s.ctrl.FeedbackAt(pos); ok {
		switch fb.Kind {
		case feedback.KindCorrect:
			return components.CellCorrect
		case feedback.KindIncorrect:
			return components.CellIncorrect
		case feedback.KindHint:
			return components.CellHint
		}
	}
	if !s.opts.Zone.Contains(pos) {
		return components.CellLocked
	}
	if t := s.opts.Tracker; t != nil && pos.Fret < mastery.FretsPerString {
		switch t.PositionState(pos.String, pos.Fret) {
		case mastery.PositionNew:
			return components.CellNew
		case mastery.PositionLearning:
			return components.CellLearning
		case mastery.PositionMastered:
			return components.CellMastered
		}
	}
	return components.CellPlain
}

// cellLabel names the note at positions showing feedback.
func (s *SessionScreen) cellLabel(pos music.Position) string {
	if _, ok := s.ctrl.FeedbackAt(pos); !ok {
		return ""
	}
	n, ok := s.opts.Fretboard.NoteAt(pos.String, pos.Fret)
	if !ok {
		return ""
	}
	return n.DisplayName(s.accidentals())
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Your progress will be saved."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderPaused(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	return "\n\n\n" +
		center.Foreground(theme.Primary).Bold(true).Render("Paused") + "\n\n" +
		center.Foreground(theme.TextDim).Render("Press P to resume")
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

// resultLine is a one-line recap used in logs.
func resultLine(r quiz.Result) string {
	return fmt.Sprintf("%d/%d correct, %d%% accuracy", r.CorrectAnswers, r.TotalQuestions, r.Accuracy)
}
