package progress

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/screen"
	"github.com/abhisek/fretiz/internal/ui/layout"
	"github.com/abhisek/fretiz/internal/ui/theme"
)

// PositionDetailScreen shows the practice ledger for one position.
type PositionDetailScreen struct {
	note   music.Note
	state  mastery.PositionState
	perf   mastery.NotePerformance
	weight float64
	cfg    mastery.Config
}

var _ screen.Screen = (*PositionDetailScreen)(nil)
var _ screen.KeyHintProvider = (*PositionDetailScreen)(nil)

func newPositionDetail(t *mastery.Tracker, note music.Note) *PositionDetailScreen {
	pos := note.Position
	return &PositionDetailScreen{
		note:   note,
		state:  t.PositionState(pos.String, pos.Fret),
		perf:   t.Performance(pos.String, pos.Fret),
		weight: t.Weight(pos.String, pos.Fret),
		cfg:    t.Config(),
	}
}

func (d *PositionDetailScreen) Init() tea.Cmd { return nil }
func (d *PositionDetailScreen) Title() string {
	return fmt.Sprintf("String %d, fret %d", d.note.Position.String, d.note.Position.Fret)
}

func (d *PositionDetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return d, nil
}

func (d *PositionDetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (d *PositionDetailScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("  %s  (%s)", d.note.DisplayName(music.AccidentalSharp), d.note.FullName())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(stateColor(d.state)).
		Render(fmt.Sprintf("  %s", d.state)))
	b.WriteString("\n\n")

	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valStyle := lipgloss.NewStyle().Foreground(theme.Text)
	row := func(label, value string) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %-14s", label)) + valStyle.Render(value) + "\n")
	}

	row("Attempts:", fmt.Sprintf("%d", d.perf.Attempts))
	row("Correct:", fmt.Sprintf("%d", d.perf.Correct))
	row("Accuracy:", fmt.Sprintf("%.0f%%", d.perf.Accuracy()*100))
	if avg, ok := d.perf.AverageTime(d.cfg.MaxAnswerTimeToCount); ok {
		row("Average time:", fmt.Sprintf("%.1fs", avg.Seconds()))
	} else {
		row("Average time:", "-")
	}
	if !d.perf.LastAttemptTime.IsZero() {
		row("Last practiced:", d.perf.LastAttemptTime.Local().Format("Jan 02 15:04"))
	}
	row("Weight:", fmt.Sprintf("%.2f", d.weight))
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  To master"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d attempts, %.0f%% accuracy, %.1fs average or faster",
		d.cfg.MinAttemptsToUnlock, d.cfg.AccuracyThreshold*100, d.cfg.AverageTimeThreshold.Seconds())))
	b.WriteString("\n")

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		"\n"+b.String())
}

func stateColor(s mastery.PositionState) color.Color {
	switch s {
	case mastery.PositionMastered:
		return theme.Success
	case mastery.PositionLearning:
		return theme.Primary
	case mastery.PositionNew:
		return theme.Hint
	default:
		return theme.TextDim
	}
}
