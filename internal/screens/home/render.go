package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/ui/theme"
)

const titleFull = ` ███████╗██████╗ ███████╗████████╗██╗███████╗
 ██╔════╝██╔══██╗██╔════╝╚══██╔══╝██║╚══███╔╝
 █████╗  ██████╔╝█████╗     ██║   ██║  ███╔╝
 ██╔══╝  ██╔══██╗██╔══╝     ██║   ██║ ███╔╝
 ██║     ██║  ██║███████╗   ██║   ██║███████╗
 ╚═╝     ╚═╝  ╚═╝╚══════╝   ╚═╝   ╚═╝╚══════╝`

const titleCompact = "F · R · E · T · I · Z"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for cabinet border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders tracker progress in a bordered box matching content width.
func renderStatsBar(st mastery.Stats, tracked bool, cw int, compact bool) string {
	stringStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	masteredStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(theme.Hint).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	switch {
	case !tracked:
		stats = dimStyle.Render("progress tracking off")
	case compact:
		stats = fmt.Sprintf("%s %s %s",
			stringStyle.Render(fmt.Sprintf("♪%d", st.CurrentString)),
			masteredStyle.Render(fmt.Sprintf("★%d", st.MasteredPositions)),
			accuracyText(st, true, accStyle, dimStyle),
		)
	default:
		stats = fmt.Sprintf("%s  %s  %s",
			stringStyle.Render(fmt.Sprintf("♪ STRING %d", st.CurrentString)),
			masteredStyle.Render(fmt.Sprintf("★ %d MASTERED", st.MasteredPositions)),
			accuracyText(st, false, accStyle, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func accuracyText(st mastery.Stats, compact bool, active, dim lipgloss.Style) string {
	if st.TotalAttempts == 0 {
		if compact {
			return dim.Render("-")
		}
		return dim.Render("NO ANSWERS YET")
	}
	pct := st.Accuracy() * 100
	if compact {
		return active.Render(fmt.Sprintf("%.0f%%", pct))
	}
	return active.Render(fmt.Sprintf("%.0f%% ACCURACY", pct))
}

func renderZoneLine(zone *music.PositionSet, progressive bool, cw int) string {
	style := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	if zone == nil {
		return style.Foreground(theme.Accent).Render("⚠ Choose a zone to start practicing")
	}
	mode := "free"
	if progressive {
		mode = "progressive"
	}
	return style.Foreground(theme.TextDim).
		Render(fmt.Sprintf("zone %s · %d positions · %s", zone.Name(), zone.Size(), mode))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	disabledBtn := normalBtn.Foreground(theme.TextDim)

	var buttons []string
	for i, label := range items {
		switch {
		case disabled[i]:
			buttons = append(buttons, disabledBtn.Render(label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		default:
			buttons = append(buttons, normalBtn.Render(label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for small terminals
// where bordered buttons would overflow.
func renderMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		switch {
		case disabled[i]:
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
		case i == selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ " + label + " ")
		default:
			line = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderCabinetFrame wraps content in a double-border frame, centered
// vertically and horizontally within the given dimensions.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
