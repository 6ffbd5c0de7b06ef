package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/ui/theme"
)

// CellState selects how a fretboard cell is drawn.
type CellState int

const (
	CellPlain CellState = iota
	CellLocked
	CellNew
	CellLearning
	CellMastered
	CellCorrect
	CellIncorrect
	CellHint
)

const (
	cellWidth  = 3
	labelWidth = 4 // string name column
)

// Frets with a position marker get a number on the ruler.
var inlays = map[int]bool{0: true, 3: true, 5: true, 7: true, 9: true, 12: true, 15: true, 17: true, 19: true, 21: true, 24: true}

// VisibleFrets returns the highest fret that fits in width columns.
func VisibleFrets(fb *music.Fretboard, width int) int {
	fit := (width-labelWidth-1)/(cellWidth+1) - 1
	return max(min(fb.Frets(), fit), 0)
}

// FretboardView renders a fretboard with string 1 at the top, like tab.
type FretboardView struct {
	Board *music.Fretboard
	// Cursor is highlighted when set.
	Cursor *music.Position
	// State classifies a cell. Nil draws every cell plain.
	State func(music.Position) CellState
	// Label returns the text drawn inside a cell. Nil or "" draws the
	// string line.
	Label func(music.Position) string
	// Width limits how many frets are drawn.
	Width int
}

// View renders the fretboard.
func (v FretboardView) View() string {
	last := v.Board.Frets()
	if v.Width > 0 {
		last = VisibleFrets(v.Board, v.Width)
	}

	var b strings.Builder
	for str := 1; str <= v.Board.Strings(); str++ {
		open := v.Board.MustNoteAt(str, 0)
		b.WriteString(theme.FretLabel.Render(fmt.Sprintf("%-*s", labelWidth, open.PitchClass.SharpName())))
		for fret := 0; fret <= last; fret++ {
			pos := music.Position{String: str, Fret: fret}
			b.WriteString(v.cell(pos))
			if fret == 0 {
				b.WriteString(theme.CellEmpty.Render("║"))
			} else {
				b.WriteString(theme.CellEmpty.Render("│"))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(v.ruler(last))
	return b.String()
}

func (v FretboardView) cell(pos music.Position) string {
	text := ""
	if v.Label != nil {
		text = v.Label(pos)
	}
	state := CellPlain
	if v.State != nil {
		state = v.State(pos)
	}
	style := cellStyle(state)
	if v.Cursor != nil && *v.Cursor == pos {
		style = theme.CellCursor
		if text == "" {
			text = "◆"
		}
	}
	if text == "" {
		text = "─"
		if state == CellLocked {
			text = "·"
		}
	}
	return style.Render(lipgloss.PlaceHorizontal(cellWidth, lipgloss.Center, text))
}

func (v FretboardView) ruler(last int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	for fret := 0; fret <= last; fret++ {
		label := ""
		if inlays[fret] {
			label = fmt.Sprintf("%d", fret)
		}
		b.WriteString(lipgloss.PlaceHorizontal(cellWidth+1, lipgloss.Left, lipgloss.PlaceHorizontal(cellWidth, lipgloss.Center, label)))
	}
	return theme.FretLabel.Render(b.String())
}

func cellStyle(s CellState) lipgloss.Style {
	switch s {
	case CellLocked:
		return theme.CellLocked
	case CellNew:
		return theme.CellNew
	case CellLearning:
		return theme.CellLearning
	case CellMastered:
		return theme.CellMastered
	case CellCorrect:
		return theme.CellCorrect
	case CellIncorrect:
		return theme.CellIncorrect
	case CellHint:
		return theme.CellHint
	default:
		return theme.CellEmpty
	}
}
