package zonepicker

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/router"
	"github.com/abhisek/fretiz/internal/screen"
	"github.com/abhisek/fretiz/internal/ui/components"
	"github.com/abhisek/fretiz/internal/ui/layout"
	"github.com/abhisek/fretiz/internal/ui/theme"
)

// ZonePickerScreen lets the player type or cycle through zone presets.
type ZonePickerScreen struct {
	board       *music.Fretboard
	input       components.TextInput
	suggestions []string
	selected    int
	onPick      func(*music.PositionSet)
}

var _ screen.Screen = (*ZonePickerScreen)(nil)
var _ screen.KeyHintProvider = (*ZonePickerScreen)(nil)

// New creates a picker prefilled with current. onPick receives the
// resolved zone before the picker closes.
func New(board *music.Fretboard, current string, onPick func(*music.PositionSet)) *ZonePickerScreen {
	s := &ZonePickerScreen{
		board:       board,
		suggestions: Suggestions(board),
		onPick:      onPick,
	}
	s.input = components.NewTextInput("all, open, string-6, frets-0-4 ...", 24, s.validate)
	s.input.SetValue(current)
	for i, name := range s.suggestions {
		if name == current {
			s.selected = i
		}
	}
	return s
}

// Suggestions lists the fixed presets followed by one entry per string.
func Suggestions(board *music.Fretboard) []string {
	out := append([]string(nil), music.ZonePresetNames()...)
	for str := board.Strings(); str >= 1; str-- {
		out = append(out, fmt.Sprintf("string-%d", str))
	}
	return out
}

func (s *ZonePickerScreen) validate(name string) error {
	_, err := s.resolve(name)
	return err
}

func (s *ZonePickerScreen) resolve(name string) (*music.PositionSet, error) {
	z, err := music.ZonePreset(name, s.board)
	if err != nil {
		return nil, err
	}
	if z.IsEmpty() {
		return nil, fmt.Errorf("zone %q has no positions", name)
	}
	return z, nil
}

func (s *ZonePickerScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ZonePickerScreen) Title() string {
	return "Choose Zone"
}

func (s *ZonePickerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Presets"},
		{Key: "Enter", Description: "Use zone"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ZonePickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up":
			s.cycle(-1)
			return s, nil
		case "down":
			s.cycle(1)
			return s, nil
		case "enter":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ZonePickerScreen) cycle(delta int) {
	n := len(s.suggestions)
	if n == 0 {
		return
	}
	s.selected = (s.selected + delta + n) % n
	s.input.SetValue(s.suggestions[s.selected])
}

func (s *ZonePickerScreen) submit() tea.Cmd {
	name, ok := s.input.Submit()
	if !ok {
		return nil
	}
	z, err := s.resolve(name)
	if err != nil {
		return nil
	}
	if s.onPick != nil {
		s.onPick(z)
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *ZonePickerScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("  Practice zone"))
	b.WriteString("\n\n  ")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	if z, err := s.resolve(s.input.Value()); err == nil {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).
			Render(fmt.Sprintf("  %d positions", z.Size())))
		b.WriteString("\n\n")
		board := components.FretboardView{
			Board: s.board,
			State: func(p music.Position) components.CellState {
				if z.Contains(p) {
					return components.CellNew
				}
				return components.CellLocked
			},
			Width: width - 4,
		}
		b.WriteString(board.View())
		b.WriteString("\n\n")
	}

	b.WriteString(theme.HintText.Render("  Presets: " + strings.Join(s.suggestions, ", ")))
	b.WriteString("\n")
	b.WriteString(theme.HintText.Render(fmt.Sprintf("  Fret ranges: frets-<low>-<high>, up to fret %d", s.board.Frets())))

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, b.String())
}
