package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fretiz/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default amber pick
	MascotCelebrating                      // Green, star eyes: a string is mastered
	MascotAlert                            // Orange, exclamation: no zone chosen
)

const mascotIdle = `╭─────────╮
│  ◉   ◉  │
│    ▽    │
 ╲  ♪♫♪  ╱
   ╲   ╱
     ▼`

const mascotCelebrating = `╭─────────╮
│  ★   ★  │
│    ▿    │
 ╲  ♪♫♪  ╱
   ╲   ╱
     ▼`

const mascotAlert = `╭─────────╮
│  ◉   ◉  │ !
│    ▽    │
 ╲  ♪♫♪  ╱
   ╲   ╱
     ▼`

// RenderMascot returns the guitar pick mascot for the given variant.
func RenderMascot(variant ...MascotVariant) string {
	v := MascotIdle
	if len(variant) > 0 {
		v = variant[0]
	}

	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Success
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
