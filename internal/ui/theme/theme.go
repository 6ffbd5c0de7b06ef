package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: rosewood fretboard, brass frets, bright feedback.
var (
	Primary   = lipgloss.Color("#F59E0B") // Amber
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Hint      = lipgloss.Color("#38BDF8") // Sky
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
	Wood      = lipgloss.Color("#3B2314") // Rosewood
	Fret      = lipgloss.Color("#A8A29E") // Nickel
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	HintText = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Fretboard cells. Each cell is a short label on the wood background;
// feedback and the cursor override the mastery colouring.
var (
	CellEmpty = lipgloss.NewStyle().
			Foreground(Fret).
			Background(Wood)

	CellCursor = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(Primary).
			Bold(true)

	CellCorrect = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(Success).
			Bold(true)

	CellIncorrect = lipgloss.NewStyle().
			Foreground(Text).
			Background(Error).
			Bold(true)

	CellHint = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(Hint).
			Bold(true)

	CellLocked = lipgloss.NewStyle().
			Foreground(Border).
			Background(BgDark)

	CellNew = lipgloss.NewStyle().
		Foreground(Text).
		Background(Wood)

	CellLearning = lipgloss.NewStyle().
			Foreground(Accent).
			Background(Wood).
			Bold(true)

	CellMastered = lipgloss.NewStyle().
			Foreground(Success).
			Background(Wood).
			Bold(true)

	FretLabel = lipgloss.NewStyle().
			Foreground(TextDim)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
