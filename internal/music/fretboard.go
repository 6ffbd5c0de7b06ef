package music

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTuning is returned when a tuning name is not in the catalog.
var ErrUnknownTuning = errors.New("unknown tuning")

// DefaultFrets is the highest fret on a default fretboard.
const DefaultFrets = 15

// Tuning describes the open-string pitches of a six-string instrument.
// Open holds MIDI numbers indexed by string number minus one, so Open[0]
// is string 1 (the highest pitched string).
type Tuning struct {
	Name        string
	Description string
	Open        [6]int
}

var tunings = []Tuning{
	{Name: "standard", Description: "E A D G B E", Open: [6]int{64, 59, 55, 50, 45, 40}},
	{Name: "drop-d", Description: "D A D G B E", Open: [6]int{64, 59, 55, 50, 45, 38}},
	{Name: "half-step-down", Description: "Eb Ab Db Gb Bb Eb", Open: [6]int{63, 58, 54, 49, 44, 39}},
	{Name: "open-g", Description: "D G D G B D", Open: [6]int{62, 59, 55, 50, 43, 38}},
	{Name: "dadgad", Description: "D A D G A D", Open: [6]int{62, 57, 55, 50, 45, 38}},
}

// StandardTuning is the E A D G B E guitar tuning.
var StandardTuning = tunings[0]

// Tunings returns the tuning catalog in display order.
func Tunings() []Tuning {
	out := make([]Tuning, len(tunings))
	copy(out, tunings)
	return out
}

// TuningByName looks up a tuning by name (case-insensitive).
func TuningByName(name string) (Tuning, error) {
	for _, t := range tunings {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return Tuning{}, fmt.Errorf("%w: %q", ErrUnknownTuning, name)
}

// NoteLookup resolves fretboard positions to notes. A position that does
// not exist on the instrument resolves to false.
type NoteLookup interface {
	NoteAt(str, fret int) (Note, bool)
}

// Fretboard maps positions of a tuned six-string instrument to notes.
type Fretboard struct {
	tuning Tuning
	frets  int
}

var _ NoteLookup = (*Fretboard)(nil)

// NewFretboard creates a fretboard with frets 0 through frets inclusive.
func NewFretboard(t Tuning, frets int) *Fretboard {
	if frets < 0 {
		panic(fmt.Sprintf("music: negative fret count %d", frets))
	}
	return &Fretboard{tuning: t, frets: frets}
}

// Tuning returns the fretboard's tuning.
func (f *Fretboard) Tuning() Tuning {
	return f.tuning
}

// Strings returns the number of strings.
func (f *Fretboard) Strings() int {
	return len(f.tuning.Open)
}

// Frets returns the highest fret number.
func (f *Fretboard) Frets() int {
	return f.frets
}

// NoteAt returns the note at (string, fret), or false if the position is
// not on this fretboard.
func (f *Fretboard) NoteAt(str, fret int) (Note, bool) {
	if str < 1 || str > len(f.tuning.Open) || fret < 0 || fret > f.frets {
		return Note{}, false
	}
	pos := Position{String: str, Fret: fret}
	return NoteFromMIDI(f.tuning.Open[str-1]+fret, pos), true
}

// MustNoteAt is like NoteAt but panics for positions off the fretboard.
func (f *Fretboard) MustNoteAt(str, fret int) Note {
	n, ok := f.NoteAt(str, fret)
	if !ok {
		panic(fmt.Sprintf("music: position s%df%d is not on the fretboard", str, fret))
	}
	return n
}

// Positions returns every position on the fretboard, string-major.
func (f *Fretboard) Positions() []Position {
	out := make([]Position, 0, f.Strings()*(f.frets+1))
	for s := 1; s <= f.Strings(); s++ {
		for fr := 0; fr <= f.frets; fr++ {
			out = append(out, Position{String: s, Fret: fr})
		}
	}
	return out
}
