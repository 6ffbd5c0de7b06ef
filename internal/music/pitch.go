package music

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPitchClass is returned when a note name is not one of the
// accepted sharp, flat, or natural spellings.
var ErrUnknownPitchClass = errors.New("unknown pitch class")

// PitchClass is one of the 12 note names in an octave, always spelled
// with sharps.
type PitchClass string

const (
	C      PitchClass = "C"
	CSharp PitchClass = "C#"
	D      PitchClass = "D"
	DSharp PitchClass = "D#"
	E      PitchClass = "E"
	F      PitchClass = "F"
	FSharp PitchClass = "F#"
	G      PitchClass = "G"
	GSharp PitchClass = "G#"
	A      PitchClass = "A"
	ASharp PitchClass = "A#"
	B      PitchClass = "B"
)

// PitchClasses lists all pitch classes in chromatic order starting at C.
var PitchClasses = [12]PitchClass{C, CSharp, D, DSharp, E, F, FSharp, G, GSharp, A, ASharp, B}

// NaturalPitchClasses lists the seven pitch classes without accidentals.
var NaturalPitchClasses = []PitchClass{C, D, E, F, G, A, B}

var flatSpellings = map[PitchClass]string{
	CSharp: "Db",
	DSharp: "Eb",
	FSharp: "Gb",
	GSharp: "Ab",
	ASharp: "Bb",
}

// spellings maps every accepted input spelling to its canonical pitch class.
var spellings = func() map[string]PitchClass {
	m := make(map[string]PitchClass, 17)
	for _, pc := range PitchClasses {
		m[string(pc)] = pc
	}
	for pc, flat := range flatSpellings {
		m[flat] = pc
	}
	return m
}()

// ParsePitchClass normalizes a note name to its canonical sharp spelling.
// Flat spellings ("Db") and the unicode accidentals ("C♯", "D♭") are
// accepted. Surrounding whitespace is ignored.
func ParsePitchClass(name string) (PitchClass, error) {
	s := strings.TrimSpace(name)
	s = strings.NewReplacer("♯", "#", "♭", "b").Replace(s)
	if pc, ok := spellings[s]; ok {
		return pc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPitchClass, name)
}

// PitchClassAt returns the pitch class with chromatic index i (C = 0).
// It panics if i is outside [0, 12).
func PitchClassAt(i int) PitchClass {
	if i < 0 || i >= len(PitchClasses) {
		panic(fmt.Sprintf("music: pitch class index %d out of range", i))
	}
	return PitchClasses[i]
}

// Index returns the chromatic index of the pitch class (C = 0, B = 11).
// It panics for a value that is not a canonical pitch class.
func (pc PitchClass) Index() int {
	for i, p := range PitchClasses {
		if p == pc {
			return i
		}
	}
	panic(fmt.Sprintf("music: %q is not a canonical pitch class", string(pc)))
}

// Valid reports whether pc is one of the 12 canonical pitch classes.
func (pc PitchClass) Valid() bool {
	for _, p := range PitchClasses {
		if p == pc {
			return true
		}
	}
	return false
}

// IsNatural reports whether the pitch class has no accidental.
func (pc PitchClass) IsNatural() bool {
	return len(pc) == 1
}

// SharpName returns the sharp spelling, which is the canonical one.
func (pc PitchClass) SharpName() string {
	return string(pc)
}

// FlatName returns the flat spelling, or the plain name for naturals.
func (pc PitchClass) FlatName() string {
	if flat, ok := flatSpellings[pc]; ok {
		return flat
	}
	return string(pc)
}

func (pc PitchClass) String() string {
	return string(pc)
}
