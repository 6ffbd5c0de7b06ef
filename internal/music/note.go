package music

import "fmt"

// AccidentalMode selects how accidentals are rendered for display.
type AccidentalMode string

const (
	AccidentalSharp  AccidentalMode = "sharp"
	AccidentalFlat   AccidentalMode = "flat"
	AccidentalRandom AccidentalMode = "random"
)

// Position is a coordinate on the fretboard. Strings are numbered from 1
// (highest pitched) and frets from 0 (open string).
type Position struct {
	String int `json:"string"`
	Fret   int `json:"fret"`
}

// ID returns the stable key used to address this position, e.g. "s1f8".
func (p Position) ID() string {
	return fmt.Sprintf("s%df%d", p.String, p.Fret)
}

// Note is an immutable pitch at a fretboard position.
type Note struct {
	PitchClass PitchClass
	Octave     int
	Position   Position
}

// NoteFromMIDI builds the note for a MIDI number at the given position.
func NoteFromMIDI(midi int, pos Position) Note {
	return Note{
		PitchClass: PitchClasses[((midi%12)+12)%12],
		Octave:     midi/12 - 1,
		Position:   pos,
	}
}

// MIDI returns the MIDI note number (C4 = 60).
func (n Note) MIDI() int {
	return (n.Octave+1)*12 + n.PitchClass.Index()
}

// DisplayName renders the pitch class without octave. AccidentalRandom is
// resolved by the caller; here it falls back to sharps.
func (n Note) DisplayName(mode AccidentalMode) string {
	if mode == AccidentalFlat {
		return n.PitchClass.FlatName()
	}
	return n.PitchClass.SharpName()
}

// FullName returns the sharp spelling with octave, e.g. "C#4".
func (n Note) FullName() string {
	return fmt.Sprintf("%s%d", n.PitchClass, n.Octave)
}

// PositionID returns the ID of the note's fretboard position.
func (n Note) PositionID() string {
	return n.Position.ID()
}

func (n Note) String() string {
	return fmt.Sprintf("%s@%s", n.FullName(), n.Position.ID())
}
