// Package answer judges clicked notes against quiz targets and tracks the
// attempts made on a single question.
package answer

import (
	"fmt"

	"github.com/abhisek/fretiz/internal/music"
)

// Result is the outcome of pitch-class validation.
type Result struct {
	Correct           bool
	ClickedPitchClass music.PitchClass
	TargetPitchClass  music.PitchClass
	// IsEnharmonicMatch and IsExactMatch mirror Correct: in pitch-class
	// mode an enharmonic spelling and the exact spelling are the same note.
	IsEnharmonicMatch bool
	IsExactMatch      bool
	Message           string
}

// ExactResult is the outcome of comparing a clicked note with a target note.
type ExactResult struct {
	// Correct is the pitch-class match; octave is reported, not graded.
	Correct           bool
	ClickedPitchClass music.PitchClass
	TargetPitchClass  music.PitchClass
	OctaveMatch       bool
	ExactMatch        bool // identical absolute pitch
	OctaveDifference  int  // clicked octave minus target octave
	Message           string
}

// NormalizeToPitchClass maps any accepted spelling to its canonical sharp
// form.
func NormalizeToPitchClass(name string) (music.PitchClass, error) {
	return music.ParsePitchClass(name)
}

// AreEnharmonicEquivalent reports whether a and b name the same pitch
// class. Malformed names are never equivalent to anything.
func AreEnharmonicEquivalent(a, b string) bool {
	pa, err := music.ParsePitchClass(a)
	if err != nil {
		return false
	}
	pb, err := music.ParsePitchClass(b)
	if err != nil {
		return false
	}
	return pa == pb
}

// ValidateAnswer compares the clicked note's pitch class with the target.
// Octave is ignored.
func ValidateAnswer(clicked music.Note, target music.PitchClass) Result {
	correct := clicked.PitchClass == target
	r := Result{
		Correct:           correct,
		ClickedPitchClass: clicked.PitchClass,
		TargetPitchClass:  target,
		IsEnharmonicMatch: correct,
		IsExactMatch:      correct,
	}
	if correct {
		r.Message = fmt.Sprintf("Correct! That's %s.", target)
	} else {
		r.Message = fmt.Sprintf("Not quite. That's %s, not %s.", clicked.PitchClass, target)
	}
	return r
}

// ValidateExactNote distinguishes a right pitch class in the wrong octave
// from an exact match. Correctness is still the pitch-class match.
func ValidateExactNote(clicked, target music.Note) ExactResult {
	pcMatch := clicked.PitchClass == target.PitchClass
	r := ExactResult{
		Correct:           pcMatch,
		ClickedPitchClass: clicked.PitchClass,
		TargetPitchClass:  target.PitchClass,
		OctaveMatch:       clicked.Octave == target.Octave,
		ExactMatch:        clicked.MIDI() == target.MIDI(),
		OctaveDifference:  clicked.Octave - target.Octave,
	}

	switch {
	case r.ExactMatch:
		r.Message = fmt.Sprintf("Correct! That's exactly %s.", target.FullName())
	case pcMatch:
		r.Message = fmt.Sprintf("Correct note name. You played %s, the target was %s.",
			clicked.FullName(), target.FullName())
	default:
		r.Message = fmt.Sprintf("Not quite. That's %s, not %s.", clicked.FullName(), target.FullName())
	}
	return r
}
