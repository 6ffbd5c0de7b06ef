package mastery

import "fmt"

// UnlockKind distinguishes the two ways progression can move forward.
type UnlockKind string

const (
	KindFretUnlocked   UnlockKind = "fret-unlocked"
	KindStringAdvanced UnlockKind = "string-advanced"
)

// Unlock records a progression step for display and event logging.
type Unlock struct {
	Kind   UnlockKind
	String int // string that gained material
	Fret   int // newly opened fret
	// PreviousString is the string that was completed, set only for
	// KindStringAdvanced.
	PreviousString int
}

func (u Unlock) String() string {
	if u.Kind == KindStringAdvanced {
		return fmt.Sprintf("string %d mastered, string %d opened", u.PreviousString, u.String)
	}
	return fmt.Sprintf("fret %d unlocked on string %d", u.Fret, u.String)
}

// PositionState is the learner-facing status of a single position.
type PositionState string

const (
	PositionLocked   PositionState = "locked"
	PositionNew      PositionState = "new"
	PositionLearning PositionState = "learning"
	PositionMastered PositionState = "mastered"
)

// Stats summarises progression for display.
type Stats struct {
	CurrentString     int
	UnlockedPositions int
	MasteredPositions int
	TotalAttempts     int
	TotalCorrect      int
	MasteredStrings   []int
}

// Accuracy returns overall accuracy across every position.
func (s Stats) Accuracy() float64 {
	if s.TotalAttempts == 0 {
		return 0.0
	}
	return float64(s.TotalCorrect) / float64(s.TotalAttempts)
}
