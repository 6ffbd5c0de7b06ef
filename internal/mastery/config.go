package mastery

import (
	"time"

	"github.com/abhisek/fretiz/internal/store"
)

const (
	// FretsPerString is the number of frets (0 through 11) a string must
	// unlock before the next string opens.
	FretsPerString = 12
)

// StringOrder is the traversal order of strings, low E to high E.
var StringOrder = [6]int{6, 5, 4, 3, 2, 1}

// Config holds the unlock and sampling thresholds.
type Config struct {
	MinAttemptsToUnlock  int
	AccuracyThreshold    float64
	AverageTimeThreshold time.Duration
	// Answer times above this are treated as distraction and not recorded.
	MaxAnswerTimeToCount time.Duration

	CurrentStringProbability float64

	MinAttemptsForLearned       int
	UnlearnedNoteWeight         float64
	StrugglingAccuracyThreshold float64
	LowAccuracyWeight           float64
	MasteredWeight              float64
}

// DefaultConfig returns the standard progression thresholds.
func DefaultConfig() Config {
	return Config{
		MinAttemptsToUnlock:         3,
		AccuracyThreshold:           0.8,
		AverageTimeThreshold:        3 * time.Second,
		MaxAnswerTimeToCount:        10 * time.Second,
		CurrentStringProbability:    0.8,
		MinAttemptsForLearned:       3,
		UnlearnedNoteWeight:         3.0,
		StrugglingAccuracyThreshold: 0.6,
		LowAccuracyWeight:           4.0,
		MasteredWeight:              0.5,
	}
}

func (c Config) toData() store.MasteryConfigData {
	return store.MasteryConfigData{
		MinAttemptsToUnlock:         c.MinAttemptsToUnlock,
		AccuracyThreshold:           c.AccuracyThreshold,
		AverageTimeThreshold:        c.AverageTimeThreshold.Seconds(),
		MaxAnswerTimeToCount:        c.MaxAnswerTimeToCount.Seconds(),
		CurrentStringProbability:    c.CurrentStringProbability,
		MinAttemptsForLearned:       c.MinAttemptsForLearned,
		UnlearnedNoteWeight:         c.UnlearnedNoteWeight,
		StrugglingAccuracyThreshold: c.StrugglingAccuracyThreshold,
		LowAccuracyWeight:           c.LowAccuracyWeight,
		MasteredWeight:              c.MasteredWeight,
	}
}

// configFromData restores a persisted config. Zero weights would make a
// position unreachable, so those fall back to the defaults.
func configFromData(d store.MasteryConfigData) Config {
	def := DefaultConfig()
	c := Config{
		MinAttemptsToUnlock:         d.MinAttemptsToUnlock,
		AccuracyThreshold:           d.AccuracyThreshold,
		AverageTimeThreshold:        secondsToDuration(d.AverageTimeThreshold),
		MaxAnswerTimeToCount:        secondsToDuration(d.MaxAnswerTimeToCount),
		CurrentStringProbability:    d.CurrentStringProbability,
		MinAttemptsForLearned:       d.MinAttemptsForLearned,
		UnlearnedNoteWeight:         d.UnlearnedNoteWeight,
		StrugglingAccuracyThreshold: d.StrugglingAccuracyThreshold,
		LowAccuracyWeight:           d.LowAccuracyWeight,
		MasteredWeight:              d.MasteredWeight,
	}
	if c == (Config{}) {
		return def
	}
	if c.UnlearnedNoteWeight <= 0 {
		c.UnlearnedNoteWeight = def.UnlearnedNoteWeight
	}
	if c.LowAccuracyWeight <= 0 {
		c.LowAccuracyWeight = def.LowAccuracyWeight
	}
	if c.MasteredWeight <= 0 {
		c.MasteredWeight = def.MasteredWeight
	}
	return c
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
