package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/fretiz/internal/music"
)

// Filter selects which pitch classes may be targeted.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterNaturals Filter = "naturals"
	FilterCustom   Filter = "custom"
)

// Config controls target selection and display.
type Config struct {
	Filter Filter

	// Custom is used with FilterCustom. An empty set allows everything.
	Custom []music.PitchClass

	// AvoidConsecutiveRepeat skips the previous target's pitch class when
	// another one is available.
	AvoidConsecutiveRepeat bool

	// Accidentals controls how sharps and flats appear in question text.
	Accidentals music.AccidentalMode
}

// DefaultConfig returns a Config targeting all 12 pitch classes.
func DefaultConfig() Config {
	return Config{
		Filter:                 FilterAll,
		AvoidConsecutiveRepeat: true,
		Accidentals:            music.AccidentalSharp,
	}
}

func (c Config) allowed() []music.PitchClass {
	switch c.Filter {
	case FilterNaturals:
		return append([]music.PitchClass(nil), music.NaturalPitchClasses...)
	case FilterCustom:
		seen := make(map[music.PitchClass]bool)
		var out []music.PitchClass
		for _, pc := range c.Custom {
			if pc.Valid() && !seen[pc] {
				seen[pc] = true
				out = append(out, pc)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return append([]music.PitchClass(nil), music.PitchClasses[:]...)
}

// ParseFilter parses a filter name. A comma-separated list of note names
// is read as a custom filter, e.g. "C,Eb,G".
func ParseFilter(s string) (Filter, []music.PitchClass, error) {
	s = strings.TrimSpace(s)
	switch Filter(strings.ToLower(s)) {
	case "", FilterAll:
		return FilterAll, nil, nil
	case FilterNaturals:
		return FilterNaturals, nil, nil
	}

	var custom []music.PitchClass
	for _, part := range strings.Split(s, ",") {
		pc, err := music.ParsePitchClass(part)
		if err != nil {
			return "", nil, fmt.Errorf("parse note filter: %w", err)
		}
		custom = append(custom, pc)
	}
	return FilterCustom, custom, nil
}
