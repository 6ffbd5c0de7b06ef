// Package questiongen picks quiz targets from a zone of fretboard
// positions.
package questiongen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/abhisek/fretiz/internal/music"
)

var (
	// ErrEmptyZone is returned when the zone has no positions.
	ErrEmptyZone = errors.New("zone is empty")
	// ErrNoCandidates is returned when no zone position resolves to an
	// allowed pitch class.
	ErrNoCandidates = errors.New("no candidate notes in zone")
	// ErrSelection is returned when target selection produced no note.
	// It indicates a broken internal invariant.
	ErrSelection = errors.New("selection failed")
)

// Question is an immutable quiz prompt.
type Question struct {
	TargetNote       music.Note
	TargetPitchClass music.PitchClass
	// Number is 1-based and increases for the lifetime of the generator.
	Number int
	Text   string
}

// Generator turns zones into questions.
type Generator struct {
	lookup  music.NoteLookup
	cfg     Config
	rng     *rand.Rand
	count   int
	last    music.PitchClass
	hasLast bool
}

// New creates a generator. A nil rng gets a randomly seeded PCG source.
func New(lookup music.NoteLookup, cfg Config, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{lookup: lookup, cfg: cfg, rng: rng}
}

// Config returns the generator configuration.
func (g *Generator) Config() Config { return g.cfg }

// AllowedPitchClasses returns the pitch classes questions may target.
func (g *Generator) AllowedPitchClasses() []music.PitchClass {
	return g.cfg.allowed()
}

// Candidates returns the notes in zone whose pitch class is allowed, in
// zone order. Positions that do not resolve to a note are skipped.
func (g *Generator) Candidates(zone music.Zone) []music.Note {
	allowed := make(map[music.PitchClass]bool)
	for _, pc := range g.cfg.allowed() {
		allowed[pc] = true
	}

	var out []music.Note
	for _, pos := range zone.Positions() {
		n, ok := g.lookup.NoteAt(pos.String, pos.Fret)
		if !ok || !allowed[n.PitchClass] {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Generate picks a target pitch class among the candidates, avoiding an
// immediate repeat when another choice exists, then picks a note of that
// pitch class uniformly.
func (g *Generator) Generate(zone music.Zone) (*Question, error) {
	if zone == nil || zone.IsEmpty() {
		return nil, ErrEmptyZone
	}
	candidates := g.Candidates(zone)
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	byClass := make(map[music.PitchClass][]music.Note)
	for _, n := range candidates {
		byClass[n.PitchClass] = append(byClass[n.PitchClass], n)
	}
	classes := make([]music.PitchClass, 0, len(byClass))
	for pc := range byClass {
		classes = append(classes, pc)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Index() < classes[j].Index() })

	options := classes
	if g.cfg.AvoidConsecutiveRepeat && g.hasLast && len(classes) > 1 {
		options = make([]music.PitchClass, 0, len(classes))
		for _, pc := range classes {
			if pc != g.last {
				options = append(options, pc)
			}
		}
		if len(options) == 0 {
			options = classes
		}
	}

	target := options[g.rng.IntN(len(options))]
	notes := byClass[target]
	if len(notes) == 0 {
		return nil, fmt.Errorf("%w: no note for %s", ErrSelection, target)
	}
	return g.emit(notes[g.rng.IntN(len(notes))]), nil
}

// GenerateAt builds a question for a specific position, typically one
// chosen by the mastery tracker. The position must be a candidate.
func (g *Generator) GenerateAt(zone music.Zone, pos music.Position) (*Question, error) {
	if zone == nil || zone.IsEmpty() {
		return nil, ErrEmptyZone
	}
	if !zone.Contains(pos) {
		return nil, fmt.Errorf("%w: %s not in zone", ErrNoCandidates, pos.ID())
	}
	for _, n := range g.Candidates(zone) {
		if n.Position == pos {
			return g.emit(n), nil
		}
	}
	return nil, fmt.Errorf("%w: %s not allowed", ErrNoCandidates, pos.ID())
}

func (g *Generator) emit(n music.Note) *Question {
	g.count++
	g.last = n.PitchClass
	g.hasLast = true
	return &Question{
		TargetNote:       n,
		TargetPitchClass: n.PitchClass,
		Number:           g.count,
		Text:             "Find " + g.displayName(n),
	}
}

func (g *Generator) displayName(n music.Note) string {
	mode := g.cfg.Accidentals
	if mode == music.AccidentalRandom {
		mode = music.AccidentalSharp
		if g.rng.IntN(2) == 1 {
			mode = music.AccidentalFlat
		}
	}
	return n.DisplayName(mode)
}

// Count returns the number of questions generated since creation or the
// last Reset.
func (g *Generator) Count() int { return g.count }

// Reset restarts question numbering and forgets the previous target.
func (g *Generator) Reset() {
	g.count = 0
	g.last = ""
	g.hasLast = false
}
