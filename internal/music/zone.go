package music

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownPreset is returned for a zone preset name that cannot be resolved.
var ErrUnknownPreset = errors.New("unknown zone preset")

// Zone is a caller-defined set of fretboard positions eligible for quizzing.
type Zone interface {
	IsEmpty() bool
	Size() int
	Positions() []Position
	Contains(pos Position) bool
}

// PositionSet is an ordered, duplicate-free Zone.
type PositionSet struct {
	name      string
	positions []Position
	index     map[Position]struct{}
}

var _ Zone = (*PositionSet)(nil)

// NewZone builds a zone from positions, dropping duplicates while keeping
// first-seen order.
func NewZone(name string, positions ...Position) *PositionSet {
	z := &PositionSet{
		name:  name,
		index: make(map[Position]struct{}, len(positions)),
	}
	for _, p := range positions {
		z.add(p)
	}
	return z
}

func (z *PositionSet) add(p Position) {
	if _, ok := z.index[p]; ok {
		return
	}
	z.index[p] = struct{}{}
	z.positions = append(z.positions, p)
}

// Name returns the zone's display name.
func (z *PositionSet) Name() string { return z.name }

func (z *PositionSet) IsEmpty() bool { return len(z.positions) == 0 }

func (z *PositionSet) Size() int { return len(z.positions) }

// Positions returns a copy of the zone's positions.
func (z *PositionSet) Positions() []Position {
	out := make([]Position, len(z.positions))
	copy(out, z.positions)
	return out
}

func (z *PositionSet) Contains(pos Position) bool {
	_, ok := z.index[pos]
	return ok
}

// ZonePresetNames lists the fixed preset names accepted by ZonePreset.
// Parameterised presets ("string-<n>", "frets-<a>-<b>") are not listed.
func ZonePresetNames() []string {
	return []string{"all", "open", "first-position", "natural-notes"}
}

// ZonePreset resolves a named preset against a fretboard. Besides the fixed
// names it accepts "string-<n>" and "frets-<a>-<b>".
func ZonePreset(name string, fb *Fretboard) (*PositionSet, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	all := fb.Positions()

	switch name {
	case "all":
		return NewZone(name, all...), nil
	case "open":
		return filterZone(name, all, func(p Position) bool { return p.Fret == 0 }), nil
	case "first-position":
		return filterZone(name, all, func(p Position) bool { return p.Fret <= 4 }), nil
	case "natural-notes":
		return filterZone(name, all, func(p Position) bool {
			n, ok := fb.NoteAt(p.String, p.Fret)
			return ok && n.PitchClass.IsNatural()
		}), nil
	}

	if rest, ok := strings.CutPrefix(name, "string-"); ok {
		s, err := strconv.Atoi(rest)
		if err != nil || s < 1 || s > fb.Strings() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		return filterZone(name, all, func(p Position) bool { return p.String == s }), nil
	}

	if rest, ok := strings.CutPrefix(name, "frets-"); ok {
		lo, hi, found := strings.Cut(rest, "-")
		a, errA := strconv.Atoi(lo)
		b, errB := strconv.Atoi(hi)
		if !found || errA != nil || errB != nil || a < 0 || b < a || b > fb.Frets() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		return filterZone(name, all, func(p Position) bool { return p.Fret >= a && p.Fret <= b }), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

func filterZone(name string, positions []Position, keep func(Position) bool) *PositionSet {
	var kept []Position
	for _, p := range positions {
		if keep(p) {
			kept = append(kept, p)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].String != kept[j].String {
			return kept[i].String < kept[j].String
		}
		return kept[i].Fret < kept[j].Fret
	})
	return NewZone(name, kept...)
}
