// Package mastery decides which fretboard positions a learner practices and
// unlocks new material as they demonstrate mastery.
package mastery

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/store"
)

// Tracker owns performance ledgers and unlock state. It outlives quiz
// sessions and is the unit of persistence.
//
// Progression invariant: strings before the current one in StringOrder
// have all FretsPerString frets unlocked, the current string has between 1
// and FretsPerString, and later strings have none.
type Tracker struct {
	cfg      Config
	rng      *rand.Rand
	perf     map[music.Position]*NotePerformance
	unlocked map[int]int
	current  int
}

// NewTracker creates a tracker, restoring state from snap when present.
// A current-format snapshot is loaded as is (including its config); a
// legacy snapshot is migrated once. Without a snapshot cfg is used.
func NewTracker(snap *store.SnapshotData, cfg Config, rng *rand.Rand) *Tracker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	t := &Tracker{cfg: cfg, rng: rng}
	t.Reset()

	if snap == nil {
		return t
	}

	// Prefer the current format if available.
	if snap.Mastery != nil {
		t.loadFromSnapshot(snap.Mastery)
		return t
	}

	if snap.Legacy != nil {
		t.loadFromSnapshot(MigrateSnapshot(snap.Legacy))
	}
	return t
}

// Config returns the active configuration.
func (t *Tracker) Config() Config { return t.cfg }

// Reset clears every ledger and returns progression to its initial state:
// fret 0 of the first string in StringOrder.
func (t *Tracker) Reset() {
	t.perf = make(map[music.Position]*NotePerformance)
	t.unlocked = make(map[int]int, len(StringOrder))
	for _, s := range StringOrder {
		t.unlocked[s] = 0
	}
	t.current = 0
	t.unlocked[StringOrder[0]] = 1
}

// RecordAttempt adds an attempt to the position's ledger and re-evaluates
// progression for that string only. It returns the resulting unlock, or
// nil if nothing changed.
func (t *Tracker) RecordAttempt(str, fret int, correct bool, answerTime time.Duration, now time.Time) *Unlock {
	mustPosition(str, fret)

	p := t.ledger(str, fret)
	p.Attempts++
	if correct {
		p.Correct++
	}
	if answerTime >= 0 && answerTime <= t.cfg.MaxAnswerTimeToCount {
		p.AnswerTimes = append(p.AnswerTimes, answerTime.Seconds())
	}
	p.LastAttemptTime = now

	return t.evaluate(str)
}

// evaluate opens the next fret on str, or moves to the next string, when
// every unlocked position on str is mastered.
func (t *Tracker) evaluate(str int) *Unlock {
	n := t.unlocked[str]
	if n == 0 {
		return nil
	}
	for fret := 0; fret < n; fret++ {
		if !t.IsPositionMastered(str, fret) {
			return nil
		}
	}

	if n < FretsPerString {
		t.unlocked[str] = n + 1
		return &Unlock{Kind: KindFretUnlocked, String: str, Fret: n}
	}

	if str != t.CurrentString() || t.current+1 >= len(StringOrder) {
		return nil
	}
	t.current++
	next := StringOrder[t.current]
	if t.unlocked[next] < 1 {
		t.unlocked[next] = 1
	}
	return &Unlock{Kind: KindStringAdvanced, String: next, Fret: 0, PreviousString: str}
}

// IsPositionMastered reports whether a position meets the unlock
// criterion: enough attempts, enough accuracy, and a fast enough average
// over valid answer times.
func (t *Tracker) IsPositionMastered(str, fret int) bool {
	mustPosition(str, fret)

	p, ok := t.perf[music.Position{String: str, Fret: fret}]
	if !ok {
		return false
	}
	if p.Attempts < t.cfg.MinAttemptsToUnlock {
		return false
	}
	if p.Accuracy() < t.cfg.AccuracyThreshold {
		return false
	}
	avg, ok := p.AverageTime(t.cfg.MaxAnswerTimeToCount)
	return ok && avg <= t.cfg.AverageTimeThreshold
}

// ForceUnlock makes str the current string with frets unlocked (clamped to
// 1..FretsPerString). Earlier strings become fully unlocked and later ones
// locked. Together with Reset it is the only way progression can move
// backwards.
func (t *Tracker) ForceUnlock(str, frets int) {
	idx := stringIndex(str)
	frets = max(1, min(frets, FretsPerString))
	for i, s := range StringOrder {
		switch {
		case i < idx:
			t.unlocked[s] = FretsPerString
		case i == idx:
			t.unlocked[s] = frets
		default:
			t.unlocked[s] = 0
		}
	}
	t.current = idx
}

// CurrentString returns the string number being learned.
func (t *Tracker) CurrentString() int { return StringOrder[t.current] }

// CurrentStringIndex returns the index of the current string in
// StringOrder.
func (t *Tracker) CurrentStringIndex() int { return t.current }

// UnlockedFrets returns a copy of the unlock counts keyed by string.
func (t *Tracker) UnlockedFrets() map[int]int {
	out := make(map[int]int, len(t.unlocked))
	for s, n := range t.unlocked {
		out[s] = n
	}
	return out
}

// MasteredStrings returns the fully mastered strings in traversal order.
func (t *Tracker) MasteredStrings() []int {
	out := make([]int, t.current)
	copy(out, StringOrder[:t.current])
	return out
}

// Performance returns a copy of the ledger for a position. The zero value
// is returned for a position that was never attempted.
func (t *Tracker) Performance(str, fret int) NotePerformance {
	mustPosition(str, fret)
	if p, ok := t.perf[music.Position{String: str, Fret: fret}]; ok {
		return p.clone()
	}
	return NotePerformance{}
}

// PositionState classifies a position for display.
func (t *Tracker) PositionState(str, fret int) PositionState {
	mustPosition(str, fret)
	if fret >= t.unlocked[str] {
		return PositionLocked
	}
	if t.IsPositionMastered(str, fret) {
		return PositionMastered
	}
	if t.Performance(str, fret).Attempts == 0 {
		return PositionNew
	}
	return PositionLearning
}

// Stats summarises progression across the whole fretboard.
func (t *Tracker) Stats() Stats {
	st := Stats{
		CurrentString:   t.CurrentString(),
		MasteredStrings: t.MasteredStrings(),
	}
	for _, s := range StringOrder {
		st.UnlockedPositions += t.unlocked[s]
		for fret := 0; fret < FretsPerString; fret++ {
			if t.IsPositionMastered(s, fret) {
				st.MasteredPositions++
			}
		}
	}
	for _, p := range t.perf {
		st.TotalAttempts += p.Attempts
		st.TotalCorrect += p.Correct
	}
	return st
}

func (t *Tracker) ledger(str, fret int) *NotePerformance {
	pos := music.Position{String: str, Fret: fret}
	p, ok := t.perf[pos]
	if !ok {
		p = &NotePerformance{}
		t.perf[pos] = p
	}
	return p
}

func stringIndex(str int) int {
	for i, s := range StringOrder {
		if s == str {
			return i
		}
	}
	panic(fmt.Sprintf("mastery: string %d out of range", str))
}

func mustPosition(str, fret int) {
	if str < 1 || str > len(StringOrder) {
		panic(fmt.Sprintf("mastery: string %d out of range", str))
	}
	if fret < 0 || fret >= FretsPerString {
		panic(fmt.Sprintf("mastery: fret %d out of range", fret))
	}
}
