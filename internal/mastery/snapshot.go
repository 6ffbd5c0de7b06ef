package mastery

import (
	"time"

	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/store"
)

// legacyString is the string a single-string ledger was recorded on: the
// first string of the traversal.
var legacyString = StringOrder[0]

// MigrateSnapshot converts a legacy single-string snapshot to the
// multi-string format. The ledger moves to the first string in
// StringOrder, which stays current.
func MigrateSnapshot(old *store.LegacySnapshotData) *store.MasterySnapshotData {
	result := &store.MasterySnapshotData{
		Config:        DefaultConfig().toData(),
		Performance:   make(map[int]map[int]*store.NotePerformanceData),
		UnlockedFrets: make(map[int]int, len(StringOrder)),
	}
	for _, s := range StringOrder {
		result.UnlockedFrets[s] = 0
	}
	result.UnlockedFrets[legacyString] = 1

	if old == nil {
		return result
	}
	result.Config = fillConfigData(old.Config, result.Config)
	if len(old.Performance) > 0 {
		ledger := make(map[int]*store.NotePerformanceData, len(old.Performance))
		for fret, pd := range old.Performance {
			if pd == nil {
				continue
			}
			cp := *pd
			cp.AnswerTimes = append([]float64(nil), pd.AnswerTimes...)
			ledger[fret] = &cp
		}
		result.Performance[legacyString] = ledger
	}
	result.UnlockedFrets[legacyString] = max(1, min(old.UnlockedFrets, FretsPerString))
	return result
}

func (t *Tracker) loadFromSnapshot(data *store.MasterySnapshotData) {
	if data == nil {
		return
	}
	t.cfg = configFromData(data.Config)

	for str, frets := range data.Performance {
		for fret, pd := range frets {
			if pd == nil || !validPosition(str, fret) {
				continue
			}
			p := &NotePerformance{
				Attempts:    pd.Attempts,
				Correct:     pd.Correct,
				AnswerTimes: append([]float64(nil), pd.AnswerTimes...),
			}
			if pd.LastAttemptTime != nil {
				ts, err := time.Parse(time.RFC3339Nano, *pd.LastAttemptTime)
				if err == nil {
					p.LastAttemptTime = ts
				}
			}
			t.perf[music.Position{String: str, Fret: fret}] = p
		}
	}

	// Rebuild progression through ForceUnlock so a hand-edited snapshot
	// cannot break the string-order invariant.
	idx := min(max(data.CurrentStringIndex, 0), len(StringOrder)-1)
	t.ForceUnlock(StringOrder[idx], data.UnlockedFrets[StringOrder[idx]])
}

// SnapshotData exports the tracker state for persistence.
func (t *Tracker) SnapshotData() *store.MasterySnapshotData {
	data := &store.MasterySnapshotData{
		Config:             t.cfg.toData(),
		Performance:        make(map[int]map[int]*store.NotePerformanceData),
		UnlockedFrets:      t.UnlockedFrets(),
		CurrentStringIndex: t.current,
	}

	for pos, p := range t.perf {
		frets, ok := data.Performance[pos.String]
		if !ok {
			frets = make(map[int]*store.NotePerformanceData)
			data.Performance[pos.String] = frets
		}
		pd := &store.NotePerformanceData{
			Attempts:    p.Attempts,
			Correct:     p.Correct,
			AnswerTimes: append([]float64(nil), p.AnswerTimes...),
		}
		if !p.LastAttemptTime.IsZero() {
			s := p.LastAttemptTime.UTC().Format(time.RFC3339Nano)
			pd.LastAttemptTime = &s
		}
		frets[pos.Fret] = pd
	}

	return data
}

func validPosition(str, fret int) bool {
	return str >= 1 && str <= len(StringOrder) && fret >= 0 && fret < FretsPerString
}

// fillConfigData replaces zero fields of c with def. Legacy snapshots
// predate most sampling fields.
func fillConfigData(c, def store.MasteryConfigData) store.MasteryConfigData {
	pickInt := func(v, d int) int {
		if v == 0 {
			return d
		}
		return v
	}
	pick := func(v, d float64) float64 {
		if v == 0 {
			return d
		}
		return v
	}
	return store.MasteryConfigData{
		MinAttemptsToUnlock:         pickInt(c.MinAttemptsToUnlock, def.MinAttemptsToUnlock),
		AccuracyThreshold:           pick(c.AccuracyThreshold, def.AccuracyThreshold),
		AverageTimeThreshold:        pick(c.AverageTimeThreshold, def.AverageTimeThreshold),
		MaxAnswerTimeToCount:        pick(c.MaxAnswerTimeToCount, def.MaxAnswerTimeToCount),
		CurrentStringProbability:    pick(c.CurrentStringProbability, def.CurrentStringProbability),
		MinAttemptsForLearned:       pickInt(c.MinAttemptsForLearned, def.MinAttemptsForLearned),
		UnlearnedNoteWeight:         pick(c.UnlearnedNoteWeight, def.UnlearnedNoteWeight),
		StrugglingAccuracyThreshold: pick(c.StrugglingAccuracyThreshold, def.StrugglingAccuracyThreshold),
		LowAccuracyWeight:           pick(c.LowAccuracyWeight, def.LowAccuracyWeight),
		MasteredWeight:              pick(c.MasteredWeight, def.MasteredWeight),
	}
}
