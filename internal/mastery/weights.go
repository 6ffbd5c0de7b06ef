package mastery

import "github.com/abhisek/fretiz/internal/music"

// Weight returns the relative sampling weight of a position. Unpractised
// and struggling positions are boosted; mastered ones are suppressed but
// never excluded.
func (t *Tracker) Weight(str, fret int) float64 {
	p := t.Performance(str, fret)
	w := 1.0

	if p.Attempts < t.cfg.MinAttemptsForLearned {
		return w * t.cfg.UnlearnedNoteWeight
	}

	acc := p.Accuracy()
	switch {
	case acc < t.cfg.StrugglingAccuracyThreshold:
		deficit := (t.cfg.StrugglingAccuracyThreshold - acc) / t.cfg.StrugglingAccuracyThreshold
		w *= 1 + (t.cfg.LowAccuracyWeight-1)*deficit
	case acc >= t.cfg.AccuracyThreshold:
		w *= t.cfg.MasteredWeight
	}
	return w
}

// GenerateQuestionTarget picks the next position to quiz. With probability
// CurrentStringProbability, or always while no string is mastered, it
// samples the current string's unlocked frets; otherwise it picks a
// mastered string uniformly and samples all of its frets. Frets are drawn
// by weight.
func (t *Tracker) GenerateQuestionTarget() music.Position {
	mastered := t.MasteredStrings()

	str := t.CurrentString()
	frets := t.unlocked[str]
	if len(mastered) > 0 && t.rng.Float64() >= t.cfg.CurrentStringProbability {
		str = mastered[t.rng.IntN(len(mastered))]
		frets = FretsPerString
	}

	weights := make([]float64, frets)
	for fret := range weights {
		weights[fret] = t.Weight(str, fret)
	}
	return music.Position{String: str, Fret: t.weightedIndex(weights)}
}

// weightedIndex draws an index from a discrete distribution using a
// cumulative-weight scan.
func (t *Tracker) weightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := t.rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}
