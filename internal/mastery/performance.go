package mastery

import "time"

// NotePerformance is the practice ledger for one fretboard position.
type NotePerformance struct {
	Attempts int
	Correct  int
	// AnswerTimes holds recorded answer times in seconds. Samples above
	// Config.MaxAnswerTimeToCount are never stored.
	AnswerTimes     []float64
	LastAttemptTime time.Time
}

// Accuracy returns the correct ratio, 0 with no attempts.
func (p *NotePerformance) Accuracy() float64 {
	if p.Attempts == 0 {
		return 0.0
	}
	return float64(p.Correct) / float64(p.Attempts)
}

// AverageTime returns the mean of answer times at or below limit. ok is
// false when there is no such sample.
func (p *NotePerformance) AverageTime(limit time.Duration) (avg time.Duration, ok bool) {
	cutoff := limit.Seconds()
	sum, n := 0.0, 0
	for _, s := range p.AnswerTimes {
		if s <= cutoff {
			sum += s
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return secondsToDuration(sum / float64(n)), true
}

func (p *NotePerformance) clone() NotePerformance {
	out := *p
	out.AnswerTimes = append([]float64(nil), p.AnswerTimes...)
	return out
}
