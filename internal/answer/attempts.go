package answer

import "github.com/abhisek/fretiz/internal/music"

// Unlimited is the RemainingAttempts value reported when there is no
// attempt budget.
const Unlimited = -1

// AttemptState is a snapshot of the attempts made on the current question.
type AttemptState struct {
	Attempts           int
	MaxAttemptsReached bool
	ShouldShowHint     bool
	RemainingAttempts  int
	IncorrectAttempts  []music.PitchClass
}

// Validator tracks attempts on one question at a time. Call ResetAttempts
// at every question boundary.
type Validator struct {
	maxAttempts int
	attempts    int
	lastCorrect bool
	incorrect   []music.PitchClass
}

// NewValidator creates a validator. maxAttempts <= 0 means unlimited.
func NewValidator(maxAttempts int) *Validator {
	if maxAttempts < 0 {
		maxAttempts = 0
	}
	return &Validator{maxAttempts: maxAttempts}
}

// MaxAttempts returns the attempt budget, 0 when unlimited.
func (v *Validator) MaxAttempts() int {
	return v.maxAttempts
}

// RecordAttempt counts an attempt and remembers wrong answers.
func (v *Validator) RecordAttempt(correct bool, pc music.PitchClass) AttemptState {
	v.attempts++
	v.lastCorrect = correct
	if !correct {
		v.incorrect = append(v.incorrect, pc)
	}
	return v.State()
}

// CanAttempt reports whether another attempt is allowed.
func (v *Validator) CanAttempt() bool {
	return v.maxAttempts == 0 || v.attempts < v.maxAttempts
}

// RemainingAttempts returns attempts left, or Unlimited.
func (v *Validator) RemainingAttempts() int {
	if v.maxAttempts == 0 {
		return Unlimited
	}
	if v.attempts >= v.maxAttempts {
		return 0
	}
	return v.maxAttempts - v.attempts
}

// State returns a copy of the current attempt state.
func (v *Validator) State() AttemptState {
	reached := v.maxAttempts > 0 && v.attempts >= v.maxAttempts
	incorrect := make([]music.PitchClass, len(v.incorrect))
	copy(incorrect, v.incorrect)
	return AttemptState{
		Attempts:           v.attempts,
		MaxAttemptsReached: reached,
		ShouldShowHint:     reached && !v.lastCorrect,
		RemainingAttempts:  v.RemainingAttempts(),
		IncorrectAttempts:  incorrect,
	}
}

// ResetAttempts clears the counter and the incorrect-answer history.
func (v *Validator) ResetAttempts() {
	v.attempts = 0
	v.lastCorrect = false
	v.incorrect = nil
}
