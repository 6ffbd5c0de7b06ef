package quiz

import (
	"github.com/abhisek/fretiz/internal/answer"
	"github.com/abhisek/fretiz/internal/questiongen"
)

// State is the quiz lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StateAnswering State = "answering"
	StateHint      State = "hint"
	StateComplete  State = "complete"
)

// Config holds per-session quiz limits.
type Config struct {
	// MaxAttempts per question before a hint is shown. 0 means unlimited.
	MaxAttempts int
	// TotalQuestions ends the quiz once this many questions are finished.
	TotalQuestions int
}

// DefaultConfig returns 3 attempts per question and 10 questions.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, TotalQuestions: 10}
}

// QuestionStats tracks the current question.
type QuestionStats struct {
	Attempts          int
	HintShown         bool
	AnsweredCorrectly bool
}

// Score is the running tally of a session.
type Score struct {
	CorrectAnswers     int
	QuestionsCompleted int
	HintsUsed          int
	TotalAttempts      int
	TotalQuestions     int
}

// Result is the final summary of a completed quiz.
type Result struct {
	TotalQuestions  int
	CorrectAnswers  int
	HintsUsed       int
	TotalAttempts   int
	Accuracy        int     // percent, rounded
	AverageAttempts float64 // attempts per correct answer, two decimals
}

// OutcomeStatus classifies the result of SubmitAnswer.
type OutcomeStatus string

const (
	OutcomeCorrect   OutcomeStatus = "correct"
	OutcomeIncorrect OutcomeStatus = "incorrect"
	OutcomeHint      OutcomeStatus = "hint"
	// OutcomeInvalid means the call was not allowed in the current state.
	// Nothing changed.
	OutcomeInvalid OutcomeStatus = "invalid"
)

// Outcome is returned by SubmitAnswer.
type Outcome struct {
	Status     OutcomeStatus
	Question   *questiongen.Question
	Validation answer.Result
	Attempts   answer.AttemptState
	Completed  bool
}

// EventType identifies quiz events.
type EventType string

const (
	EventQuizStarted      EventType = "quiz-started"
	EventQuestionSet      EventType = "question-set"
	EventAnswerSubmitted  EventType = "answer-submitted"
	EventAnswerCorrect    EventType = "answer-correct"
	EventAnswerIncorrect  EventType = "answer-incorrect"
	EventHintShown        EventType = "hint-shown"
	EventHintAcknowledged EventType = "hint-acknowledged"
	EventQuizCompleted    EventType = "quiz-completed"
	EventQuizReset        EventType = "quiz-reset"
)

// Event describes a transition.
type Event struct {
	Type          EventType
	State         State
	PreviousState State
	Question      *questiongen.Question
	Result        *Result
	Attempts      *answer.AttemptState
}
