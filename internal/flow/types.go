package flow

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/fretiz/internal/feedback"
	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/questiongen"
	"github.com/abhisek/fretiz/internal/quiz"
	"github.com/abhisek/fretiz/internal/timer"
)

// ErrNotIdle is returned by Start when a session is already running.
var ErrNotIdle = errors.New("session already started")

// Status is the controller's top-level state.
type Status string

const (
	StatusRunning            Status = "running"
	StatusPaused             Status = "paused"
	StatusAutoAdvancePending Status = "auto-advance-pending"
)

// Tracker is the progressive-mastery surface the controller uses.
// *mastery.Tracker satisfies it.
type Tracker interface {
	GenerateQuestionTarget() music.Position
	RecordAttempt(str, fret int, correct bool, answerTime time.Duration, now time.Time) *mastery.Unlock
}

// AnswerRecord is one judged attempt.
type AnswerRecord struct {
	SessionID      string
	QuestionNumber int
	Position       music.Position
	Target         music.PitchClass
	Clicked        music.PitchClass
	Correct        bool
	Attempt        int
	AnswerTime     time.Duration
	At             time.Time
}

// SessionAction names a session lifecycle record.
type SessionAction string

const (
	SessionStarted   SessionAction = "started"
	SessionCompleted SessionAction = "completed"
	SessionAbandoned SessionAction = "abandoned"
)

// SessionRecord is a session lifecycle entry.
type SessionRecord struct {
	SessionID string
	Action    SessionAction
	Zone      string
	Score     quiz.Score
	Result    *quiz.Result
	At        time.Time
}

// Recorder persists answers and session lifecycle. Failures are logged
// and never interrupt a session.
type Recorder interface {
	RecordAnswer(ctx context.Context, rec AnswerRecord) error
	RecordSession(ctx context.Context, rec SessionRecord) error
}

// Deps are the collaborators of a Controller. Fretboard and Scheduler are
// required.
type Deps struct {
	Fretboard music.NoteLookup
	Scheduler timer.Scheduler
	Logger    *zap.Logger
	Rand      *rand.Rand
	Tracker   Tracker
	Recorder  Recorder
}

// Config controls session flow.
type Config struct {
	AutoAdvance      bool
	AutoAdvanceDelay time.Duration
	Quiz             quiz.Config
	Feedback         feedback.Config
	Generator        questiongen.Config
}

// DefaultConfig enables auto-advance after one second.
func DefaultConfig() Config {
	return Config{
		AutoAdvance:      true,
		AutoAdvanceDelay: time.Second,
		Quiz:             quiz.DefaultConfig(),
		Feedback:         feedback.DefaultConfig(),
		Generator:        questiongen.DefaultConfig(),
	}
}

// Progress reports how far the session has come.
type Progress struct {
	CurrentQuestion    int
	QuestionsCompleted int
	TotalQuestions     int
}

// Fraction returns completed/total in [0, 1].
func (p Progress) Fraction() float64 {
	if p.TotalQuestions == 0 {
		return 0
	}
	return float64(p.QuestionsCompleted) / float64(p.TotalQuestions)
}

// EventType identifies controller events.
type EventType string

const (
	EventSessionStarted   EventType = "session-started"
	EventQuestionShown    EventType = "question-shown"
	EventAnswerJudged     EventType = "answer-judged"
	EventMasteryUnlocked  EventType = "mastery-unlocked"
	EventPaused           EventType = "paused"
	EventResumed          EventType = "resumed"
	EventSessionCompleted EventType = "session-completed"
	EventSessionReset     EventType = "session-reset"
	EventGenerationFailed EventType = "generation-failed"
)

// Event is delivered to controller subscribers.
type Event struct {
	Type      EventType
	SessionID string
	Status    Status
	Question  *questiongen.Question
	Outcome   *quiz.Outcome
	Result    *quiz.Result
	Unlock    *mastery.Unlock
	Err       error
}
