// Package quiz implements the note-finding quiz lifecycle: questions,
// attempts, hints and the final result.
package quiz

import (
	"math"

	"go.uber.org/zap"

	"github.com/abhisek/fretiz/internal/answer"
	"github.com/abhisek/fretiz/internal/eventbus"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/questiongen"
)

// Machine is the quiz state machine. Calls made from inside an event
// listener are rejected.
type Machine struct {
	cfg       Config
	logger    *zap.Logger
	bus       *eventbus.Bus[EventType, Event]
	validator *answer.Validator

	state    State
	zone     music.Zone
	question *questiongen.Question
	stats    QuestionStats
	score    Score
	result   *Result
}

// New creates an idle machine. TotalQuestions <= 0 falls back to the
// default.
func New(cfg Config, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TotalQuestions <= 0 {
		cfg.TotalQuestions = DefaultConfig().TotalQuestions
	}
	return &Machine{
		cfg:       cfg,
		logger:    logger,
		bus:       eventbus.New[EventType, Event](logger),
		validator: answer.NewValidator(cfg.MaxAttempts),
		state:     StateIdle,
		score:     Score{TotalQuestions: cfg.TotalQuestions},
	}
}

// Subscribe registers fn for events of type et.
func (m *Machine) Subscribe(et EventType, fn eventbus.Listener[Event]) func() {
	return m.bus.Subscribe(et, fn)
}

// SubscribeAll registers fn for every event.
func (m *Machine) SubscribeAll(fn eventbus.Listener[Event]) func() {
	return m.bus.SubscribeAll(fn)
}

// Config returns the quiz limits.
func (m *Machine) Config() Config { return m.cfg }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Zone returns the zone bound by Start, nil when idle.
func (m *Machine) Zone() music.Zone { return m.zone }

// CurrentQuestion returns the open question, nil between questions.
func (m *Machine) CurrentQuestion() *questiongen.Question { return m.question }

// QuestionStats returns the current question's stats.
func (m *Machine) QuestionStats() QuestionStats { return m.stats }

// Attempts returns the attempt state of the current question.
func (m *Machine) Attempts() answer.AttemptState { return m.validator.State() }

// Score returns the running tally.
func (m *Machine) Score() Score { return m.score }

// Result returns the final result. ok is false until the quiz completes.
func (m *Machine) Result() (Result, bool) {
	if m.state != StateComplete || m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// Start binds zone and moves idle to active. It reports false for an
// empty zone or when the quiz is not idle.
func (m *Machine) Start(zone music.Zone) bool {
	if m.bus.Dispatching() || m.state != StateIdle {
		return false
	}
	if zone == nil || zone.IsEmpty() {
		return false
	}

	m.zone = zone
	m.question = nil
	m.stats = QuestionStats{}
	m.score = Score{TotalQuestions: m.cfg.TotalQuestions}
	m.result = nil
	m.validator.ResetAttempts()

	prev := m.transition(StateActive)
	m.emit(Event{Type: EventQuizStarted, PreviousState: prev})
	return true
}

// SetQuestion opens q. Only allowed while active.
func (m *Machine) SetQuestion(q *questiongen.Question) bool {
	if m.bus.Dispatching() || m.state != StateActive || q == nil {
		return false
	}
	m.question = q
	m.stats = QuestionStats{}
	m.validator.ResetAttempts()
	m.emit(Event{Type: EventQuestionSet, PreviousState: StateActive, Question: q})
	return true
}

// SubmitAnswer judges note against the open question. Outside the active
// state, without a question, or from inside a listener it returns
// OutcomeInvalid and changes nothing.
func (m *Machine) SubmitAnswer(note music.Note) Outcome {
	if m.bus.Dispatching() || m.state != StateActive || m.question == nil {
		return Outcome{Status: OutcomeInvalid}
	}
	q := m.question

	m.transition(StateAnswering)
	m.stats.Attempts++
	m.score.TotalAttempts++

	res := answer.ValidateAnswer(note, q.TargetPitchClass)
	attempts := m.validator.RecordAttempt(res.Correct, note.PitchClass)
	m.emit(Event{Type: EventAnswerSubmitted, PreviousState: StateActive, Question: q, Attempts: &attempts})

	out := Outcome{Question: q, Validation: res, Attempts: attempts}

	switch {
	case res.Correct:
		m.stats.AnsweredCorrectly = true
		m.score.CorrectAnswers++
		out.Status = OutcomeCorrect
		out.Completed = m.closeQuestion()
		m.emit(Event{Type: EventAnswerCorrect, PreviousState: StateAnswering, Question: q, Attempts: &attempts})
		if out.Completed {
			m.emitCompleted(StateAnswering)
		}

	case attempts.ShouldShowHint:
		m.stats.HintShown = true
		m.score.HintsUsed++
		m.transition(StateHint)
		m.emit(Event{Type: EventAnswerIncorrect, PreviousState: StateAnswering, Question: q, Attempts: &attempts})
		m.emit(Event{Type: EventHintShown, PreviousState: StateAnswering, Question: q, Attempts: &attempts})
		out.Status = OutcomeHint

	default:
		m.transition(StateActive)
		m.emit(Event{Type: EventAnswerIncorrect, PreviousState: StateAnswering, Question: q, Attempts: &attempts})
		out.Status = OutcomeIncorrect
	}

	m.logger.Debug("answer judged",
		zap.Int("question", q.Number),
		zap.String("target", string(q.TargetPitchClass)),
		zap.String("clicked", string(note.PitchClass)),
		zap.String("status", string(out.Status)),
		zap.Int("attempts", attempts.Attempts),
	)
	return out
}

// AcknowledgeHint closes a hinted question without counting it correct.
func (m *Machine) AcknowledgeHint() bool {
	if m.bus.Dispatching() || m.state != StateHint {
		return false
	}
	q := m.question
	completed := m.closeQuestion()
	m.emit(Event{Type: EventHintAcknowledged, PreviousState: StateHint, Question: q})
	if completed {
		m.emitCompleted(StateHint)
	}
	return true
}

// Reset returns to idle from any state, clearing every counter.
func (m *Machine) Reset() {
	if m.bus.Dispatching() {
		return
	}
	m.zone = nil
	m.question = nil
	m.stats = QuestionStats{}
	m.score = Score{TotalQuestions: m.cfg.TotalQuestions}
	m.result = nil
	m.validator.ResetAttempts()

	prev := m.transition(StateIdle)
	m.emit(Event{Type: EventQuizReset, PreviousState: prev})
}

// closeQuestion closes the open question and moves to complete or back
// to active without emitting. It reports whether the quiz completed.
func (m *Machine) closeQuestion() bool {
	m.score.QuestionsCompleted++
	m.question = nil

	if m.score.QuestionsCompleted >= m.cfg.TotalQuestions {
		r := computeResult(m.score)
		m.result = &r
		m.transition(StateComplete)
		return true
	}
	m.transition(StateActive)
	return false
}

func (m *Machine) emitCompleted(from State) {
	r := *m.result
	m.logger.Info("quiz completed",
		zap.Int("correct", r.CorrectAnswers),
		zap.Int("total", r.TotalQuestions),
		zap.Int("accuracy", r.Accuracy),
	)
	m.emit(Event{Type: EventQuizCompleted, PreviousState: from, Result: &r})
}

func (m *Machine) transition(to State) State {
	prev := m.state
	m.state = to
	return prev
}

func (m *Machine) emit(e Event) {
	e.State = m.state
	m.bus.Emit(e.Type, e)
}

func computeResult(s Score) Result {
	r := Result{
		TotalQuestions: s.QuestionsCompleted,
		CorrectAnswers: s.CorrectAnswers,
		HintsUsed:      s.HintsUsed,
		TotalAttempts:  s.TotalAttempts,
	}
	if s.QuestionsCompleted > 0 {
		r.Accuracy = int(math.Round(float64(s.CorrectAnswers) / float64(s.QuestionsCompleted) * 100))
	}
	if s.CorrectAnswers > 0 {
		r.AverageAttempts = math.Round(float64(s.TotalAttempts)/float64(s.CorrectAnswers)*100) / 100
	}
	return r
}
