// Package flow orchestrates a quiz session: question generation, answer
// judging, feedback, auto-advance timing, pause/resume and completion.
// Its exported methods are the whole surface a host drives.
package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/fretiz/internal/answer"
	"github.com/abhisek/fretiz/internal/eventbus"
	"github.com/abhisek/fretiz/internal/feedback"
	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/questiongen"
	"github.com/abhisek/fretiz/internal/quiz"
	"github.com/abhisek/fretiz/internal/timer"
)

// Controller runs one quiz session at a time. It must only be used from
// the goroutine that dispatches its Scheduler's callbacks.
type Controller struct {
	cfg      Config
	deps     Deps
	logger   *zap.Logger
	sched    timer.Scheduler
	quiz     *quiz.Machine
	gen      *questiongen.Generator
	feedback *feedback.Registry
	bus      *eventbus.Bus[EventType, Event]

	sessionID string
	completed bool

	// Auto-advance. pending survives a pause; handle is only set while
	// a timer is armed.
	pending   bool
	handle    timer.Handle
	due       time.Time
	remaining time.Duration

	paused      bool
	pausedAt    time.Time
	pausedTotal time.Duration // paused time while the current question is open

	shownAt      time.Time
	lastQuestion *questiongen.Question
}

// New creates a controller.
func New(deps Deps, cfg Config) *Controller {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	logger := deps.Logger.Named("flow")
	return &Controller{
		cfg:      cfg,
		deps:     deps,
		logger:   logger,
		sched:    deps.Scheduler,
		quiz:     quiz.New(cfg.Quiz, logger),
		gen:      questiongen.New(deps.Fretboard, cfg.Generator, deps.Rand),
		feedback: feedback.New(deps.Scheduler, cfg.Feedback, logger),
		bus:      eventbus.New[EventType, Event](logger),
	}
}

// Subscribe registers fn for events of type et.
func (c *Controller) Subscribe(et EventType, fn eventbus.Listener[Event]) func() {
	return c.bus.Subscribe(et, fn)
}

// SubscribeAll registers fn for every controller event.
func (c *Controller) SubscribeAll(fn eventbus.Listener[Event]) func() {
	return c.bus.SubscribeAll(fn)
}

// SubscribeFeedback registers fn for feedback registry events.
func (c *Controller) SubscribeFeedback(et feedback.EventType, fn eventbus.Listener[feedback.Event]) func() {
	return c.feedback.Subscribe(et, fn)
}

// Start begins a session on zone and shows the first question.
func (c *Controller) Start(zone music.Zone) error {
	if c.bus.Dispatching() {
		return ErrNotIdle
	}
	if c.quiz.State() != quiz.StateIdle {
		return ErrNotIdle
	}
	if zone == nil || zone.IsEmpty() {
		return questiongen.ErrEmptyZone
	}
	if len(c.gen.Candidates(zone)) == 0 {
		return questiongen.ErrNoCandidates
	}
	if !c.quiz.Start(zone) {
		return fmt.Errorf("start quiz: %w", ErrNotIdle)
	}

	c.sessionID = uuid.NewString()
	c.completed = false
	c.gen.Reset()
	c.clearTiming()

	c.logger.Info("session started",
		zap.String("session_id", c.sessionID),
		zap.String("zone", zoneName(zone)),
		zap.Int("zone_size", zone.Size()),
		zap.Bool("progressive", c.deps.Tracker != nil),
	)
	c.record(SessionRecord{SessionID: c.sessionID, Action: SessionStarted, Zone: zoneName(zone), Score: c.quiz.Score()})
	c.emit(Event{Type: EventSessionStarted})

	if err := c.nextQuestion(); err != nil {
		c.quiz.Reset()
		c.sessionID = ""
		return err
	}
	return nil
}

// SubmitAnswer judges a clicked note. Any pending auto-advance is
// cancelled first; a click during the auto-advance window moves straight
// to the next question and is not judged. Paused sessions reject answers.
func (c *Controller) SubmitAnswer(note music.Note) quiz.Outcome {
	if c.bus.Dispatching() || c.paused {
		return quiz.Outcome{Status: quiz.OutcomeInvalid}
	}
	if c.pending {
		c.cancelAutoAdvance()
		c.advance()
		return quiz.Outcome{Status: quiz.OutcomeInvalid}
	}

	out := c.quiz.SubmitAnswer(note)
	if out.Status == quiz.OutcomeInvalid {
		return out
	}
	q := out.Question
	now := c.sched.Now()
	answerTime := now.Sub(c.shownAt) - c.pausedTotal

	var unlock *mastery.Unlock
	pos := q.TargetNote.Position
	if c.deps.Tracker != nil && pos.Fret < mastery.FretsPerString {
		unlock = c.deps.Tracker.RecordAttempt(pos.String, pos.Fret, out.Validation.Correct, answerTime, now)
	}

	c.recordAnswer(AnswerRecord{
		SessionID:      c.sessionID,
		QuestionNumber: q.Number,
		Position:       pos,
		Target:         q.TargetPitchClass,
		Clicked:        note.PitchClass,
		Correct:        out.Validation.Correct,
		Attempt:        out.Attempts.Attempts,
		AnswerTime:     answerTime,
		At:             now,
	})

	switch out.Status {
	case quiz.OutcomeCorrect:
		c.feedback.ShowCorrect(note.PositionID())
	case quiz.OutcomeIncorrect:
		c.feedback.ShowIncorrect(note.PositionID())
	case quiz.OutcomeHint:
		c.feedback.ShowIncorrect(note.PositionID())
		c.feedback.ShowHint(q.TargetNote.PositionID())
	}

	c.emit(Event{Type: EventAnswerJudged, Question: q, Outcome: &out})
	if unlock != nil {
		c.logger.Info("progression unlocked", zap.String("unlock", unlock.String()))
		c.emit(Event{Type: EventMasteryUnlocked, Unlock: unlock})
	}

	if out.Status == quiz.OutcomeCorrect {
		c.lastQuestion = q
		if out.Completed {
			c.complete()
		} else if c.cfg.AutoAdvance {
			c.scheduleAutoAdvance(c.cfg.AutoAdvanceDelay)
		}
	}
	return out
}

// AcknowledgeHint closes a hinted question and shows the next one.
func (c *Controller) AcknowledgeHint() bool {
	if c.bus.Dispatching() || c.paused {
		return false
	}
	c.cancelAutoAdvance()

	q := c.quiz.CurrentQuestion()
	if !c.quiz.AcknowledgeHint() {
		return false
	}
	if q != nil {
		c.feedback.Clear(q.TargetNote.PositionID())
	}
	c.lastQuestion = q

	if c.quiz.State() == quiz.StateComplete {
		c.complete()
		return true
	}
	c.advance()
	return true
}

// AdvanceToNextQuestion shows the next question after a correct answer
// without waiting for auto-advance.
func (c *Controller) AdvanceToNextQuestion() bool {
	if c.bus.Dispatching() || c.paused {
		return false
	}
	c.cancelAutoAdvance()
	if c.quiz.State() != quiz.StateActive || c.quiz.CurrentQuestion() != nil {
		return false
	}
	return c.advance()
}

// Pause freezes the session. A pending auto-advance keeps its remaining
// delay for Resume.
func (c *Controller) Pause() bool {
	if c.bus.Dispatching() || c.paused || !c.inSession() {
		return false
	}
	now := c.sched.Now()
	if c.pending {
		c.remaining = max(c.due.Sub(now), 0)
		c.sched.Cancel(c.handle)
		c.handle = 0
	}
	c.paused = true
	c.pausedAt = now

	c.logger.Debug("session paused", zap.Duration("remaining", c.remaining))
	c.emit(Event{Type: EventPaused})
	return true
}

// Resume continues a paused session, re-arming auto-advance for exactly
// the delay that remained at Pause.
func (c *Controller) Resume() bool {
	if c.bus.Dispatching() || !c.paused {
		return false
	}
	now := c.sched.Now()
	c.pausedTotal += now.Sub(c.pausedAt)
	c.paused = false

	c.logger.Debug("session resumed", zap.Duration("remaining", c.remaining))
	if c.pending {
		c.scheduleAutoAdvance(c.remaining)
	}
	c.emit(Event{Type: EventResumed})
	return true
}

// Reset abandons the session and returns to idle.
func (c *Controller) Reset() {
	if c.bus.Dispatching() {
		return
	}
	if c.sessionID != "" && !c.completed {
		c.record(SessionRecord{SessionID: c.sessionID, Action: SessionAbandoned, Score: c.quiz.Score()})
	}
	c.cancelAutoAdvance()
	c.feedback.ClearAll()
	c.quiz.Reset()
	c.gen.Reset()
	c.clearTiming()
	c.lastQuestion = nil
	c.completed = false

	id := c.sessionID
	c.sessionID = ""
	c.emit(Event{Type: EventSessionReset, SessionID: id})
}

// Close cancels every timer and disposes the feedback registry. The
// controller must not be used afterwards.
func (c *Controller) Close() {
	c.cancelAutoAdvance()
	c.feedback.Dispose()
}

// Status returns the top-level state.
func (c *Controller) Status() Status {
	switch {
	case c.paused:
		return StatusPaused
	case c.pending:
		return StatusAutoAdvancePending
	default:
		return StatusRunning
	}
}

// QuizState returns the underlying quiz state.
func (c *Controller) QuizState() quiz.State { return c.quiz.State() }

// SessionID returns the ID of the running session, empty when idle.
func (c *Controller) SessionID() string { return c.sessionID }

// CurrentQuestion returns the open question. While an advance is pending
// or after completion it returns the question just answered.
func (c *Controller) CurrentQuestion() *questiongen.Question {
	if q := c.quiz.CurrentQuestion(); q != nil {
		return q
	}
	return c.lastQuestion
}

// Attempts returns the attempt state of the open question.
func (c *Controller) Attempts() answer.AttemptState { return c.quiz.Attempts() }

// Score returns the running tally.
func (c *Controller) Score() quiz.Score { return c.quiz.Score() }

// Progress returns question progress.
func (c *Controller) Progress() Progress {
	s := c.quiz.Score()
	p := Progress{QuestionsCompleted: s.QuestionsCompleted, TotalQuestions: s.TotalQuestions}
	if q := c.CurrentQuestion(); q != nil {
		p.CurrentQuestion = q.Number
	}
	return p
}

// Result returns the final result once the session completes.
func (c *Controller) Result() (quiz.Result, bool) { return c.quiz.Result() }

// Feedback returns the live feedback entries.
func (c *Controller) Feedback() []feedback.State { return c.feedback.Active() }

// FeedbackAt returns the live feedback at a position.
func (c *Controller) FeedbackAt(pos music.Position) (feedback.State, bool) {
	return c.feedback.Get(pos.ID())
}

func (c *Controller) inSession() bool {
	st := c.quiz.State()
	return st != quiz.StateIdle && st != quiz.StateComplete
}

// advance shows the next question, reporting whether one was shown.
func (c *Controller) advance() bool {
	c.feedback.ClearAll()
	if err := c.nextQuestion(); err != nil {
		return false
	}
	return true
}

func (c *Controller) nextQuestion() error {
	zone := c.quiz.Zone()
	q, err := c.generate(zone)
	if err != nil {
		c.logger.Warn("question generation failed", zap.Error(err))
		c.emit(Event{Type: EventGenerationFailed, Err: err})
		return err
	}
	if !c.quiz.SetQuestion(q) {
		return fmt.Errorf("set question %d: quiz is %s", q.Number, c.quiz.State())
	}
	c.lastQuestion = nil
	c.shownAt = c.sched.Now()
	c.pausedTotal = 0
	c.emit(Event{Type: EventQuestionShown, Question: q})
	return nil
}

// generate asks the tracker for a target when one is configured, falling
// back to the generator's own choice when the target is outside the zone.
func (c *Controller) generate(zone music.Zone) (*questiongen.Question, error) {
	if c.deps.Tracker != nil {
		pos := c.deps.Tracker.GenerateQuestionTarget()
		q, err := c.gen.GenerateAt(zone, pos)
		if err == nil {
			return q, nil
		}
		c.logger.Debug("tracker target unusable, falling back", zap.String("position", pos.ID()), zap.Error(err))
	}
	return c.gen.Generate(zone)
}

func (c *Controller) scheduleAutoAdvance(d time.Duration) {
	c.cancelTimer()
	c.pending = true
	c.remaining = 0
	c.due = c.sched.Now().Add(d)
	c.handle = c.sched.Schedule(d, c.onAutoAdvance)
}

func (c *Controller) onAutoAdvance() {
	c.handle = 0
	c.pending = false
	c.advance()
}

func (c *Controller) cancelTimer() {
	if c.handle != 0 {
		c.sched.Cancel(c.handle)
		c.handle = 0
	}
}

func (c *Controller) cancelAutoAdvance() {
	c.cancelTimer()
	c.pending = false
	c.remaining = 0
}

func (c *Controller) clearTiming() {
	c.cancelAutoAdvance()
	c.paused = false
	c.pausedAt = time.Time{}
	c.pausedTotal = 0
}

// complete is the single completion path.
func (c *Controller) complete() {
	if c.completed {
		return
	}
	c.completed = true
	c.cancelAutoAdvance()
	c.feedback.ClearAll()

	r, _ := c.quiz.Result()
	c.logger.Info("session completed",
		zap.String("session_id", c.sessionID),
		zap.Int("correct", r.CorrectAnswers),
		zap.Int("total", r.TotalQuestions),
		zap.Int("accuracy", r.Accuracy),
		zap.Float64("average_attempts", r.AverageAttempts),
	)
	c.record(SessionRecord{SessionID: c.sessionID, Action: SessionCompleted, Score: c.quiz.Score(), Result: &r})
	c.emit(Event{Type: EventSessionCompleted, Result: &r})
}

func (c *Controller) emit(e Event) {
	if e.SessionID == "" {
		e.SessionID = c.sessionID
	}
	e.Status = c.Status()
	c.bus.Emit(e.Type, e)
}

func (c *Controller) recordAnswer(rec AnswerRecord) {
	if c.deps.Recorder == nil {
		return
	}
	if err := c.deps.Recorder.RecordAnswer(context.Background(), rec); err != nil {
		c.logger.Warn("record answer failed", zap.Error(err))
	}
}

func (c *Controller) record(rec SessionRecord) {
	if c.deps.Recorder == nil {
		return
	}
	rec.At = c.sched.Now()
	if err := c.deps.Recorder.RecordSession(context.Background(), rec); err != nil {
		c.logger.Warn("record session failed", zap.Error(err))
	}
}

func zoneName(z music.Zone) string {
	if n, ok := z.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "custom"
}
