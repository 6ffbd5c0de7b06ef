package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/fretiz/internal/flow"
	"github.com/abhisek/fretiz/internal/mastery"
	"github.com/abhisek/fretiz/internal/music"
	"github.com/abhisek/fretiz/internal/quiz"
	"github.com/abhisek/fretiz/internal/router"
	"github.com/abhisek/fretiz/internal/screen"
	"github.com/abhisek/fretiz/internal/screens/summary"
	"github.com/abhisek/fretiz/internal/store"
	"github.com/abhisek/fretiz/internal/timer"
	"github.com/abhisek/fretiz/internal/ui/layout"
)

// Options configure a practice session.
type Options struct {
	Fretboard *music.Fretboard
	Zone      *music.PositionSet
	Flow      flow.Config
	// Tracker enables progressive targeting. Nil runs a free session.
	Tracker *mastery.Tracker
	// Snapshots receives the tracker state when the session ends.
	Snapshots store.SnapshotRepo
	Recorder  flow.Recorder
	Logger    *zap.Logger
	Rand      *rand.Rand
	// Scheduler defaults to a real-time timer.Loop.
	Scheduler timer.Scheduler
}

// firer is implemented by schedulers whose callbacks are run by the
// owner, such as timer.Loop.
type firer interface {
	Fired() <-chan timer.Handle
	Dispatch(h timer.Handle) bool
}

type messageKind int

const (
	messageNone messageKind = iota
	messageCorrect
	messageIncorrect
	messageHint
)

// SessionScreen implements screen.Screen for the active session.
type SessionScreen struct {
	opts   Options
	ctrl   *flow.Controller
	sched  timer.Scheduler
	loop   firer
	done   chan struct{}
	logger *zap.Logger

	cursor      music.Position
	maxFret     int // highest fret the cursor may reach
	awaitNext   bool
	message     string
	messageKind messageKind
	unlocks     []mastery.Unlock
	banner      string

	confirmQuit      bool
	pausedForConfirm bool
	startedAt        time.Time

	ended  bool
	result *quiz.Result
	errMsg string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)
var _ screen.EscapeHandler = (*SessionScreen)(nil)

// New creates a session screen. The session starts in Init.
func New(opts Options) *SessionScreen {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = timer.NewLoop()
	}

	deps := flow.Deps{
		Fretboard: opts.Fretboard,
		Scheduler: sched,
		Logger:    opts.Logger,
		Rand:      opts.Rand,
		Recorder:  opts.Recorder,
	}
	if opts.Tracker != nil {
		deps.Tracker = opts.Tracker
	}

	s := &SessionScreen{
		opts:    opts,
		ctrl:    flow.New(deps, opts.Flow),
		sched:   sched,
		done:    make(chan struct{}),
		logger:  opts.Logger.Named("session-screen"),
		maxFret: opts.Fretboard.Frets(),
	}
	if f, ok := sched.(firer); ok {
		s.loop = f
	}
	s.subscribe()
	return s
}

func (s *SessionScreen) subscribe() {
	s.ctrl.Subscribe(flow.EventQuestionShown, func(flow.Event) error {
		s.awaitNext = false
		s.message = ""
		s.messageKind = messageNone
		return nil
	})
	s.ctrl.Subscribe(flow.EventAnswerJudged, func(e flow.Event) error {
		s.onJudged(*e.Outcome)
		return nil
	})
	s.ctrl.Subscribe(flow.EventMasteryUnlocked, func(e flow.Event) error {
		s.unlocks = append(s.unlocks, *e.Unlock)
		s.banner = "★ " + e.Unlock.String()
		return nil
	})
	s.ctrl.Subscribe(flow.EventSessionCompleted, func(e flow.Event) error {
		s.ended = true
		s.result = e.Result
		return nil
	})
	s.ctrl.Subscribe(flow.EventGenerationFailed, func(e flow.Event) error {
		s.errMsg = e.Err.Error()
		return nil
	})
}

func (s *SessionScreen) onJudged(out quiz.Outcome) {
	mode := s.accidentals()
	target := out.Question.TargetNote.DisplayName(mode)
	switch out.Status {
	case quiz.OutcomeCorrect:
		s.messageKind = messageCorrect
		s.message = "✓ " + target + "!"
		s.awaitNext = !out.Completed
	case quiz.OutcomeIncorrect:
		s.messageKind = messageIncorrect
		s.message = "✗ Not " + target + ", try again"
	case quiz.OutcomeHint:
		s.messageKind = messageHint
		s.message = target + " is highlighted. Press Enter to continue"
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.opts.Zone == nil {
		s.errMsg = ErrNoZone.Error()
		return nil
	}
	if err := s.ctrl.Start(s.opts.Zone); err != nil {
		s.logger.Warn("session failed to start", zap.Error(err))
		s.errMsg = err.Error()
		return nil
	}
	s.startedAt = s.sched.Now()
	if p := s.opts.Zone.Positions(); len(p) > 0 {
		s.cursor = p[0]
	}
	return s.waitForTimer()
}

func (s *SessionScreen) Title() string {
	return "Practice"
}

// HandlesEscape keeps the app from popping the session mid-question.
func (s *SessionScreen) HandlesEscape() bool { return true }

func (s *SessionScreen) Status() string {
	if s.errMsg != "" || s.ctrl.SessionID() == "" {
		return ""
	}
	sc := s.ctrl.Score()
	status := fmt.Sprintf("✓ %d/%d", sc.CorrectAnswers, sc.TotalQuestions)
	if t := s.opts.Tracker; t != nil {
		status += fmt.Sprintf("   string %d", t.CurrentString())
	}
	return status
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.confirmQuit:
		return hints(keys.Confirm, keys.Cancel)
	case s.ctrl.Status() == flow.StatusPaused:
		return append([]layout.KeyHint{{Key: "P", Description: "Resume"}}, hints(keys.Quit)...)
	case s.ctrl.QuizState() == quiz.StateHint:
		return append([]layout.KeyHint{{Key: "Enter", Description: "Continue"}}, hints(keys.Quit)...)
	case s.awaitNext:
		return hints(keys.Next, keys.Pause, keys.Quit)
	}
	return hints(keys.Up, keys.Answer, keys.Pause, keys.Quit)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerFiredMsg:
		if s.loop != nil {
			s.loop.Dispatch(msg.Handle)
		}
		if cmd := s.afterAction(); cmd != nil {
			return s, cmd
		}
		return s, s.waitForTimer()

	case tea.KeyPressMsg:
		s.handleKey(msg)
		return s, s.afterAction()
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) {
	if s.ended {
		return
	}
	if s.errMsg != "" {
		s.ended = true
		return
	}

	if s.confirmQuit {
		switch {
		case key.Matches(msg, keys.Confirm):
			s.abandon()
		case key.Matches(msg, keys.Cancel):
			s.confirmQuit = false
			if s.pausedForConfirm {
				s.ctrl.Resume()
				s.pausedForConfirm = false
			}
		}
		return
	}

	switch {
	case key.Matches(msg, keys.Quit):
		s.confirmQuit = true
		s.pausedForConfirm = s.ctrl.Pause()
		return
	case key.Matches(msg, keys.Pause):
		if s.ctrl.Status() == flow.StatusPaused {
			s.ctrl.Resume()
		} else {
			s.ctrl.Pause()
		}
		return
	}

	if s.ctrl.Status() == flow.StatusPaused {
		return
	}

	switch {
	case key.Matches(msg, keys.Up):
		s.cursor.String = max(s.cursor.String-1, 1)
	case key.Matches(msg, keys.Down):
		s.cursor.String = min(s.cursor.String+1, s.opts.Fretboard.Strings())
	case key.Matches(msg, keys.Left):
		s.cursor.Fret = max(s.cursor.Fret-1, 0)
	case key.Matches(msg, keys.Right):
		s.cursor.Fret = min(s.cursor.Fret+1, s.maxFret)
	case key.Matches(msg, keys.Answer):
		s.answer()
	case key.Matches(msg, keys.Next):
		s.ctrl.AdvanceToNextQuestion()
	}
}

// answer acts on Enter: it acknowledges a hint, moves past a correct
// answer, or submits the note under the cursor.
func (s *SessionScreen) answer() {
	switch {
	case s.ctrl.QuizState() == quiz.StateHint:
		s.ctrl.AcknowledgeHint()
	case s.awaitNext && s.ctrl.Status() != flow.StatusAutoAdvancePending:
		s.ctrl.AdvanceToNextQuestion()
	default:
		note, ok := s.opts.Fretboard.NoteAt(s.cursor.String, s.cursor.Fret)
		if !ok {
			return
		}
		s.banner = ""
		s.ctrl.SubmitAnswer(note)
	}
}

// abandon ends the session early. Tracker progress made so far is kept.
func (s *SessionScreen) abandon() {
	s.confirmQuit = false
	s.ctrl.Reset()
	s.ended = true
}

// afterAction finishes the screen once the session has ended.
func (s *SessionScreen) afterAction() tea.Cmd {
	if !s.ended || s.done == nil {
		return nil
	}
	close(s.done)
	s.done = nil
	s.ctrl.Close()

	saveErr := s.saveSnapshot()
	if s.result == nil {
		return func() tea.Msg { return router.PopToRootMsg{} }
	}
	s.logger.Info("session finished", zap.String("result", resultLine(*s.result)))

	sum := summary.Summary{
		Result:   *s.result,
		Zone:     s.opts.Zone.Name(),
		Duration: s.sched.Now().Sub(s.startedAt),
		Unlocks:  s.unlocks,
		SaveErr:  saveErr,
	}
	if s.opts.Tracker != nil {
		st := s.opts.Tracker.Stats()
		sum.Progress = &st
	}
	opts := s.opts
	next := summary.New(sum, func() screen.Screen { return New(opts) })
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *SessionScreen) saveSnapshot() error {
	if s.opts.Tracker == nil || s.opts.Snapshots == nil || s.startedAt.IsZero() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.opts.Tracker.Save(ctx, s.opts.Snapshots); err != nil {
		s.logger.Error("failed to save tracker snapshot", zap.Error(err))
		return err
	}
	return nil
}

// waitForTimer blocks until the loop reports an expired handle or the
// screen finishes.
func (s *SessionScreen) waitForTimer() tea.Cmd {
	if s.loop == nil || s.done == nil {
		return nil
	}
	fired := s.loop.Fired()
	done := s.done
	return func() tea.Msg {
		select {
		case h := <-fired:
			return timerFiredMsg{Handle: h}
		case <-done:
			return nil
		}
	}
}

func (s *SessionScreen) accidentals() music.AccidentalMode {
	if m := s.opts.Flow.Generator.Accidentals; m == music.AccidentalFlat {
		return m
	}
	return music.AccidentalSharp
}

// ErrNoZone is shown when a session is opened without a zone.
var ErrNoZone = errors.New("no practice zone selected")
