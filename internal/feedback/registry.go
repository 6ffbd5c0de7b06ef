// Package feedback keeps the short-lived visual feedback shown on
// fretboard positions after an answer.
package feedback

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/fretiz/internal/eventbus"
	"github.com/abhisek/fretiz/internal/timer"
)

// Kind is the feedback display type.
type Kind string

const (
	KindNone      Kind = "none"
	KindCorrect   Kind = "correct"
	KindIncorrect Kind = "incorrect"
	KindHint      Kind = "hint"
)

// State is the live feedback at one position.
type State struct {
	PositionID string
	Kind       Kind
	StartTime  time.Time
	Duration   time.Duration
	// PulseCount is set for hints so the renderer can animate discrete
	// pulses.
	PulseCount int
}

// Config controls how long feedback stays visible.
type Config struct {
	Duration      time.Duration
	PulseCount    int
	PulseDuration time.Duration
}

// DefaultConfig returns the standard feedback timings.
func DefaultConfig() Config {
	return Config{
		Duration:      time.Second,
		PulseCount:    3,
		PulseDuration: 400 * time.Millisecond,
	}
}

// EventType identifies registry events.
type EventType string

const (
	EventShown     EventType = "shown"
	EventCompleted EventType = "completed"
	EventCleared   EventType = "cleared"
)

// Event is delivered to subscribers.
type Event struct {
	Type  EventType
	State State
}

type entry struct {
	state  State
	handle timer.Handle
}

// Registry maps position IDs to at most one live feedback entry, each with
// its own expiry timer.
type Registry struct {
	sched    timer.Scheduler
	cfg      Config
	logger   *zap.Logger
	bus      *eventbus.Bus[EventType, Event]
	entries  map[string]*entry
	disposed bool
}

// New creates a registry. A nil logger discards output.
func New(sched timer.Scheduler, cfg Config, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sched:   sched,
		cfg:     cfg,
		logger:  logger,
		bus:     eventbus.New[EventType, Event](logger),
		entries: make(map[string]*entry),
	}
}

// Subscribe registers fn for events of type et.
func (r *Registry) Subscribe(et EventType, fn eventbus.Listener[Event]) func() {
	if r.disposed {
		return func() {}
	}
	return r.bus.Subscribe(et, fn)
}

// Show displays feedback at posID, replacing and cancelling any live
// entry there. Hints last PulseCount × PulseDuration; other kinds last
// Duration. KindNone clears the position.
func (r *Registry) Show(posID string, kind Kind) {
	if r.disposed {
		return
	}
	if kind == KindNone {
		r.Clear(posID)
		return
	}

	if old, ok := r.entries[posID]; ok {
		r.sched.Cancel(old.handle)
		delete(r.entries, posID)
	}

	st := State{
		PositionID: posID,
		Kind:       kind,
		StartTime:  r.sched.Now(),
		Duration:   r.cfg.Duration,
	}
	if kind == KindHint {
		st.PulseCount = r.cfg.PulseCount
		st.Duration = time.Duration(r.cfg.PulseCount) * r.cfg.PulseDuration
	}

	e := &entry{state: st}
	e.handle = r.sched.Schedule(st.Duration, func() { r.expire(posID, e) })
	r.entries[posID] = e

	r.logger.Debug("feedback shown",
		zap.String("position", posID),
		zap.String("kind", string(kind)),
		zap.Duration("duration", st.Duration),
	)
	r.bus.Emit(EventShown, Event{Type: EventShown, State: st})
}

func (r *Registry) ShowCorrect(posID string)   { r.Show(posID, KindCorrect) }
func (r *Registry) ShowIncorrect(posID string) { r.Show(posID, KindIncorrect) }
func (r *Registry) ShowHint(posID string)      { r.Show(posID, KindHint) }

func (r *Registry) expire(posID string, e *entry) {
	if cur, ok := r.entries[posID]; !ok || cur != e {
		return
	}
	delete(r.entries, posID)
	r.bus.Emit(EventCompleted, Event{Type: EventCompleted, State: e.state})
}

// Get returns the live feedback at posID.
func (r *Registry) Get(posID string) (State, bool) {
	e, ok := r.entries[posID]
	if !ok {
		return State{}, false
	}
	return e.state, true
}

// Active returns every live entry ordered by position ID.
func (r *Registry) Active() []State {
	out := make([]State, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.state)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PositionID < out[j].PositionID })
	return out
}

// Len returns the number of live entries.
func (r *Registry) Len() int { return len(r.entries) }

// Clear removes the entry at posID and cancels its timer. It reports
// whether an entry existed.
func (r *Registry) Clear(posID string) bool {
	e, ok := r.entries[posID]
	if !ok {
		return false
	}
	r.sched.Cancel(e.handle)
	delete(r.entries, posID)
	r.bus.Emit(EventCleared, Event{Type: EventCleared, State: e.state})
	return true
}

// ClearAll removes every entry.
func (r *Registry) ClearAll() {
	for _, st := range r.Active() {
		r.Clear(st.PositionID)
	}
}

// Dispose clears everything and drops all listeners. The registry ignores
// every call afterwards.
func (r *Registry) Dispose() {
	if r.disposed {
		return
	}
	for _, e := range r.entries {
		r.sched.Cancel(e.handle)
	}
	r.entries = make(map[string]*entry)
	r.bus = eventbus.New[EventType, Event](r.logger)
	r.disposed = true
}
