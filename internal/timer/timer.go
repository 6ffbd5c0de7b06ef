// Package timer provides cancellable one-shot timers whose callbacks run on
// the owner's goroutine.
//
// Manual is a deterministic clock for tests. Loop wraps real time: expired
// handles are queued on Fired and their callbacks run only when the owning
// goroutine calls Dispatch, so session state is never touched concurrently.
package timer

import (
	"sort"
	"sync"
	"time"
)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler schedules one-shot callbacks.
type Scheduler interface {
	Now() time.Time
	// Schedule arranges for fn to run once after d. d <= 0 means "as soon
	// as possible".
	Schedule(d time.Duration, fn func()) Handle
	// Cancel stops a pending callback. It reports whether the callback was
	// still pending; cancelling twice or after firing is a no-op.
	Cancel(h Handle) bool
}

type entry struct {
	handle Handle
	due    time.Time
	fn     func()
}

// Manual is a Scheduler driven by Advance. It is not safe for concurrent
// use.
type Manual struct {
	now     time.Time
	next    Handle
	pending map[Handle]*entry
}

var _ Scheduler = (*Manual)(nil)

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, pending: make(map[Handle]*entry)}
}

func (m *Manual) Now() time.Time { return m.now }

func (m *Manual) Schedule(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.next++
	m.pending[m.next] = &entry{handle: m.next, due: m.now.Add(d), fn: fn}
	return m.next
}

func (m *Manual) Cancel(h Handle) bool {
	if _, ok := m.pending[h]; !ok {
		return false
	}
	delete(m.pending, h)
	return true
}

// Pending returns the number of callbacks that have not fired.
func (m *Manual) Pending() int { return len(m.pending) }

// Advance moves the clock forward by d, firing due callbacks in due order.
// Callbacks scheduled by a firing callback fire too if they fall inside
// the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		e := m.earliestDue(target)
		if e == nil {
			break
		}
		delete(m.pending, e.handle)
		if e.due.After(m.now) {
			m.now = e.due
		}
		e.fn()
	}
	m.now = target
}

func (m *Manual) earliestDue(limit time.Time) *entry {
	var due []*entry
	for _, e := range m.pending {
		if !e.due.After(limit) {
			due = append(due, e)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].handle < due[j].handle
		}
		return due[i].due.Before(due[j].due)
	})
	return due[0]
}

// Loop is a real-time Scheduler. Expired handles are delivered on Fired;
// the owner passes each one to Dispatch to run its callback.
type Loop struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]*loopEntry
	fired   chan Handle
}

type loopEntry struct {
	t  *time.Timer
	fn func()
}

var _ Scheduler = (*Loop)(nil)

// NewLoop creates a real-time scheduler.
func NewLoop() *Loop {
	return &Loop{
		pending: make(map[Handle]*loopEntry),
		fired:   make(chan Handle, 64),
	}
}

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) Schedule(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	h := l.next
	e := &loopEntry{fn: fn}
	e.t = time.AfterFunc(d, func() { l.fired <- h })
	l.pending[h] = e
	return h
}

func (l *Loop) Cancel(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.pending[h]
	if !ok {
		return false
	}
	e.t.Stop()
	delete(l.pending, h)
	return true
}

// Fired delivers handles whose delay has elapsed.
func (l *Loop) Fired() <-chan Handle { return l.fired }

// Dispatch runs the callback for h if it is still pending. Handles that
// were cancelled after expiring are ignored.
func (l *Loop) Dispatch(h Handle) bool {
	l.mu.Lock()
	e, ok := l.pending[h]
	if ok {
		delete(l.pending, h)
	}
	l.mu.Unlock()
	if !ok {
		return false
	}
	e.fn()
	return true
}

// Stop cancels every pending callback.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for h, e := range l.pending {
		e.t.Stop()
		delete(l.pending, h)
	}
}
