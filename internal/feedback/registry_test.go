package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fretiz/internal/timer"
)

func setup(t *testing.T) (*Registry, *timer.Manual, map[EventType][]Event) {
	t.Helper()
	clock := timer.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	r := New(clock, DefaultConfig(), nil)
	events := map[EventType][]Event{}
	for _, et := range []EventType{EventShown, EventCompleted, EventCleared} {
		r.Subscribe(et, func(e Event) error {
			events[e.Type] = append(events[e.Type], e)
			return nil
		})
	}
	return r, clock, events
}

func TestShowCorrect_ExpiresAfterDuration(t *testing.T) {
	r, clock, events := setup(t)
	r.ShowCorrect("s1f8")

	st, ok := r.Get("s1f8")
	require.True(t, ok)
	assert.Equal(t, KindCorrect, st.Kind)
	assert.Equal(t, time.Second, st.Duration)
	assert.Zero(t, st.PulseCount)

	clock.Advance(999 * time.Millisecond)
	_, ok = r.Get("s1f8")
	assert.True(t, ok, "still live before expiry")

	clock.Advance(time.Millisecond)
	_, ok = r.Get("s1f8")
	assert.False(t, ok)
	assert.Len(t, events[EventCompleted], 1)
	assert.Empty(t, events[EventCleared])
}

func TestShowHint_PulseDuration(t *testing.T) {
	r, clock, events := setup(t)
	r.ShowHint("s2f1")

	st, _ := r.Get("s2f1")
	assert.Equal(t, 3, st.PulseCount)
	assert.Equal(t, 1200*time.Millisecond, st.Duration)

	clock.Advance(time.Second)
	assert.Equal(t, 1, r.Len())
	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, 0, r.Len())
	require.Len(t, events[EventCompleted], 1)
	assert.Equal(t, KindHint, events[EventCompleted][0].State.Kind)
}

func TestShow_ReplaceSamePosition(t *testing.T) {
	r, clock, events := setup(t)
	r.ShowIncorrect("s1f8")
	clock.Advance(500 * time.Millisecond)
	r.ShowCorrect("s1f8")

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, clock.Pending(), "old timer was cancelled")

	clock.Advance(10 * time.Second)
	require.Len(t, events[EventCompleted], 1)
	assert.Equal(t, KindCorrect, events[EventCompleted][0].State.Kind)
	assert.Len(t, events[EventShown], 2)
}

func TestClear(t *testing.T) {
	r, clock, events := setup(t)
	r.ShowCorrect("s1f0")
	r.ShowIncorrect("s2f0")

	assert.True(t, r.Clear("s1f0"))
	assert.False(t, r.Clear("s1f0"))
	assert.Len(t, events[EventCleared], 1)

	r.ClearAll()
	assert.Equal(t, 0, r.Len())
	assert.Len(t, events[EventCleared], 2)

	clock.Advance(time.Minute)
	assert.Empty(t, events[EventCompleted], "cleared entries never complete")
	assert.Equal(t, 0, clock.Pending())
}

func TestShowNone_Clears(t *testing.T) {
	r, _, events := setup(t)
	r.ShowCorrect("s1f0")
	r.Show("s1f0", KindNone)
	assert.Equal(t, 0, r.Len())
	assert.Len(t, events[EventCleared], 1)
}

func TestActive_Sorted(t *testing.T) {
	r, _, _ := setup(t)
	r.ShowCorrect("s3f2")
	r.ShowHint("s1f0")
	active := r.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "s1f0", active[0].PositionID)
	assert.Equal(t, "s3f2", active[1].PositionID)
}

func TestDispose(t *testing.T) {
	r, clock, events := setup(t)
	r.ShowCorrect("s1f0")
	r.Dispose()

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, clock.Pending())

	r.ShowCorrect("s1f0")
	assert.Equal(t, 0, r.Len(), "disposed registry ignores Show")
	clock.Advance(time.Minute)
	assert.Empty(t, events[EventCompleted])
	assert.Len(t, events[EventShown], 1)
}
