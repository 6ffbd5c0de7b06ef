package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []string
	m.Schedule(300*time.Millisecond, func() { got = append(got, "c") })
	m.Schedule(100*time.Millisecond, func() { got = append(got, "a") })
	m.Schedule(200*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(250 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)

	m.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_FiresExactlyOnce(t *testing.T) {
	m := NewManual(epoch)
	n := 0
	m.Schedule(time.Second, func() { n++ })
	m.Advance(2 * time.Second)
	m.Advance(2 * time.Second)
	assert.Equal(t, 1, n)
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	h := m.Schedule(time.Second, func() { fired = true })

	assert.True(t, m.Cancel(h))
	assert.False(t, m.Cancel(h), "second cancel is a no-op")

	m.Advance(time.Hour)
	assert.False(t, fired)
}

func TestManual_NowDuringCallback(t *testing.T) {
	m := NewManual(epoch)
	var at time.Time
	m.Schedule(400*time.Millisecond, func() { at = m.Now() })
	m.Advance(time.Second)
	assert.Equal(t, epoch.Add(400*time.Millisecond), at)
	assert.Equal(t, epoch.Add(time.Second), m.Now())
}

func TestManual_NestedSchedule(t *testing.T) {
	m := NewManual(epoch)
	var got []int
	m.Schedule(100*time.Millisecond, func() {
		got = append(got, 1)
		m.Schedule(100*time.Millisecond, func() { got = append(got, 2) })
	})
	m.Advance(500 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, got)
}

func TestLoop_DispatchRunsCallback(t *testing.T) {
	l := NewLoop()
	defer l.Stop()

	ran := false
	h := l.Schedule(time.Millisecond, func() { ran = true })

	select {
	case got := <-l.Fired():
		require.Equal(t, h, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
	assert.True(t, l.Dispatch(h))
	assert.True(t, ran)
	assert.False(t, l.Dispatch(h), "dispatch is exactly once")
}

func TestLoop_CancelAfterExpiry(t *testing.T) {
	l := NewLoop()
	defer l.Stop()

	ran := false
	h := l.Schedule(time.Millisecond, func() { ran = true })
	<-l.Fired()

	assert.True(t, l.Cancel(h))
	assert.False(t, l.Dispatch(h))
	assert.False(t, ran)
}
