package eventbus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBus_DeliversInOrder(t *testing.T) {
	b := New[string, int](nil)
	var got []string
	b.Subscribe("x", func(n int) error { got = append(got, "first"); return nil })
	b.Subscribe("x", func(n int) error { got = append(got, "second"); return nil })
	b.Subscribe("y", func(n int) error { got = append(got, "other"); return nil })
	b.SubscribeAll(func(n int) error { got = append(got, "all"); return nil })

	b.Emit("x", 1)
	assert.Equal(t, []string{"first", "second", "all"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New[string, int](nil)
	n := 0
	unsub := b.Subscribe("x", func(int) error { n++; return nil })
	b.Emit("x", 0)
	unsub()
	unsub()
	b.Emit("x", 0)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, b.Len("x"))
}

func TestBus_ListenerFailureIsolated(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := New[string, int](zap.New(core))

	reached := false
	b.Subscribe("x", func(int) error { panic("boom") })
	b.Subscribe("x", func(int) error { return errors.New("nope") })
	b.Subscribe("x", func(int) error { reached = true; return nil })

	b.Emit("x", 0)
	assert.True(t, reached, "later listeners still run")
	assert.Equal(t, 1, logs.FilterMessage("event listener panicked").Len())
	assert.Equal(t, 1, logs.FilterMessage("event listener failed").Len())
}

func TestBus_SubscribeDuringEmit(t *testing.T) {
	b := New[string, int](nil)
	late := 0
	b.Subscribe("x", func(int) error {
		b.Subscribe("x", func(int) error { late++; return nil })
		return nil
	})
	b.Emit("x", 0)
	assert.Equal(t, 0, late, "new listener waits for the next event")
}

func TestBus_Dispatching(t *testing.T) {
	b := New[string, int](nil)
	var during bool
	b.Subscribe("x", func(int) error { during = b.Dispatching(); return nil })
	b.Emit("x", 0)
	assert.True(t, during)
	assert.False(t, b.Dispatching())
}
