package session

import (
	"github.com/abhisek/fretiz/internal/timer"
)

// timerFiredMsg carries an expired scheduler handle back onto the update
// goroutine, where its callback is dispatched.
type timerFiredMsg struct {
	Handle timer.Handle
}
