package sfx

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadTimeout is returned when a channel waits on memory for longer
	// than the caller allowed.
	ErrLoadTimeout = errors.New("channel load timeout")

	// ErrNotTriggered is returned when waiting on a channel that is idle.
	ErrNotTriggered = errors.New("channel not triggered")
)

// LoadTimeoutError reports a channel that did not finish loading its SFX
// data within the allowed number of polls.
type LoadTimeoutError struct {
	Channel int
	Polls   int
	State   State

	// Outstanding request, if any.
	Request FetchRequest
	Pending bool
}

func (e *LoadTimeoutError) Error() string {
	msg := fmt.Sprintf("channel %d: load timeout after %d polls (state %s", e.Channel, e.Polls, e.State)
	if e.Pending {
		msg += fmt.Sprintf(", waiting for addr %08x tag %d", e.Request.Addr, e.Request.Tag)
	}
	return msg + ")"
}

func (e *LoadTimeoutError) Unwrap() error { return ErrLoadTimeout }
