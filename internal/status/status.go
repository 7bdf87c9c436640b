package status

import (
	"errors"
	"fmt"
)

// User-facing rejections. These are never logged as faults; handlers map
// them directly to the caller's response.
var (
	ErrQueueAlreadyOpen   = errors.New("queue: queue is already open")
	ErrQueueAlreadyClosed = errors.New("queue: queue is already closed")
	ErrQueueClosed        = errors.New("queue: queue is not open")
	ErrQueueFull          = errors.New("queue: queue is full")
	ErrAlreadyQueued      = errors.New("queue: user is already in the queue")
	ErrNotQueued          = errors.New("queue: user is not in the queue")
	ErrInvalidTier        = errors.New("tier: invalid tier label")
	ErrInvalidRegion      = errors.New("verify: invalid region")
	ErrNoSession          = errors.New("session: no ticket is currently open")
)

// CooldownError rejects a join/verify attempt while the tested-recently
// cooldown is still running.
type CooldownError struct {
	RemainingDays int64
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown: must wait %d more day(s) before testing again", e.RemainingDays)
}

// IsUserError reports whether err belongs to the rejection taxonomy above.
func IsUserError(err error) bool {
	var cd *CooldownError
	if errors.As(err, &cd) {
		return true
	}
	for _, target := range []error{
		ErrQueueAlreadyOpen, ErrQueueAlreadyClosed, ErrQueueClosed,
		ErrQueueFull, ErrAlreadyQueued, ErrNotQueued, ErrInvalidTier,
		ErrInvalidRegion, ErrNoSession,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
