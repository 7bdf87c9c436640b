package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CircuitBreaker guards calls to the chat platform. Platform side effects
// are best-effort; once the platform starts failing consistently there is
// no point hammering it on every queue mutation.
type CircuitBreaker struct {
	name        string
	maxFailures uint32
	timeout     time.Duration

	mutex        sync.Mutex
	state        State
	failures     uint32
	lastTripTime time.Time
}

type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

var ErrBreakerOpen = errors.New("circuit breaker is open")

func NewCircuitBreaker(name string) *CircuitBreaker {
	return &CircuitBreaker{
		name:        name,
		maxFailures: 5,
		timeout:     30 * time.Second,
		state:       StateClosed,
	}
}

// Execute runs req unless the breaker is open. A success in half-open
// state closes the breaker again.
func (cb *CircuitBreaker) Execute(ctx context.Context, req func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := req()
	cb.afterRequest(err == nil)
	return err
}

// State returns the current breaker state, accounting for timeout expiry.
func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.currentState(time.Now())
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.currentState(time.Now()) == StateOpen {
		return ErrBreakerOpen
	}
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	state := cb.currentState(time.Now())
	if success {
		cb.failures = 0
		if state == StateHalfOpen {
			cb.state = StateClosed
		}
		return
	}

	cb.failures++
	if state == StateHalfOpen || cb.failures >= cb.maxFailures {
		cb.state = StateOpen
		cb.lastTripTime = time.Now()
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) currentState(now time.Time) State {
	if cb.state == StateOpen && now.Sub(cb.lastTripTime) > cb.timeout {
		cb.state = StateHalfOpen
	}
	return cb.state
}
