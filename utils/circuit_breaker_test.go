package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("downstream failed")

func TestCircuitBreaker_PassesThroughWhileClosed(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	err := cb.Execute(ctx, func() error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())

	err = cb.Execute(ctx, func() error { return errDownstream })
	assert.ErrorIs(t, err, errDownstream)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := cb.Execute(ctx, func() error { return errDownstream })
		assert.ErrorIs(t, err, errDownstream)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(ctx, func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_ = cb.Execute(ctx, func() error { return errDownstream })
	}
	require.NoError(t, cb.Execute(ctx, func() error { return nil }))

	// Four more failures do not reach the threshold again.
	for i := 0; i < 4; i++ {
		_ = cb.Execute(ctx, func() error { return errDownstream })
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.timeout = 10 * time.Millisecond
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = cb.Execute(ctx, func() error { return errDownstream })
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(ctx, func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.timeout = 10 * time.Millisecond
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = cb.Execute(ctx, func() error { return errDownstream })
	}
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	_ = cb.Execute(ctx, func() error { return errDownstream })
	assert.Equal(t, StateOpen, cb.State())
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(3)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	other, err := GenerateCode(3)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}
