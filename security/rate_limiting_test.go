package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 3, time.Minute)
	ctx := context.Background()

	redisMock.ExpectIncr("ratelimit:user:abc").SetVal(1)
	redisMock.ExpectExpire("ratelimit:user:abc", time.Minute).SetVal(true)
	redisMock.ExpectIncr("ratelimit:user:abc").SetVal(2)
	redisMock.ExpectIncr("ratelimit:user:abc").SetVal(3)

	assert.True(t, limiter.allow(ctx, "user:abc"))
	assert.True(t, limiter.allow(ctx, "user:abc"))
	assert.True(t, limiter.allow(ctx, "user:abc"))

	require.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 3, time.Minute)
	ctx := context.Background()

	redisMock.ExpectIncr("ratelimit:user:abc").SetVal(4)

	assert.False(t, limiter.allow(ctx, "user:abc"))
	require.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	db, redisMock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 3, time.Minute)
	ctx := context.Background()

	redisMock.ExpectIncr("ratelimit:10.0.0.1").SetErr(errors.New("connection refused"))

	assert.True(t, limiter.allow(ctx, "10.0.0.1"))
	require.NoError(t, redisMock.ExpectationsWereMet())
}
