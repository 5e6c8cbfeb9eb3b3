//go:build unit

package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"turf-reservation/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type redisError string

func (e redisError) Error() string { return string(e) }
func (redisError) RedisError()     {}

// fakeScripter answers EvalSha with a canned reply and records what it was asked.
type fakeScripter struct {
	redis.Scripter
	reply     any
	err       error
	noScript  bool
	keys      []string
	args      []any
	evalCalls int
}

func (f *fakeScripter) EvalSha(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	f.keys, f.args = keys, args
	if f.noScript {
		return redis.NewCmdResult(nil, redisError("NOSCRIPT No matching script. Please use EVAL."))
	}
	return redis.NewCmdResult(f.reply, f.err)
}

func (f *fakeScripter) Eval(_ context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	f.evalCalls++
	f.keys, f.args = keys, args
	return redis.NewCmdResult(f.reply, f.err)
}

func testLimiter(client redis.Scripter) *RedisLimiter {
	l := NewRedisLimiter(client, config.RateLimitConfig{
		Capacity:       20,
		RefillTokens:   5,
		RefillInterval: time.Second,
		TTL:            10 * time.Minute,
		Prefix:         "rl",
	})
	l.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return l
}

func TestRedisLimiter_Allow(t *testing.T) {
	t.Run("allowed reply maps onto the decision", func(t *testing.T) {
		client := &fakeScripter{reply: []any{int64(1), int64(19), int64(0)}}

		d, err := testLimiter(client).Allow(context.Background(), "auth:ip:10.0.0.1")

		require.NoError(t, err)
		assert.Equal(t, Decision{Allowed: true, Limit: 20, Remaining: 19}, d)
		assert.Equal(t, []string{"rl:auth:ip:10.0.0.1"}, client.keys)
		assert.Equal(t, []any{int64(1_700_000_000_000), 20, 5, int64(1000), int64(600)}, client.args)
	})

	t.Run("denied reply carries the wait", func(t *testing.T) {
		client := &fakeScripter{reply: []any{int64(0), int64(0), int64(750)}}

		d, err := testLimiter(client).Allow(context.Background(), "k")

		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, 750*time.Millisecond, d.RetryAfter)
	})

	t.Run("unknown script falls back to EVAL", func(t *testing.T) {
		client := &fakeScripter{noScript: true, reply: []any{int64(1), int64(3), int64(0)}}

		d, err := testLimiter(client).Allow(context.Background(), "k")

		require.NoError(t, err)
		assert.Equal(t, 1, client.evalCalls)
		assert.Equal(t, int64(3), d.Remaining)
	})

	t.Run("redis failure is returned", func(t *testing.T) {
		client := &fakeScripter{err: errors.New("connection refused")}

		_, err := testLimiter(client).Allow(context.Background(), "k")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit script failed")
	})

	t.Run("malformed reply is an error", func(t *testing.T) {
		client := &fakeScripter{reply: []any{int64(1)}}

		_, err := testLimiter(client).Allow(context.Background(), "k")

		require.Error(t, err)
	})
}
