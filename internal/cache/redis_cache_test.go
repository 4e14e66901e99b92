package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache(t *testing.T, withOpTimeout time.Duration) (*RedisCache[string], *miniredis.Miniredis) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	opts := &RedisOptions{
		Addr:            s.Addr(),
		KeyPrefix:       "test:",
		PoolSize:        5,
		MaxRetries:      1,
		MinRetryBackoff: 1 * time.Millisecond,
		MaxRetryBackoff: 10 * time.Millisecond,
		OpTimeout:       withOpTimeout,
	}
	rc := NewRedisCache[string](opts)
	t.Cleanup(func() {
		_ = rc.Close()
		s.Close()
	})
	return rc, s
}

func TestRedisCacheDefaultOpTimeout_NoPanic(t *testing.T) {
	rc, _ := setupRedisCache(t, 0)

	ctx := context.Background()
	assert.NoError(t, rc.Set(ctx, "foo", "bar", 0))
	v, err := rc.Get(ctx, "foo")
	assert.NoError(t, err)
	assert.Equal(t, "bar", v)
}

func TestRedisCacheBasicAndEdgeCases(t *testing.T) {
	rc, s := setupRedisCache(t, 100*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "detail:france", `{"name":"France"}`, time.Minute))
	assert.True(t, s.Exists("test:detail:france"), "keys are stored with the prefix")

	v, err := rc.Get(ctx, "detail:france")
	assert.NoError(t, err)
	assert.Equal(t, `{"name":"France"}`, v)

	_, err = rc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, rc.Set(ctx, "temp", "x", time.Second))
	s.FastForward(2 * time.Second)
	_, err = rc.Get(ctx, "temp")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, rc.Delete(ctx, "detail:france"))
	_, err = rc.Get(ctx, "detail:france")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheCorruptValue(t *testing.T) {
	rc, s := setupRedisCache(t, 100*time.Millisecond)
	require.NoError(t, s.Set("test:bad", "not-json"))

	_, err := rc.Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheServerDown(t *testing.T) {
	rc, s := setupRedisCache(t, 50*time.Millisecond)
	s.Close()

	_, err := rc.Get(context.Background(), "foo")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
