package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSource struct {
	mu    sync.Mutex
	ips   map[string]bool
	cards map[string]bool
	calls int
	err   error
}

func (f *fakeSource) IsSuspiciousIP(_ context.Context, ip string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.ips[ip], f.err
}

func (f *fakeSource) IsStolenCard(_ context.Context, number string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.cards[number], f.err
}

type countingObserver struct {
	hits, misses int
}

func (o *countingObserver) RecordCacheLookup(_ string, hit bool) {
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

func setupCache(t *testing.T, src *fakeSource) (*BlocklistCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := NewRedisClient(&RedisConfig{Host: mr.Host(), Port: mr.Port()})
	t.Cleanup(func() { _ = client.Close() })

	return NewBlocklistCache(client, src, time.Minute, zaptest.NewLogger(t)), mr
}

func TestBlocklistCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{ips: map[string]bool{"192.168.1.66": true}}
	c, mr := setupCache(t, src)
	obs := &countingObserver{}
	c.WithObserver(obs)

	hit, err := c.IsSuspiciousIP(ctx, "192.168.1.66")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, src.calls)

	hit, err = c.IsSuspiciousIP(ctx, "192.168.1.66")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, src.calls, "second lookup must be served from redis")

	val, err := mr.Get(IPKey("192.168.1.66"))
	require.NoError(t, err)
	assert.Equal(t, "1", val)
	assert.Equal(t, time.Minute, mr.TTL(IPKey("192.168.1.66")))
	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 1, obs.misses)
}

func TestBlocklistCache_CachesNegativeAnswers(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	c, mr := setupCache(t, src)

	for i := 0; i < 3; i++ {
		stolen, err := c.IsStolenCard(ctx, "4532015112830366")
		require.NoError(t, err)
		assert.False(t, stolen)
	}
	assert.Equal(t, 1, src.calls)

	val, err := mr.Get(CardKey("4532015112830366"))
	require.NoError(t, err)
	assert.Equal(t, "0", val)
}

func TestBlocklistCache_Expiry(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{cards: map[string]bool{}}
	c, mr := setupCache(t, src)

	stolen, err := c.IsStolenCard(ctx, "4532015112830366")
	require.NoError(t, err)
	assert.False(t, stolen)

	src.mu.Lock()
	src.cards["4532015112830366"] = true
	src.mu.Unlock()
	mr.FastForward(2 * time.Minute)

	stolen, err = c.IsStolenCard(ctx, "4532015112830366")
	require.NoError(t, err)
	assert.True(t, stolen)
	assert.Equal(t, 2, src.calls)
}

func TestBlocklistCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{}
	c, mr := setupCache(t, src)

	_, err := c.IsSuspiciousIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, mr.Exists(IPKey("10.0.0.1")))

	require.NoError(t, c.Invalidate(ctx, IPKey("10.0.0.1")))
	assert.False(t, mr.Exists(IPKey("10.0.0.1")))
	assert.NoError(t, c.Invalidate(ctx))
}

func TestBlocklistCache_RedisDownFallsBackToSource(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{ips: map[string]bool{"10.0.0.9": true}}
	c, mr := setupCache(t, src)
	mr.SetError("ERR cache disabled")

	hit, err := c.IsSuspiciousIP(ctx, "10.0.0.9")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, src.calls)
}

func TestBlocklistCache_SourceErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")
	src := &fakeSource{err: boom}
	c, mr := setupCache(t, src)

	_, err := c.IsStolenCard(ctx, "4532015112830366")
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(CardKey("4532015112830366")))
}

func TestHealthCheck(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	assert.NoError(t, HealthCheck(context.Background(), client))

	mr.Close()
	assert.Error(t, HealthCheck(context.Background(), client))
}

func TestNewBlocklistCache_RequiresDependencies(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	assert.Panics(t, func() { NewBlocklistCache(nil, &fakeSource{}, time.Minute, nil) })
	assert.Panics(t, func() { NewBlocklistCache(client, nil, time.Minute, nil) })
	assert.NotPanics(t, func() { NewBlocklistCache(client, &fakeSource{}, time.Minute, nil) })
}
