package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(ttl, WithClock(clock.Now)), clock
}

func TestGetReturnsValueBeforeExpiry(t *testing.T) {
	c, _ := newTestCache(time.Second)
	c.Set("k", "v")

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestGetEvictsAfterExpiry(t *testing.T) {
	c, clock := newTestCache(time.Second)
	c.Set("k", "v")

	clock.Advance(1100 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.False(t, c.Has("k"), "expired entry should be evicted on read")
}

func TestSetTTLOverridesDefault(t *testing.T) {
	c, clock := newTestCache(time.Second)
	c.SetTTL("k", "v", time.Minute)

	clock.Advance(30 * time.Second)

	_, ok := c.Get("k")
	assert.True(t, ok)
}

func TestHasIgnoresExpiry(t *testing.T) {
	c, clock := newTestCache(time.Second)
	c.Set("k", "v")
	clock.Advance(5 * time.Second)

	assert.True(t, c.Has("k"))
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.False(t, c.Has("k"))
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(time.Second)
	c.Set("k", "v")

	assert.True(t, c.Delete("k"))
	assert.False(t, c.Delete("k"))
}

func TestInvalidatePattern(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("cfg:active", 1)
	c.Set("cfg:id:abc", 2)
	c.Set("preset:all", 3)

	removed := c.InvalidatePattern("cfg:")
	assert.Equal(t, 2, removed)

	_, ok := c.Get("preset:all")
	assert.True(t, ok)
}

func TestStatsCountsExpiredWithoutSweeping(t *testing.T) {
	c, clock := newTestCache(time.Second)
	c.Set("a", 1)
	c.Set("b", 2)
	clock.Advance(2 * time.Second)
	c.Set("c", 3)

	s := c.Stats()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 2, s.Expired)
	assert.InDelta(t, 1.0, s.TTLSeconds, 0.001)

	// Stats must not evict.
	assert.True(t, c.Has("a"))
}

func TestConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.Set("shared", j)
				c.Get("shared")
				c.InvalidatePattern("sha")
			}
		}()
	}
	wg.Wait()
}
