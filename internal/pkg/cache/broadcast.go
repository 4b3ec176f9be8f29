package cache

import (
	"context"
	"encoding/json"
	"sync"

	pkgredis "github.com/dwellio/core/internal/pkg/redis"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invalidateChannel = "dwellio:appearance:invalidate"

type invalidateMessage struct {
	Origin  string `json:"origin"`
	Cache   string `json:"cache"`
	Pattern string `json:"pattern"`
}

// Bus fans cache invalidations out to other replicas through redis
// pub/sub. Each replica applies remote invalidations to its own
// in-process caches; the read path never touches redis.
type Bus struct {
	rc     *pkgredis.Client
	logger *zap.Logger
	origin string

	mu     sync.RWMutex
	caches map[string]*Cache
}

// NewBus creates a Bus. rc may be nil, in which case invalidations stay
// local (single-replica deployments and tests).
func NewBus(rc *pkgredis.Client, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		rc:     rc,
		logger: logger.Named("CacheBus"),
		origin: uuid.New().String(),
		caches: make(map[string]*Cache),
	}
}

// Attach registers a named cache for remote invalidation.
func (b *Bus) Attach(name string, c *Cache) {
	b.mu.Lock()
	b.caches[name] = c
	b.mu.Unlock()
}

// Invalidate removes matching entries from the named local cache and
// broadcasts the pattern to other replicas.
func (b *Bus) Invalidate(ctx context.Context, name, pattern string) int {
	b.mu.RLock()
	c := b.caches[name]
	b.mu.RUnlock()

	removed := 0
	if c != nil {
		removed = c.InvalidatePattern(pattern)
	}

	if b.rc != nil {
		payload, err := json.Marshal(invalidateMessage{Origin: b.origin, Cache: name, Pattern: pattern})
		if err == nil {
			if err := b.rc.Publish(ctx, invalidateChannel, payload); err != nil {
				b.logger.Warn("invalidation broadcast failed", zap.String("cache", name), zap.Error(err))
			}
		}
	}
	return removed
}

// Listen consumes remote invalidations until ctx is cancelled. Messages
// published by this replica are skipped.
func (b *Bus) Listen(ctx context.Context) {
	if b.rc == nil {
		return
	}
	sub := b.rc.Subscribe(ctx, invalidateChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var m invalidateMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				b.logger.Warn("bad invalidation message", zap.Error(err))
				continue
			}
			if m.Origin == b.origin {
				continue
			}
			b.mu.RLock()
			c := b.caches[m.Cache]
			b.mu.RUnlock()
			if c != nil {
				c.InvalidatePattern(m.Pattern)
			}
		}
	}
}
