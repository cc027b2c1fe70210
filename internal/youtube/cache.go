package youtube

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type cacheEntry struct {
	metadata Metadata
	expires  time.Time
}

// CachingProvider wraps another Provider with an in-memory cache keyed by
// video identifier, optionally backed by Redis so several processes share
// lookups. Entries for different videos never overwrite each other.
type CachingProvider struct {
	base Provider
	ttl  time.Duration
	rdb  *redis.Client
	now  func() time.Time

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// CacheOption configures a CachingProvider.
type CacheOption func(*CachingProvider)

// WithRedis adds a shared second-level cache.
func WithRedis(rdb *redis.Client) CacheOption {
	return func(c *CachingProvider) { c.rdb = rdb }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachingProvider) { c.now = now }
}

// NewCachingProvider returns a Provider that caches lookups for the provided TTL.
func NewCachingProvider(base Provider, ttl time.Duration, opts ...CacheOption) *CachingProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	c := &CachingProvider{
		base:  base,
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns cached metadata for videoID when available, otherwise it
// delegates to the underlying provider and stores the result. Failures are
// not cached.
func (c *CachingProvider) Lookup(ctx context.Context, videoID string) (Metadata, error) {
	if c == nil || c.base == nil {
		return Metadata{}, ErrProviderUnavailable
	}

	now := c.now()

	c.mu.RLock()
	entry, ok := c.items[videoID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.metadata, nil
	}

	if meta, ok := c.loadShared(ctx, videoID); ok {
		c.store(videoID, meta, now)
		return meta, nil
	}

	metadata, err := c.base.Lookup(ctx, videoID)
	if err != nil {
		return Metadata{}, err
	}

	c.store(videoID, metadata, now)
	c.saveShared(ctx, videoID, metadata)

	return metadata, nil
}

// Forget drops the cached entry for videoID.
func (c *CachingProvider) Forget(ctx context.Context, videoID string) {
	c.mu.Lock()
	delete(c.items, videoID)
	c.mu.Unlock()

	if c.rdb != nil {
		if err := c.rdb.Del(ctx, sharedKey(videoID)).Err(); err != nil {
			slog.Debug("metadata cache: redis delete failed", slog.String("video_id", videoID), slog.Any("error", err))
		}
	}
}

func (c *CachingProvider) store(videoID string, metadata Metadata, now time.Time) {
	c.mu.Lock()
	for key, e := range c.items {
		if !now.Before(e.expires) {
			delete(c.items, key)
		}
	}
	c.items[videoID] = cacheEntry{metadata: metadata, expires: now.Add(c.ttl)}
	c.mu.Unlock()
}

func (c *CachingProvider) loadShared(ctx context.Context, videoID string) (Metadata, bool) {
	if c.rdb == nil {
		return Metadata{}, false
	}
	data, err := c.rdb.Get(ctx, sharedKey(videoID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("metadata cache: redis get failed", slog.String("video_id", videoID), slog.Any("error", err))
		}
		return Metadata{}, false
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil || meta.VideoID != videoID {
		return Metadata{}, false
	}
	return meta, true
}

func (c *CachingProvider) saveShared(ctx context.Context, videoID string, metadata Metadata) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, sharedKey(videoID), data, c.ttl).Err(); err != nil {
		slog.Debug("metadata cache: redis set failed", slog.String("video_id", videoID), slog.Any("error", err))
	}
}

func sharedKey(videoID string) string {
	return "mediayt:meta:" + videoID
}
