// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// status.go caches the publishing status of websites. Entries are
// invalidated on every state transition, so the TTL only bounds staleness
// after writes made outside this process. Every invalidation bumps a
// generation counter and a fill only lands if the generation it read is
// still current, so a view loaded before a transition is never cached
// after it.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// statusKeyPrefix is the Valkey key prefix for cached website status.
	statusKeyPrefix = "website-status:"

	// DefaultStatusTTL is how long a status entry stays cached.
	DefaultStatusTTL = 30 * time.Second

	// generationTTL outlives any fill in flight.
	generationTTL = 24 * time.Hour
)

// setIfGeneration stores ARGV[2] under KEYS[1] only while KEYS[2] still
// holds generation ARGV[1]. A missing generation counts as 0.
var setIfGeneration = redis.NewScript(`
local gen = tonumber(redis.call("GET", KEYS[2]) or "0")
if gen ~= tonumber(ARGV[1]) then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// StatusCache stores encoded status views in Valkey.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache creates a status cache backed by the given Valkey client.
func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	if ttl == 0 {
		ttl = DefaultStatusTTL
	}
	return &StatusCache{client: client, ttl: ttl}
}

// StatusKey returns the cache key of a website.
func StatusKey(websiteID uuid.UUID) string {
	return statusKeyPrefix + websiteID.String()
}

func generationKey(websiteID uuid.UUID) string {
	return StatusKey(websiteID) + ":gen"
}

// Get returns the cached status of a website together with the current
// generation, which a later Set must present. Errors count as a miss with
// a generation no Set will accept.
func (sc *StatusCache) Get(ctx context.Context, websiteID uuid.UUID) ([]byte, int64, bool) {
	vals, err := sc.client.MGet(ctx, StatusKey(websiteID), generationKey(websiteID)).Result()
	if err != nil {
		slog.Warn("status cache get error", "website_id", websiteID, "error", err)
		return nil, -1, false
	}
	var gen int64
	if s, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(s, 10, 64); err != nil {
			slog.Warn("status cache generation corrupt", "website_id", websiteID, "value", s)
			return nil, -1, false
		}
	}
	data, ok := vals[0].(string)
	if !ok {
		return nil, gen, false
	}
	return []byte(data), gen, true
}

// Set stores the status of a website with the configured TTL, unless the
// website was invalidated since generation was read.
func (sc *StatusCache) Set(ctx context.Context, websiteID uuid.UUID, generation int64, data []byte) {
	if generation < 0 {
		return
	}
	keys := []string{StatusKey(websiteID), generationKey(websiteID)}
	err := setIfGeneration.Run(ctx, sc.client, keys, generation, data, sc.ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("status cache set error", "website_id", websiteID, "error", err)
	}
}

// Invalidate removes the cached status of a website and starts a new
// generation.
func (sc *StatusCache) Invalidate(ctx context.Context, websiteID uuid.UUID) {
	_, err := sc.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, StatusKey(websiteID))
		pipe.Incr(ctx, generationKey(websiteID))
		pipe.Expire(ctx, generationKey(websiteID), generationTTL)
		return nil
	})
	if err != nil {
		slog.Warn("status cache invalidate error", "website_id", websiteID, "error", err)
	}
}
