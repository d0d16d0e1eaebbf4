// Package cache holds the Redis-backed projection cache for the room list.
// It is an optional layer: the service falls back to direct reads when no
// Redis client is configured. Summaries may be stale for at most the TTL;
// they are display-only and never consulted for membership decisions.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chatroom-backend/internal/model"

	"github.com/redis/go-redis/v9"
)

const roomListKey = "chatrooms:summaries"

type RoomListCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRoomListCache(client redis.Cmdable, ttl time.Duration) *RoomListCache {
	return &RoomListCache{client: client, ttl: ttl}
}

// Get returns the cached room summaries and whether the lookup was a hit.
func (c *RoomListCache) Get(ctx context.Context) ([]model.RoomSummary, bool, error) {
	data, err := c.client.Get(ctx, roomListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var summaries []model.RoomSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, false, fmt.Errorf("cache unmarshal: %w", err)
	}
	return summaries, true, nil
}

func (c *RoomListCache) Set(ctx context.Context, summaries []model.RoomSummary) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, roomListKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached projection. Called after any write that
// changes a summary (room created, member joined).
func (c *RoomListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, roomListKey).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
