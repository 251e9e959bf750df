// Package cache keeps per-user recently-played lists in Redis. Entries live
// in a sorted set scored by play time, deduplicated by song id and capped to
// a fixed length.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/123ibadullah/MusicWebApplication/db"
	"github.com/123ibadullah/MusicWebApplication/model"
)

// RecentLimit is the maximum number of recently-played entries kept per user.
const RecentLimit = 5

const recentTTL = 30 * 24 * time.Hour

// recentKey builds the Redis key for a user's recently-played set.
func recentKey(userID string) string {
	return fmt.Sprintf("recently_played:%s", userID)
}

// RecordRecentlyPlayed pushes a play event for the user. An existing entry
// for the same song is replaced, and the set is trimmed to RecentLimit.
func RecordRecentlyPlayed(ctx context.Context, userID string, song model.Song) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	key := recentKey(userID)

	// Drop any previous entry for this song so a replay moves it forward
	// instead of duplicating it.
	entries, err := getEntries(ctx, key)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID == song.ID {
			raw, merr := json.Marshal(e)
			if merr != nil {
				return fmt.Errorf("failed to marshal recently played entry: %w", merr)
			}
			if err := db.RedisClient.ZRem(ctx, key, raw).Err(); err != nil {
				return fmt.Errorf("failed to dedupe recently played: %w", err)
			}
			break
		}
	}

	entry := model.RecentlyPlayed{Song: song, PlayedAt: time.Now()}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal recently played entry: %w", err)
	}
	if err := db.RedisClient.ZAdd(ctx, key, &redis.Z{
		Score:  float64(entry.PlayedAt.UnixNano()),
		Member: raw,
	}).Err(); err != nil {
		return fmt.Errorf("failed to record recently played: %w", err)
	}

	// Keep only the RecentLimit newest entries.
	if err := db.RedisClient.ZRemRangeByRank(ctx, key, 0, int64(-RecentLimit-1)).Err(); err != nil {
		return fmt.Errorf("failed to trim recently played: %w", err)
	}
	if err := db.RedisClient.Expire(ctx, key, recentTTL).Err(); err != nil {
		return fmt.Errorf("failed to set recently played expiration: %w", err)
	}
	return nil
}

// GetRecentlyPlayed returns the user's recently-played entries, most recent
// first.
func GetRecentlyPlayed(ctx context.Context, userID string) ([]model.RecentlyPlayed, error) {
	if db.RedisClient == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}
	entries, err := getEntries(ctx, recentKey(userID))
	if err != nil {
		return nil, err
	}
	// getEntries returns oldest first; reverse for presentation.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// ClearRecentlyPlayed drops the user's recently-played set.
func ClearRecentlyPlayed(ctx context.Context, userID string) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	if err := db.RedisClient.Del(ctx, recentKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear recently played: %w", err)
	}
	return nil
}

func getEntries(ctx context.Context, key string) ([]model.RecentlyPlayed, error) {
	result, err := db.RedisClient.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: "-inf",
		Max: "+inf",
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recently played: %w", err)
	}

	entries := make([]model.RecentlyPlayed, 0, len(result))
	for _, raw := range result {
		var entry model.RecentlyPlayed
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			// Skip unreadable entries rather than failing the whole read.
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
