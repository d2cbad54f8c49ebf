package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/stockfeed/internal/model"
	"github.com/d60-Lab/stockfeed/internal/repository"
)

// ReactionCountSource is the subset of the reaction repository the cache needs.
type ReactionCountSource interface {
	CountsForPosts(ctx context.Context, postIDs []int64) (map[int64]model.ReactionCounts, error)
}

var _ ReactionCountSource = (repository.ReactionRepository)(nil)

// ReactionCountCache is a read-through cache for per-post reaction counts.
// Counts are a hot aggregate read on every feed request; a short TTL keeps
// them close to live without hammering the GROUP BY query.
type ReactionCountCache struct {
	source ReactionCountSource
	cache  *redis.Client
	ttl    time.Duration
}

func NewReactionCountCache(source ReactionCountSource, cache *redis.Client, ttl time.Duration) *ReactionCountCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ReactionCountCache{source: source, cache: cache, ttl: ttl}
}

func countKey(postID int64) string { return "reactions:counts:" + strconv.FormatInt(postID, 10) }

// CountsForPosts returns counts for every requested post id. Cache misses are
// bulk-loaded from the source and written back with TTL.
func (c *ReactionCountCache) CountsForPosts(ctx context.Context, postIDs []int64) (map[int64]model.ReactionCounts, error) {
	out := make(map[int64]model.ReactionCounts, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	if c.cache == nil {
		return c.source.CountsForPosts(ctx, postIDs)
	}

	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = countKey(id)
	}

	missing := make([]int64, 0, len(postIDs))
	if vals, err := c.cache.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				missing = append(missing, postIDs[i])
				continue
			}
			var counts model.ReactionCounts
			if uErr := json.Unmarshal([]byte(str), &counts); uErr != nil {
				missing = append(missing, postIDs[i])
				continue
			}
			out[postIDs[i]] = counts
		}
	} else {
		// redis down: serve straight from the source
		return c.source.CountsForPosts(ctx, postIDs)
	}

	if len(missing) > 0 {
		loaded, err := c.source.CountsForPosts(ctx, missing)
		if err != nil {
			return nil, err
		}
		pipe := c.cache.Pipeline()
		for _, id := range missing {
			counts := loaded[id] // zero value for posts with no reactions
			out[id] = counts
			if payload, mErr := json.Marshal(counts); mErr == nil {
				pipe.Set(ctx, countKey(id), payload, c.ttl)
			}
		}
		// cache write failure is not fatal, counts are already loaded
		_, _ = pipe.Exec(ctx)
	}
	return out, nil
}

// Invalidate drops the cached counts for one post (called after a toggle).
func (c *ReactionCountCache) Invalidate(ctx context.Context, postID int64) error {
	if c.cache == nil {
		return nil
	}
	if err := c.cache.Del(ctx, countKey(postID)).Err(); err != nil {
		return fmt.Errorf("invalidate reaction counts for post %d: %w", postID, err)
	}
	return nil
}
