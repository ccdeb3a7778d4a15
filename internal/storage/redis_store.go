package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rednote-trends/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the rolling collected batch: posts live in a per-period
// sorted set scored by weighted engagement, and a marker records which
// periods the pipeline has already processed.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func periodZKey(period string) string {
	return fmt.Sprintf("posts:period:%s", period)
}

func postKey(id string) string {
	return fmt.Sprintf("posts:item:%s", id)
}

func processedKey(period string) string {
	return fmt.Sprintf("posts:processed:%s", period)
}

// PeriodKey formats the daily period for a timestamp (UTC).
func PeriodKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// AddPost stores/updates a post and adds it to the period sorted set,
// scored by weighted engagement.
func (s *RedisStore) AddPost(ctx context.Context, period string, p model.Post) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, postKey(p.ID), b, 7*24*time.Hour).Err(); err != nil { // expire after a week
		return err
	}
	z := redis.Z{Score: p.Engagement(), Member: p.ID}
	return s.rdb.ZAdd(ctx, periodZKey(period), z).Err()
}

// TopPosts retrieves the top N posts by engagement for a period.
func (s *RedisStore) TopPosts(ctx context.Context, period string, n int) ([]model.Post, error) {
	ids, err := s.rdb.ZRevRange(ctx, periodZKey(period), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		b, err := s.rdb.Get(ctx, postKey(id)).Bytes()
		if err == redis.Nil {
			continue // post expired under the sorted set
		}
		if err != nil {
			return nil, err
		}
		var p model.Post
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// IsProcessed reports whether the pipeline already ran for the period.
func (s *RedisStore) IsProcessed(ctx context.Context, period string) (bool, error) {
	res, err := s.rdb.Get(ctx, processedKey(period)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res == "1", nil
}

// MarkProcessed records a completed pipeline run for the period.
func (s *RedisStore) MarkProcessed(ctx context.Context, period string) error {
	return s.rdb.Set(ctx, processedKey(period), "1", 30*24*time.Hour).Err()
}
