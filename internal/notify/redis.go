package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisFeed keeps the feed in a Redis list so several service replicas share it.
// Entries are JSON under "<prefix>items"; ids come from "<prefix>seq".
type RedisFeed struct {
	client *redis.Client
	prefix string
	limit  int
}

// NewRedisFeed creates a Redis-backed feed. Prefix may be empty.
func NewRedisFeed(client *redis.Client, prefix string, limit int) *RedisFeed {
	if prefix == "" {
		prefix = "notifications:"
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &RedisFeed{client: client, prefix: prefix, limit: limit}
}

func (f *RedisFeed) Push(ctx context.Context, text string, at time.Time) (Notification, error) {
	id, err := f.client.Incr(ctx, f.prefix+"seq").Result()
	if err != nil {
		return Notification{}, fmt.Errorf("notification id: %w", err)
	}
	n := Notification{ID: id, Text: text, At: at.UTC()}
	b, err := json.Marshal(n)
	if err != nil {
		return Notification{}, err
	}
	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, f.prefix+"items", b)
	pipe.LTrim(ctx, f.prefix+"items", 0, int64(f.limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return Notification{}, fmt.Errorf("push notification: %w", err)
	}
	return n, nil
}

func (f *RedisFeed) Recent(ctx context.Context, n int) ([]Notification, error) {
	stop := int64(-1)
	if n > 0 {
		stop = int64(n - 1)
	}
	raw, err := f.client.LRange(ctx, f.prefix+"items", 0, stop).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(raw))
	for _, s := range raw {
		var item Notification
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
