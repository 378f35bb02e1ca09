package notify

import (
	"context"
	"sync"
	"time"
)

// MemoryFeed is a capped in-process feed.
type MemoryFeed struct {
	mu     sync.RWMutex
	items  []Notification
	lastID int64
	limit  int
}

func NewMemoryFeed(limit int) *MemoryFeed {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryFeed{limit: limit}
}

func (f *MemoryFeed) Push(ctx context.Context, text string, at time.Time) (Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastID++
	n := Notification{ID: f.lastID, Text: text, At: at}
	f.items = append([]Notification{n}, f.items...)
	if len(f.items) > f.limit {
		f.items = f.items[:f.limit]
	}
	return n, nil
}

func (f *MemoryFeed) Recent(ctx context.Context, n int) ([]Notification, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if n <= 0 || n > len(f.items) {
		n = len(f.items)
	}
	return append([]Notification(nil), f.items[:n]...), nil
}
