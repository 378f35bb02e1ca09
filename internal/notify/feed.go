// Package notify keeps the short feed of catalog events shown in the
// notification menu.
package notify

import (
	"context"
	"time"
)

// DefaultLimit is how many notifications a feed retains.
const DefaultLimit = 50

// Notification is one feed entry.
type Notification struct {
	ID   int64     `json:"id"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Feed stores notifications newest first.
type Feed interface {
	Push(ctx context.Context, text string, at time.Time) (Notification, error)
	Recent(ctx context.Context, n int) ([]Notification, error)
}
