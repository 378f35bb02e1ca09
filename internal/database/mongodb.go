// Package database opens the optional MongoDB connection behind the catalog.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doclab/doclab/internal/config"
	"github.com/doclab/doclab/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client, retrying with doubling
// backoff to ride out startup races. A malformed URI fails at once.
// Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, cfg config.MongoDBConfig, attempts int) (*mongo.Client, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if err := clientOpts.Validate(); err != nil {
		return nil, fmt.Errorf("mongo uri: %w", err)
	}
	attempts = max(attempts, 1)
	backoff := time.Second
	var lastErr error
	for i := 1; i <= attempts; i++ {
		client, err := connectOnce(ctx, clientOpts, cfg.Timeout)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", i, attempts, err)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, lastErr
}

func connectOnce(ctx context.Context, opts *options.ClientOptions, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}
