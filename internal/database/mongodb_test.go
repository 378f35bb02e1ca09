package database

import (
	"context"
	"testing"
	"time"

	"github.com/doclab/doclab/internal/config"
	"github.com/stretchr/testify/require"
)

func TestConnectMongo_MalformedURIFailsFast(t *testing.T) {
	start := time.Now()
	_, err := ConnectMongo(context.Background(), config.MongoDBConfig{URI: "postgres://nope", Timeout: time.Second}, 5)
	require.ErrorContains(t, err, "mongo uri")
	require.Less(t, time.Since(start), time.Second)
}

func TestConnectMongo_ContextCancelledStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ConnectMongo(ctx, config.MongoDBConfig{URI: "mongodb://127.0.0.1:1", Timeout: 50 * time.Millisecond}, 3)
	require.Error(t, err)
}
