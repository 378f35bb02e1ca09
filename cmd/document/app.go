package main

import (
	"context"
	"fmt"

	"github.com/doclab/doclab/internal/config"
	"github.com/doclab/doclab/internal/database"
	"github.com/doclab/doclab/internal/document"
	"github.com/doclab/doclab/internal/document/repository"
	"github.com/doclab/doclab/internal/document/seed"
	"github.com/doclab/doclab/internal/document/service"
	"github.com/doclab/doclab/internal/notify"
	"github.com/doclab/doclab/internal/oidc"
	"github.com/doclab/doclab/internal/storage"
	"github.com/doclab/doclab/internal/tokens"
	"github.com/doclab/doclab/pkg/logger"
	"github.com/doclab/doclab/pkg/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// app is the wired backend shared by every command.
type app struct {
	cfg      *config.Config
	svc      *service.Service
	repo     repository.Repository
	feed     notify.Feed
	memFiles *storage.MemoryStorage
	mongo    *mongo.Client
	redis    *redis.Client
	verifier middleware.Verifier
}

// buildApp connects the configured backends. Optional stores that cannot be
// reached degrade to their in-memory counterparts with a warning.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	a.repo = repository.NewMemoryRepo()
	if cfg.MongoDB.Enabled() {
		client, err := database.ConnectMongo(ctx, cfg.MongoDB, 5)
		if err != nil {
			logger.Warnf("cannot connect to MongoDB (%v), using memory-backed repo", err)
		} else {
			a.mongo = client
			a.repo = repository.NewMongoRepo(client.Database(cfg.MongoDB.Database))
			logger.Infof("catalog stored in MongoDB database %q", cfg.MongoDB.Database)
		}
	}
	if err := seedIfEmpty(ctx, cfg.Catalog, a.repo); err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.feed = notify.NewMemoryFeed(cfg.Catalog.NotificationLimit)
	if cfg.Redis.Enabled() {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", cfg.Redis.Addr(), err)
			_ = rc.Close()
		} else {
			a.redis = rc
			a.feed = notify.NewRedisFeed(rc, "doclab:notifications:", cfg.Catalog.NotificationLimit)
			logger.Infof("connected to Redis at %s", cfg.Redis.Addr())
		}
	}

	var files service.FileStore
	if cfg.MinIO.Enabled() {
		ms, err := storage.NewMinIOStorage(ctx, &cfg.MinIO)
		if err != nil {
			logger.Warnf("MinIO unavailable (%v), keeping payloads in memory", err)
		} else {
			files = ms
		}
	}
	if files == nil {
		a.memFiles = storage.NewMemoryStorage(cfg.Server.PublicURL)
		files = a.memFiles
	}

	a.svc = service.New(a.repo,
		service.WithCurrentUser(cfg.Catalog.CurrentUser),
		service.WithFeed(a.feed),
		service.WithFileStore(files),
		service.WithLinkBase(cfg.Server.PublicURL),
	)

	v, err := buildVerifier(ctx, cfg.Auth)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.verifier = v
	return a, nil
}

func seedIfEmpty(ctx context.Context, cc config.CatalogConfig, repo repository.Repository) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if n > 0 {
		return nil
	}
	var recs []*document.Detail
	switch {
	case cc.SeedFile != "":
		recs, err = seed.LoadFile(cc.SeedFile)
	case cc.SeedDefault:
		recs, err = seed.Default()
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if err := seed.Into(ctx, repo, recs); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.Infof("seeded catalog with %d documents", len(recs))
	return nil
}

// buildVerifier prefers OIDC, then the service's own HS256 tokens, then the
// insecure claims reader. nil means requests are anonymous.
func buildVerifier(ctx context.Context, ac config.AuthConfig) (middleware.Verifier, error) {
	switch {
	case ac.OIDCIssuer != "":
		v, err := oidc.NewVerifier(ctx, ac.OIDCIssuer, ac.OIDCClientID)
		if err != nil {
			return nil, err
		}
		return v, nil
	case ac.JWTSecret != "":
		m, err := tokens.NewManager(ac.JWTSecret, ac.JWTIssuer)
		if err != nil {
			return nil, err
		}
		return m, nil
	case ac.AllowInsecureToken:
		logger.Warn("enabling insecure token verifier (integration mode)")
		return oidc.NewInsecureVerifier(), nil
	}
	return nil, nil
}

func (a *app) Close(ctx context.Context) {
	if a.mongo != nil {
		_ = a.mongo.Disconnect(ctx)
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
