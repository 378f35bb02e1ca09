package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doclab/doclab/handlers"
	"github.com/doclab/doclab/internal/document/handler"
	"github.com/doclab/doclab/internal/storage"
	"github.com/doclab/doclab/pkg/logger"
	"github.com/doclab/doclab/pkg/metrics"
	"github.com/doclab/doclab/pkg/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var startTime = time.Now()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		metrics.RegisterCollectors(prometheus.DefaultRegisterer)
		srv := &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      newRouter(a),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Infof("Starting document service on %s (mongo=%v redis=%v auth=%v)", srv.Addr, a.mongo != nil, a.redis != nil, a.verifier != nil)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Infof("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newRouter assembles middleware and routes for a.
func newRouter(a *app) *gin.Engine {
	if a.cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	origins := a.cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r := gin.New()
	r.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), middleware.Trace())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TraceHeader},
		ExposeHeaders:    []string{"Content-Length", "Location", middleware.TraceHeader, "X-Navigate-To"},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) { ready(c, a) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)
	if a.memFiles != nil {
		handler.RegisterFileRoutes(r, a.memFiles, storage.ErrObjectNotFound)
	}

	api := r.Group("/")
	if a.verifier != nil {
		if a.cfg.Auth.Required {
			api.Use(middleware.AuthMiddleware(a.verifier))
		} else {
			api.Use(middleware.OptionalAuthMiddleware(a.verifier))
		}
	}
	if a.cfg.RateLimit.Enabled {
		if a.redis != nil {
			api.Use(middleware.RedisRateLimitMiddleware(a.redis, a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst, a.cfg.RateLimit.Window))
		} else {
			api.Use(middleware.RateLimitMiddleware(a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst))
		}
	}
	handler.RegisterDocumentRoutes(api, a.svc, a.feed)
	return r
}

// ready returns 200 only when every configured backend answers.
func ready(c *gin.Context, a *app) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	deps := map[string]bool{"catalog": true}
	if _, err := a.repo.Count(ctx); err != nil {
		deps["catalog"] = false
	}
	if a.mongo != nil {
		deps["mongo"] = a.mongo.Ping(ctx, nil) == nil
	}
	if a.redis != nil {
		deps["redis"] = a.redis.Ping(ctx).Err() == nil
	}
	for _, ok := range deps {
		if !ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
