package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/doclab/doclab/internal/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     storage.MinIOConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
	LogLevel  string
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	PublicURL       string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr is the listen address.
func (s ServerConfig) Addr() string { return net.JoinHostPort(s.Host, s.Port) }

// MongoDBConfig is optional; an empty URI keeps the catalog in memory.
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func (m MongoDBConfig) Enabled() bool { return m.URI != "" }

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool { return r.Host != "" }

func (r RedisConfig) Addr() string { return net.JoinHostPort(r.Host, r.Port) }

// AuthConfig selects how bearer tokens are verified. With none of the verifiers
// configured every request acts as Catalog.CurrentUser.
type AuthConfig struct {
	OIDCIssuer         string
	OIDCClientID       string
	JWTSecret          string
	JWTIssuer          string
	TokenTTL           time.Duration
	AllowInsecureToken bool
	Required           bool
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
	Window  time.Duration
}

type CatalogConfig struct {
	CurrentUser       string
	SeedFile          string
	SeedDefault       bool
	NotificationLimit int
}

// LoadConfig loads configuration from environment variables and the given .env
// files (default ".env"). Missing .env files are ignored.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	v.SetDefault("MONGODB_DATABASE", "doclab")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MINIO_BUCKET", "doclab-documents")
	v.SetDefault("JWT_ISSUER", "doclab")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", 60)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", 1)
	v.SetDefault("DOCLAB_CURRENT_USER", "Иванов А.С.")
	v.SetDefault("DOCLAB_SEED", true)
	v.SetDefault("NOTIFICATION_LIMIT", 50)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			Host:            v.GetString("SERVER_HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			PublicURL:       strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			ReadTimeout:     time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout:    time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("SERVER_SHUTDOWN_TIMEOUT")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		MinIO: storage.MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			Region:    v.GetString("MINIO_REGION"),
		},
		Auth: AuthConfig{
			OIDCIssuer:         v.GetString("OIDC_ISSUER_URL"),
			OIDCClientID:       v.GetString("OIDC_CLIENT_ID"),
			JWTSecret:          v.GetString("JWT_SECRET"),
			JWTIssuer:          v.GetString("JWT_ISSUER"),
			TokenTTL:           time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			AllowInsecureToken: v.GetBool("ALLOW_INSECURE_TOKEN"),
			Required:           v.GetBool("AUTH_REQUIRED"),
		},
		RateLimit: RateLimitConfig{
			Enabled: v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:     v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:   v.GetInt("RATE_LIMIT_BURST"),
			Window:  time.Duration(v.GetInt("RATE_LIMIT_WINDOW")) * time.Second,
		},
		Catalog: CatalogConfig{
			CurrentUser:       v.GetString("DOCLAB_CURRENT_USER"),
			SeedFile:          v.GetString("DOCLAB_SEED_FILE"),
			SeedDefault:       v.GetBool("DOCLAB_SEED"),
			NotificationLimit: v.GetInt("NOTIFICATION_LIMIT"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is empty"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 0) {
		errs = append(errs, fmt.Errorf("rate limit needs RATE_LIMIT_RPS > 0 and RATE_LIMIT_BURST >= 0, got %v/%d", c.RateLimit.RPS, c.RateLimit.Burst))
	}
	if c.Auth.AllowInsecureToken && c.Server.Environment == "production" {
		errs = append(errs, errors.New("ALLOW_INSECURE_TOKEN must not be set in production"))
	}
	if (c.Auth.OIDCIssuer == "") != (c.Auth.OIDCClientID == "") {
		errs = append(errs, errors.New("OIDC_ISSUER_URL and OIDC_CLIENT_ID must be set together"))
	}
	if c.Auth.Required && c.Auth.OIDCIssuer == "" && c.Auth.JWTSecret == "" && !c.Auth.AllowInsecureToken {
		errs = append(errs, errors.New("AUTH_REQUIRED needs OIDC, JWT_SECRET or ALLOW_INSECURE_TOKEN"))
	}
	if c.Catalog.NotificationLimit <= 0 {
		errs = append(errs, errors.New("NOTIFICATION_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
