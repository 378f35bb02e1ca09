package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/doclab/doclab/internal/document"
	"github.com/doclab/doclab/internal/document/repository"
	"github.com/doclab/doclab/internal/notify"
	"github.com/doclab/doclab/pkg/logger"
	"github.com/doclab/doclab/pkg/metrics"
)

// DefaultUser is the acting user when no identity is attached to the context.
const DefaultUser = "Иванов А.С."

// Catalog answers listing queries and applies whole-document mutations.
type Catalog interface {
	List(ctx context.Context, q document.Query) ([]document.Document, error)
	Create(ctx context.Context, in document.CreateInput) (document.Document, error)
	Update(ctx context.Context, id int64, p document.Patch) (document.Document, error)
	SetStatus(ctx context.Context, id int64, st document.Status) (document.Document, error)
	Duplicate(ctx context.Context, id int64) (document.Document, error)
	Delete(ctx context.Context, id int64) error
	Types() []document.DocumentType
}

// Details serves the extended record of a single document.
type Details interface {
	Get(ctx context.Context, id int64) (*document.Detail, error)
	AddComment(ctx context.Context, id int64, text string) (document.Comment, error)
	ListVersions(ctx context.Context, id int64) ([]document.Version, error)
	Delete(ctx context.Context, id int64) (document.Navigation, error)
	Share(ctx context.Context, id int64) (document.ShareLink, error)
	Download(ctx context.Context, id int64, ttl time.Duration) (string, error)
}

// FileStore receives uploaded payloads.
type FileStore interface {
	UploadFile(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	DeleteFile(ctx context.Context, key string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Service bundles both faces of the store over one repository.
type Service struct {
	Catalog Catalog
	Details Details
}

type Option func(*core)

// WithClock replaces the wall clock.
func WithClock(c document.Clock) Option { return func(s *core) { s.clock = c } }

// WithCurrentUser sets the fallback acting user.
func WithCurrentUser(name string) Option {
	return func(s *core) {
		if name != "" {
			s.user = name
		}
	}
}

// WithTypes replaces the default type registry.
func WithTypes(r *document.TypeRegistry) Option { return func(s *core) { s.types = r } }

// WithFileStore enables payload uploads and downloads.
func WithFileStore(fs FileStore) Option { return func(s *core) { s.files = fs } }

// WithFeed sets where event notifications go.
func WithFeed(f notify.Feed) Option { return func(s *core) { s.feed = f } }

// WithLinkBase sets the prefix of share links, e.g. "https://doclab.example".
func WithLinkBase(base string) Option { return func(s *core) { s.linkBase = base } }

// New builds a Service over repo.
func New(repo repository.Repository, opts ...Option) *Service {
	c := &core{
		repo:  repo,
		clock: document.SystemClock,
		user:  DefaultUser,
		types: document.DefaultTypes(),
	}
	for _, o := range opts {
		o(c)
	}
	return &Service{Catalog: &catalog{c}, Details: &details{c}}
}

// NewMemoryService returns a Service backed by an empty in-memory repository.
func NewMemoryService(opts ...Option) *Service {
	return New(repository.NewMemoryRepo(), opts...)
}

// core holds state shared by the catalog and detail faces. mu serialises
// mutations so each one validates and commits without interleaving.
type core struct {
	mu       sync.Mutex
	repo     repository.Repository
	clock    document.Clock
	user     string
	types    *document.TypeRegistry
	files    FileStore
	feed     notify.Feed
	linkBase string
}

func (c *core) actor(ctx context.Context) string {
	return document.ActorFrom(ctx, c.user)
}

func (c *core) notify(ctx context.Context, text string) {
	if c.feed == nil {
		return
	}
	if _, err := c.feed.Push(ctx, text, c.clock.Now()); err != nil {
		logger.Warnf("notification dropped (%q): %v", text, err)
	}
}

// observe records the outcome of op and passes err through.
func observe(op string, err error) error {
	result := "ok"
	switch {
	case err == nil:
	case document.IsValidation(err):
		result = "validation"
	case document.IsNotFound(err):
		result = "not_found"
	case document.IsPermission(err):
		result = "permission"
	default:
		result = "error"
		logger.Errorf("%s failed: %v", op, err)
	}
	metrics.DocumentOps.WithLabelValues(op, result).Inc()
	return err
}

// remove deletes a record after checking it exists and may be deleted.
func (c *core) remove(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, err := c.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !d.Permissions.CanDelete {
		return &document.PermissionError{ID: id, Action: "delete"}
	}
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	if d.FileKey != "" && c.files != nil {
		if err := c.files.DeleteFile(ctx, d.FileKey); err != nil {
			logger.Warnf("document %d deleted but payload %s kept: %v", id, d.FileKey, err)
		}
	}
	metrics.CatalogSize.Dec()
	logger.Infof("document %d deleted by %s", id, c.actor(ctx))
	c.notify(ctx, "Документ «"+d.Title+"» удален")
	return nil
}
