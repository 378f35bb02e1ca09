package repository

import (
	"context"

	"github.com/doclab/doclab/internal/document"
)

// Repository persists document records. List returns records in insertion
// order; every returned record is a copy the caller may modify freely.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Insert(ctx context.Context, d *document.Detail) error
	Get(ctx context.Context, id int64) (*document.Detail, error)
	List(ctx context.Context) ([]*document.Detail, error)
	Replace(ctx context.Context, d *document.Detail) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
