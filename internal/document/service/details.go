package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doclab/doclab/internal/document"
	"github.com/doclab/doclab/pkg/metrics"
)

type details struct{ *core }

func (d *details) Get(ctx context.Context, id int64) (*document.Detail, error) {
	rec, err := d.repo.Get(ctx, id)
	return rec, observe("get", err)
}

// AddComment prepends a comment written by the acting user.
func (d *details) AddComment(ctx context.Context, id int64, text string) (document.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return document.Comment{}, observe("add_comment", &document.ValidationError{Field: "text", Message: "comment text is required"})
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	rec, err := d.repo.Get(ctx, id)
	if err != nil {
		return document.Comment{}, observe("add_comment", err)
	}
	author := d.actor(ctx)
	c := document.Comment{
		ID:     rec.LastCommentID + 1,
		Author: author,
		Date:   d.clock.Now(),
		Text:   text,
		Avatar: document.Initials(author),
	}
	rec.Comments = append([]document.Comment{c}, rec.Comments...)
	rec.LastCommentID = c.ID
	if err := d.repo.Replace(ctx, rec); err != nil {
		return document.Comment{}, observe("add_comment", err)
	}
	metrics.CommentsCreated.Inc()
	d.notify(ctx, "Новый комментарий к документу «"+rec.Title+"»")
	return c, observe("add_comment", nil)
}

func (d *details) ListVersions(ctx context.Context, id int64) ([]document.Version, error) {
	rec, err := d.repo.Get(ctx, id)
	if err != nil {
		return nil, observe("list_versions", err)
	}
	return rec.Versions, observe("list_versions", nil)
}

// Delete removes the document and tells the detail view to return to the list.
func (d *details) Delete(ctx context.Context, id int64) (document.Navigation, error) {
	if err := d.remove(ctx, id); err != nil {
		return document.Navigation{}, observe("delete", err)
	}
	return document.Navigation{To: "/"}, observe("delete", nil)
}

func (d *details) Share(ctx context.Context, id int64) (document.ShareLink, error) {
	rec, err := d.repo.Get(ctx, id)
	if err != nil {
		return document.ShareLink{}, observe("share", err)
	}
	if !rec.Permissions.CanShare {
		return document.ShareLink{}, observe("share", &document.PermissionError{ID: id, Action: "share"})
	}
	link := document.ShareLink{DocumentID: id, URL: fmt.Sprintf("%s/documents/%d", strings.TrimRight(d.linkBase, "/"), id)}
	return link, observe("share", nil)
}

// Download returns a time-limited URL for the stored payload.
func (d *details) Download(ctx context.Context, id int64, ttl time.Duration) (string, error) {
	rec, err := d.repo.Get(ctx, id)
	if err != nil {
		return "", observe("download", err)
	}
	if rec.FileKey == "" || d.files == nil {
		return "", observe("download", &document.NotFoundError{ID: id, Resource: "file"})
	}
	u, err := d.files.GetPresignedURL(ctx, rec.FileKey, ttl)
	if err != nil {
		return "", observe("download", fmt.Errorf("presign %s: %w", rec.FileKey, err))
	}
	return u, observe("download", nil)
}
