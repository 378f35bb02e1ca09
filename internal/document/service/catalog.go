package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/doclab/doclab/internal/document"
	"github.com/doclab/doclab/pkg/logger"
	"github.com/doclab/doclab/pkg/metrics"
)

const (
	initialVersion     = "1.0"
	initialChanges     = "Первичная версия"
	copySuffix         = " (копия)"
	maxDescriptionRune = 4000
)

type catalog struct{ *core }

func (c *catalog) Types() []document.DocumentType { return c.types.List() }

func (c *catalog) List(ctx context.Context, q document.Query) ([]document.Document, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, observe("list", err)
	}
	recs, err := c.repo.List(ctx)
	if err != nil {
		return nil, observe("list", err)
	}
	docs := make([]document.Document, 0, len(recs))
	for _, r := range recs {
		docs = append(docs, r.Document)
	}
	return q.Apply(docs, c.actor(ctx)), observe("list", nil)
}

func (c *catalog) validateMeta(title, typ, description string) error {
	if strings.TrimSpace(title) == "" {
		return &document.ValidationError{Field: "title", Message: "title is required"}
	}
	if !c.types.Has(typ) {
		return &document.ValidationError{Field: "type", Message: fmt.Sprintf("unknown document type %q", typ)}
	}
	if utf8.RuneCountInString(description) > maxDescriptionRune {
		return &document.ValidationError{Field: "description", Message: "description is too long"}
	}
	return nil
}

func (c *catalog) Create(ctx context.Context, in document.CreateInput) (document.Document, error) {
	if err := c.validateMeta(in.Title, in.Type, in.Description); err != nil {
		return document.Document{}, observe("create", err)
	}
	if in.File == nil || strings.TrimSpace(in.File.Name) == "" {
		return document.Document{}, observe("create", &document.ValidationError{Field: "file", Message: "a file must be attached"})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.repo.NextID(ctx)
	if err != nil {
		return document.Document{}, observe("create", err)
	}
	now := c.clock.Now()
	actor := c.actor(ctx)
	d := &document.Detail{
		Document: document.Document{
			ID:           id,
			Title:        strings.TrimSpace(in.Title),
			Type:         in.Type,
			Author:       actor,
			LastModified: now,
			Version:      initialVersion,
			Status:       document.StatusDraft,
		},
		Description: strings.TrimSpace(in.Description),
		Project:     strings.TrimSpace(in.Project),
		CreatedAt:   now,
		FileName:    path.Base(in.File.Name),
		FileSize:    in.File.Size,
		FileFormat:  in.File.Format(),
		Tags:        cleanTags(in.Tags),
		Permissions: document.Permissions{CanEdit: true, CanDelete: true, CanShare: true},
		Versions:    []document.Version{{Version: initialVersion, Date: now, Author: actor, Changes: initialChanges}},
	}

	if c.files != nil && in.File.Body != nil {
		key := fmt.Sprintf("documents/%d/%s", id, d.FileName)
		size := in.File.Size
		if size <= 0 {
			size = -1
		}
		if err := c.files.UploadFile(ctx, key, in.File.Body, size, in.File.ContentType); err != nil {
			return document.Document{}, observe("create", fmt.Errorf("upload payload: %w", err))
		}
		d.FileKey = key
	}

	if err := c.repo.Insert(ctx, d); err != nil {
		if d.FileKey != "" {
			_ = c.files.DeleteFile(ctx, d.FileKey)
		}
		return document.Document{}, observe("create", err)
	}
	metrics.CatalogSize.Inc()
	logger.Infof("document %d created by %s (%s, %d bytes)", id, actor, d.FileName, d.FileSize)
	c.notify(ctx, "Новый документ «"+d.Title+"»")
	return d.Document, observe("create", nil)
}

func (c *catalog) Update(ctx context.Context, id int64, p document.Patch) (document.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, err := c.repo.Get(ctx, id)
	if err != nil {
		return document.Document{}, observe("update", err)
	}
	if !d.Permissions.CanEdit {
		return document.Document{}, observe("update", &document.PermissionError{ID: id, Action: "edit"})
	}
	if p.Title != nil {
		d.Title = strings.TrimSpace(*p.Title)
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Description != nil {
		d.Description = strings.TrimSpace(*p.Description)
	}
	if p.Project != nil {
		d.Project = strings.TrimSpace(*p.Project)
	}
	if p.Tags != nil {
		d.Tags = cleanTags(*p.Tags)
	}
	if err := c.validateMeta(d.Title, d.Type, d.Description); err != nil {
		return document.Document{}, observe("update", err)
	}
	d.LastModified = c.clock.Now()
	if err := c.repo.Replace(ctx, d); err != nil {
		return document.Document{}, observe("update", err)
	}
	c.notify(ctx, "Документ «"+d.Title+"» изменен")
	return d.Document, observe("update", nil)
}

func (c *catalog) SetStatus(ctx context.Context, id int64, st document.Status) (document.Document, error) {
	if !st.Valid() {
		return document.Document{}, observe("set_status", &document.ValidationError{Field: "status", Message: "unknown status"})
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	d, err := c.repo.Get(ctx, id)
	if err != nil {
		return document.Document{}, observe("set_status", err)
	}
	if !d.Permissions.CanEdit {
		return document.Document{}, observe("set_status", &document.PermissionError{ID: id, Action: "change status"})
	}
	if d.Status == st {
		return d.Document, observe("set_status", nil)
	}
	d.Status = st
	d.LastModified = c.clock.Now()
	if err := c.repo.Replace(ctx, d); err != nil {
		return document.Document{}, observe("set_status", err)
	}
	c.notify(ctx, fmt.Sprintf("Статус документа «%s»: %s", d.Title, st.Label()))
	return d.Document, observe("set_status", nil)
}

// Duplicate copies the metadata of id into a fresh draft. The stored payload is
// not copied; the duplicate only records the file name and size.
func (c *catalog) Duplicate(ctx context.Context, id int64) (document.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, err := c.repo.Get(ctx, id)
	if err != nil {
		return document.Document{}, observe("duplicate", err)
	}
	newID, err := c.repo.NextID(ctx)
	if err != nil {
		return document.Document{}, observe("duplicate", err)
	}
	now := c.clock.Now()
	actor := c.actor(ctx)
	d := &document.Detail{
		Document: document.Document{
			ID:           newID,
			Title:        src.Title + copySuffix,
			Type:         src.Type,
			Author:       actor,
			LastModified: now,
			Version:      initialVersion,
			Status:       document.StatusDraft,
		},
		Description: src.Description,
		Project:     src.Project,
		CreatedAt:   now,
		FileName:    src.FileName,
		FileSize:    src.FileSize,
		FileFormat:  src.FileFormat,
		Tags:        append([]string(nil), src.Tags...),
		Permissions: document.Permissions{CanEdit: true, CanDelete: true, CanShare: true},
		Versions:    []document.Version{{Version: initialVersion, Date: now, Author: actor, Changes: initialChanges}},
	}
	if err := c.repo.Insert(ctx, d); err != nil {
		return document.Document{}, observe("duplicate", err)
	}
	metrics.CatalogSize.Inc()
	c.notify(ctx, "Новый документ «"+d.Title+"»")
	return d.Document, observe("duplicate", nil)
}

func (c *catalog) Delete(ctx context.Context, id int64) error {
	return observe("delete", c.remove(ctx, id))
}

// cleanTags trims tags and drops blanks and duplicates, keeping first-seen order.
func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
