// Package seed loads the starting catalog from YAML.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/doclab/doclab/internal/document"
	"github.com/doclab/doclab/internal/document/repository"
	"github.com/doclab/doclab/pkg/metrics"
	"gopkg.in/yaml.v3"
)

// TimeLayout is the timestamp format used in seed files.
const TimeLayout = "2006-01-02 15:04"

//go:embed catalog.yaml
var defaultCatalog []byte

type seedFile struct {
	Documents []seedDocument `yaml:"documents"`
}

type seedDocument struct {
	ID           int64                `yaml:"id"`
	Title        string               `yaml:"title"`
	Type         string               `yaml:"type"`
	Author       string               `yaml:"author"`
	CreatedAt    string               `yaml:"createdAt"`
	LastModified string               `yaml:"lastModified"`
	Version      string               `yaml:"version"`
	Status       string               `yaml:"status"`
	Description  string               `yaml:"description"`
	Project      string               `yaml:"project"`
	FileName     string               `yaml:"fileName"`
	FileSize     int64                `yaml:"fileSize"`
	Tags         []string             `yaml:"tags"`
	Permissions  document.Permissions `yaml:"permissions"`
	Versions     []seedVersion        `yaml:"versions"`
	Comments     []seedComment        `yaml:"comments"`
}

type seedVersion struct {
	Version string `yaml:"version"`
	Date    string `yaml:"date"`
	Author  string `yaml:"author"`
	Changes string `yaml:"changes"`
}

type seedComment struct {
	ID     int64  `yaml:"id"`
	Author string `yaml:"author"`
	Date   string `yaml:"date"`
	Text   string `yaml:"text"`
}

// Default returns the built-in catalog.
func Default() ([]*document.Detail, error) {
	return Parse(defaultCatalog)
}

// LoadFile parses a seed file from disk.
func LoadFile(path string) ([]*document.Detail, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes YAML seed data. Timestamps are read as UTC.
func Parse(data []byte) ([]*document.Detail, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	seen := map[int64]bool{}
	out := make([]*document.Detail, 0, len(f.Documents))
	for i, sd := range f.Documents {
		d, err := sd.toDetail()
		if err != nil {
			return nil, fmt.Errorf("seed document #%d: %w", i+1, err)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("seed document #%d: duplicate id %d", i+1, d.ID)
		}
		seen[d.ID] = true
		out = append(out, d)
	}
	return out, nil
}

// Into inserts records into repo in order.
func Into(ctx context.Context, repo repository.Repository, recs []*document.Detail) error {
	for _, d := range recs {
		if err := repo.Insert(ctx, d); err != nil {
			return err
		}
	}
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	metrics.CatalogSize.Set(float64(n))
	return nil
}

func parseTime(field, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(TimeLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

func (sd seedDocument) toDetail() (*document.Detail, error) {
	if sd.ID <= 0 {
		return nil, fmt.Errorf("id must be positive")
	}
	if sd.Title == "" {
		return nil, fmt.Errorf("id %d: title is required", sd.ID)
	}
	st, err := document.ParseStatus(sd.Status)
	if err != nil {
		return nil, fmt.Errorf("id %d: %w", sd.ID, err)
	}
	modified, err := parseTime("lastModified", sd.LastModified)
	if err != nil {
		return nil, err
	}
	created, err := parseTime("createdAt", sd.CreatedAt)
	if err != nil {
		return nil, err
	}
	d := &document.Detail{
		Document: document.Document{
			ID:           sd.ID,
			Title:        sd.Title,
			Type:         sd.Type,
			Author:       sd.Author,
			LastModified: modified,
			Version:      sd.Version,
			Status:       st,
		},
		Description: sd.Description,
		Project:     sd.Project,
		CreatedAt:   created,
		FileName:    sd.FileName,
		FileSize:    sd.FileSize,
		FileFormat:  (&document.FilePayload{Name: sd.FileName}).Format(),
		Tags:        sd.Tags,
		Permissions: sd.Permissions,
	}
	for _, v := range sd.Versions {
		at, err := parseTime("version date", v.Date)
		if err != nil {
			return nil, err
		}
		d.Versions = append(d.Versions, document.Version{Version: v.Version, Date: at, Author: v.Author, Changes: v.Changes})
	}
	for _, c := range sd.Comments {
		at, err := parseTime("comment date", c.Date)
		if err != nil {
			return nil, err
		}
		d.Comments = append(d.Comments, document.Comment{
			ID: c.ID, Author: c.Author, Date: at, Text: c.Text, Avatar: document.Initials(c.Author),
		})
		d.LastCommentID = max(d.LastCommentID, c.ID)
	}
	return d, nil
}
