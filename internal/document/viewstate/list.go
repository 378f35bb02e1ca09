// Package viewstate models the catalog and detail screens as immutable state
// values advanced by pure reducers.
package viewstate

import "github.com/doclab/doclab/internal/document"

// UploadDraft mirrors the fields of the upload dialog.
type UploadDraft struct {
	Title       string
	Type        string
	Description string
	Project     string
	Tags        []string
	FileName    string
	FileSize    int64
}

// Input converts the draft into a create request with a described payload.
func (u UploadDraft) Input() document.CreateInput {
	in := document.CreateInput{
		Title:       u.Title,
		Type:        u.Type,
		Description: u.Description,
		Project:     u.Project,
		Tags:        append([]string(nil), u.Tags...),
	}
	if u.FileName != "" {
		in.File = &document.FilePayload{Name: u.FileName, Size: u.FileSize}
	}
	return in
}

// ListState is the catalog screen.
type ListState struct {
	Search     string
	Type       string
	Sort       document.SortKey
	Scope      document.Scope
	Page       int
	Upload     UploadDraft
	UploadOpen bool
}

// NewListState returns the screen as first shown: everything, newest first.
func NewListState() ListState {
	return ListState{Type: document.AllTypes, Sort: document.SortByDate, Scope: document.ScopeAll, Page: 1}
}

// Query is the catalog request the screen currently describes.
func (s ListState) Query() document.Query {
	return document.Query{SearchText: s.Search, Type: s.Type, Sort: s.Sort, Scope: s.Scope}
}

// ListAction is implemented by every list screen action.
type ListAction interface{ applyList(ListState) ListState }

type (
	SetSearch struct{ Text string }
	SetType   struct{ Type string }
	SetSort   struct{ Sort document.SortKey }
	SetScope  struct{ Scope document.Scope }
	SetPage   struct{ Page int }

	OpenUpload   struct{}
	EditUpload   struct{ Edit func(UploadDraft) UploadDraft }
	CancelUpload struct{}

	// UploadCommitted is dispatched once the create call succeeded.
	UploadCommitted struct{}
)

// Reduce applies a to s. s is never modified.
func Reduce(s ListState, a ListAction) ListState {
	if a == nil {
		return s
	}
	return a.applyList(s)
}

func (a SetSearch) applyList(s ListState) ListState {
	s.Search = a.Text
	s.Page = 1
	return s
}

func (a SetType) applyList(s ListState) ListState {
	s.Type = a.Type
	if s.Type == "" {
		s.Type = document.AllTypes
	}
	s.Page = 1
	return s
}

func (a SetSort) applyList(s ListState) ListState {
	s.Sort = a.Sort
	s.Page = 1
	return s
}

func (a SetScope) applyList(s ListState) ListState {
	s.Scope = a.Scope
	s.Page = 1
	return s
}

func (a SetPage) applyList(s ListState) ListState {
	s.Page = max(a.Page, 1)
	return s
}

func (OpenUpload) applyList(s ListState) ListState {
	s.UploadOpen = true
	return s
}

func (a EditUpload) applyList(s ListState) ListState {
	if !s.UploadOpen || a.Edit == nil {
		return s
	}
	d := s.Upload
	d.Tags = append([]string(nil), d.Tags...)
	s.Upload = a.Edit(d)
	return s
}

func (CancelUpload) applyList(s ListState) ListState {
	s.UploadOpen = false
	s.Upload = UploadDraft{}
	return s
}

func (UploadCommitted) applyList(s ListState) ListState {
	s.UploadOpen = false
	s.Upload = UploadDraft{}
	return s
}
