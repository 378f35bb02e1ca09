package document

import (
	"fmt"
	"slices"
	"strings"
)

// SortKey selects the list comparator.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByName   SortKey = "name"
	SortByAuthor SortKey = "author"
)

// Scope narrows a listing to a subset of the catalog.
type Scope string

const (
	ScopeAll  Scope = "all"
	ScopeMine Scope = "mine"
)

// Query is a catalog listing request. Zero values mean "everything, newest first".
type Query struct {
	SearchText string  `json:"search"`
	Type       string  `json:"type"`
	Sort       SortKey `json:"sort"`
	Scope      Scope   `json:"scope"`
}

// Normalize fills defaults and rejects unknown sort keys or scopes.
func (q Query) Normalize() (Query, error) {
	switch q.Sort {
	case "":
		q.Sort = SortByDate
	case SortByDate, SortByName, SortByAuthor:
	default:
		return q, &ValidationError{Field: "sort", Message: fmt.Sprintf("unknown sort key %q", q.Sort)}
	}
	switch q.Scope {
	case "":
		q.Scope = ScopeAll
	case ScopeAll, ScopeMine:
	default:
		return q, &ValidationError{Field: "scope", Message: fmt.Sprintf("unknown scope %q", q.Scope)}
	}
	if q.Type == "" {
		q.Type = AllTypes
	}
	return q, nil
}

// Matches reports whether d passes the search and type filters. actor is the
// current user, consulted only for ScopeMine.
func (q Query) Matches(d Document, actor string) bool {
	if q.SearchText != "" {
		needle := strings.ToLower(q.SearchText)
		if !strings.Contains(strings.ToLower(d.Title), needle) &&
			!strings.Contains(strings.ToLower(d.Author), needle) {
			return false
		}
	}
	if q.Type != "" && q.Type != AllTypes && d.Type != q.Type {
		return false
	}
	if q.Scope == ScopeMine && d.Author != actor {
		return false
	}
	return true
}

// Apply filters docs (given in insertion order) and sorts the result stably.
// The input slice is not modified.
func (q Query) Apply(docs []Document, actor string) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if q.Matches(d, actor) {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, comparator(q.Sort))
	return out
}

func comparator(key SortKey) func(a, b Document) int {
	switch key {
	case SortByName:
		return func(a, b Document) int { return strings.Compare(a.Title, b.Title) }
	case SortByAuthor:
		return func(a, b Document) int { return strings.Compare(a.Author, b.Author) }
	default:
		return func(a, b Document) int { return b.LastModified.Compare(a.LastModified) }
	}
}

// Page is one window of a listing.
type Page struct {
	Items    []Document `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// Paginate cuts docs into a 1-based page. A non-positive pageSize returns everything.
func Paginate(docs []Document, page, pageSize int) Page {
	total := len(docs)
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return Page{Items: docs, Total: total, Page: 1, PageSize: total}
	}
	// Checked before multiplying so a huge page cannot overflow start.
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := start + min(pageSize, total-start)
	return Page{Items: docs[start:end], Total: total, Page: page, PageSize: pageSize}
}
