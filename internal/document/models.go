package document

import (
	"io"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Document is a catalog entry. It is what list queries return.
type Document struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	Author       string    `json:"author"`
	LastModified time.Time `json:"lastModified"`
	Version      string    `json:"version"`
	Status       Status    `json:"status"`
}

// Permissions are independent capability flags; none is derived from another.
type Permissions struct {
	CanEdit   bool `json:"canEdit" yaml:"canEdit" bson:"canEdit"`
	CanDelete bool `json:"canDelete" yaml:"canDelete" bson:"canDelete"`
	CanShare  bool `json:"canShare" yaml:"canShare" bson:"canShare"`
}

// Version is one entry of a document's history.
type Version struct {
	Version string    `json:"version"`
	Date    time.Time `json:"date"`
	Author  string    `json:"author"`
	Changes string    `json:"changes"`
}

// Comment is a single note in a document's thread.
type Comment struct {
	ID     int64     `json:"id"`
	Author string    `json:"author"`
	Date   time.Time `json:"date"`
	Text   string    `json:"text"`
	Avatar string    `json:"avatar"`
}

// Detail is the full stored record of a document. The embedded Document is
// the catalog view of the same record.
type Detail struct {
	Document
	Description string      `json:"description"`
	Project     string      `json:"project,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	FileName    string      `json:"fileName,omitempty"`
	FileSize    int64       `json:"fileSize"`
	FileFormat  string      `json:"fileFormat,omitempty"`
	FileKey     string      `json:"-"`
	Tags        []string    `json:"tags"`
	Permissions Permissions `json:"permissions"`
	Versions    []Version   `json:"-"`
	Comments    []Comment   `json:"comments"`

	// LastCommentID is the highest comment id ever issued for this record.
	// It only grows, so ids are never reused.
	LastCommentID int64 `json:"-"`
}

// FileSizeLabel renders the payload size the way the detail view shows it ("2.4 MB").
func (d *Detail) FileSizeLabel() string {
	if d.FileSize <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(d.FileSize))
}

// Clone returns a deep copy so callers never alias repository state.
func (d *Detail) Clone() *Detail {
	if d == nil {
		return nil
	}
	out := *d
	out.Tags = append([]string(nil), d.Tags...)
	out.Versions = append([]Version(nil), d.Versions...)
	out.Comments = append([]Comment(nil), d.Comments...)
	return &out
}

// FilePayload is the uploaded artifact attached to a new document. Body may be
// nil when the payload is only described (simulated upload).
type FilePayload struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// Format returns the upper-cased file extension, e.g. "PDF".
func (f *FilePayload) Format() string {
	if f == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimPrefix(path.Ext(f.Name), "."))
}

// CreateInput carries the fields of the upload dialog.
type CreateInput struct {
	Title       string
	Type        string
	Description string
	Project     string
	Tags        []string
	File        *FilePayload
}

// Patch holds optional metadata edits; nil fields are left unchanged.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Type        *string   `json:"type,omitempty"`
	Description *string   `json:"description,omitempty"`
	Project     *string   `json:"project,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// Navigation tells a view where to go after an operation removed its subject.
type Navigation struct {
	To string `json:"to"`
}

// ShareLink is the address handed out by a share action.
type ShareLink struct {
	DocumentID int64  `json:"documentId"`
	URL        string `json:"url"`
}

// Initials derives the avatar text for an author such as "Петрова М.В." -> "ПМ".
func Initials(author string) string {
	parts := strings.FieldsFunc(author, func(r rune) bool {
		return r == ' ' || r == '.' || r == '\t'
	})
	var out []rune
	for _, p := range parts {
		if len(out) == 2 {
			break
		}
		out = append(out, []rune(strings.ToUpper(p))[0])
	}
	return string(out)
}
