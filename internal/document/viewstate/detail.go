package viewstate

import "github.com/doclab/doclab/internal/document"

// Tab is a section of the detail screen.
type Tab string

const (
	TabPreview  Tab = "preview"
	TabDetails  Tab = "details"
	TabVersions Tab = "versions"
	TabComments Tab = "comments"
)

// DetailState is the detail screen of one document.
type DetailState struct {
	Tab              Tab
	ConfirmingDelete bool
	CommentDraft     string
	NavigateTo       string
}

func NewDetailState() DetailState { return DetailState{Tab: TabPreview} }

// DetailAction is implemented by every detail screen action.
type DetailAction interface{ applyDetail(DetailState) DetailState }

type (
	SelectTab       struct{ Tab Tab }
	RequestDelete   struct{}
	CancelDelete    struct{}
	EditComment     struct{ Text string }
	CommentPosted   struct{}
	DeleteConfirmed struct{ Nav document.Navigation }
)

// ReduceDetail applies a to s. s is never modified.
func ReduceDetail(s DetailState, a DetailAction) DetailState {
	if a == nil {
		return s
	}
	return a.applyDetail(s)
}

func (a SelectTab) applyDetail(s DetailState) DetailState {
	switch a.Tab {
	case TabPreview, TabDetails, TabVersions, TabComments:
		s.Tab = a.Tab
	}
	return s
}

func (RequestDelete) applyDetail(s DetailState) DetailState {
	s.ConfirmingDelete = true
	return s
}

func (CancelDelete) applyDetail(s DetailState) DetailState {
	s.ConfirmingDelete = false
	return s
}

func (a EditComment) applyDetail(s DetailState) DetailState {
	s.CommentDraft = a.Text
	return s
}

func (CommentPosted) applyDetail(s DetailState) DetailState {
	s.CommentDraft = ""
	return s
}

func (a DeleteConfirmed) applyDetail(s DetailState) DetailState {
	s.ConfirmingDelete = false
	s.NavigateTo = a.Nav.To
	return s
}
