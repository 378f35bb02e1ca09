package viewstate

import (
	"context"
	"testing"

	"github.com/doclab/doclab/internal/document"
	"github.com/doclab/doclab/internal/document/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListReducer_FiltersResetPage(t *testing.T) {
	s := Reduce(NewListState(), SetPage{Page: 3})
	require.Equal(t, 3, s.Page)

	next := Reduce(s, SetSearch{Text: "Иванов"})
	assert.Equal(t, 1, next.Page)
	assert.Equal(t, 3, s.Page, "previous state is untouched")

	next = Reduce(next, SetType{})
	assert.Equal(t, document.AllTypes, next.Type)

	next = Reduce(Reduce(next, SetSort{Sort: document.SortByAuthor}), SetScope{Scope: document.ScopeMine})
	assert.Equal(t, document.Query{SearchText: "Иванов", Type: document.AllTypes, Sort: document.SortByAuthor, Scope: document.ScopeMine}, next.Query())

	assert.Equal(t, 1, Reduce(next, SetPage{Page: -4}).Page)
	assert.Equal(t, next, Reduce(next, nil))
}

func TestListReducer_UploadDialog(t *testing.T) {
	s := Reduce(NewListState(), EditUpload{Edit: func(d UploadDraft) UploadDraft { d.Title = "x"; return d }})
	assert.Empty(t, s.Upload.Title, "edits are ignored while the dialog is closed")

	s = Reduce(s, OpenUpload{})
	s = Reduce(s, EditUpload{Edit: func(d UploadDraft) UploadDraft {
		d.Title = "Акт"
		d.Type = "Отчет"
		d.Tags = append(d.Tags, "акт")
		d.FileName = "act.pdf"
		return d
	}})
	require.True(t, s.UploadOpen)
	assert.Equal(t, "Акт", s.Upload.Title)

	cancelled := Reduce(s, CancelUpload{})
	assert.False(t, cancelled.UploadOpen)
	assert.Equal(t, UploadDraft{}, cancelled.Upload)
	assert.Equal(t, "Акт", s.Upload.Title)

	svc := service.NewMemoryService()
	doc, err := svc.Catalog.Create(context.Background(), s.Upload.Input())
	require.NoError(t, err)
	assert.Equal(t, "Акт", doc.Title)

	done := Reduce(s, UploadCommitted{})
	assert.False(t, done.UploadOpen)
	assert.Empty(t, done.Upload.Title)
}

func TestUploadDraft_InputWithoutFile(t *testing.T) {
	in := UploadDraft{Title: "a", Type: "Отчет"}.Input()
	assert.Nil(t, in.File)

	_, err := service.NewMemoryService().Catalog.Create(context.Background(), in)
	assert.True(t, document.IsValidation(err))
}

func TestDetailReducer(t *testing.T) {
	s := NewDetailState()
	assert.Equal(t, TabPreview, s.Tab)

	s = ReduceDetail(s, SelectTab{Tab: TabComments})
	assert.Equal(t, TabComments, s.Tab)
	assert.Equal(t, TabComments, ReduceDetail(s, SelectTab{Tab: "history"}).Tab)

	s = ReduceDetail(s, EditComment{Text: "Looks good"})
	assert.Equal(t, "Looks good", s.CommentDraft)
	assert.Empty(t, ReduceDetail(s, CommentPosted{}).CommentDraft)

	s = ReduceDetail(s, RequestDelete{})
	assert.True(t, s.ConfirmingDelete)
	assert.False(t, ReduceDetail(s, CancelDelete{}).ConfirmingDelete)

	s = ReduceDetail(s, DeleteConfirmed{Nav: document.Navigation{To: "/"}})
	assert.False(t, s.ConfirmingDelete)
	assert.Equal(t, "/", s.NavigateTo)
}
