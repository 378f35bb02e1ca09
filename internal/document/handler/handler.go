// Package handler exposes the document catalog over HTTP.
package handler

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/doclab/doclab/internal/document"
	"github.com/doclab/doclab/internal/document/service"
	"github.com/doclab/doclab/internal/notify"
	"github.com/doclab/doclab/pkg/logger"
	"github.com/gin-gonic/gin"
)

// DownloadTTL is how long a download redirect stays valid.
const DownloadTTL = 15 * time.Minute

type handler struct {
	svc  *service.Service
	feed notify.Feed
}

// RegisterDocumentRoutes mounts the catalog, detail and notification endpoints.
// feed may be nil, in which case the notification list is always empty.
func RegisterDocumentRoutes(r gin.IRouter, svc *service.Service, feed notify.Feed) {
	h := &handler{svc: svc, feed: feed}

	r.GET("/api/documents", h.list)
	r.POST("/api/documents", h.create)
	r.GET("/api/documents/:id", h.get)
	r.PATCH("/api/documents/:id", h.update)
	r.DELETE("/api/documents/:id", h.delete)
	r.PUT("/api/documents/:id/status", h.setStatus)
	r.POST("/api/documents/:id/duplicate", h.duplicate)
	r.GET("/api/documents/:id/versions", h.versions)
	r.GET("/api/documents/:id/comments", h.comments)
	r.POST("/api/documents/:id/comments", h.addComment)
	r.POST("/api/documents/:id/share", h.share)
	r.GET("/api/documents/:id/download", h.download)
	r.GET("/api/documents/:id/preview", h.preview)

	r.GET("/api/document-types", h.types)
	r.GET("/api/notifications", h.notifications)
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognised is a 500
// and its text is logged rather than returned.
func writeError(c *gin.Context, err error) {
	var (
		ve *document.ValidationError
		ne *document.NotFoundError
		pe *document.PermissionError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation", "field": ve.Field, "error": ve.Message})
	case errors.As(err, &ne):
		c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "error": ne.Error()})
	case errors.As(err, &pe):
		c.JSON(http.StatusForbidden, gin.H{"code": "permission", "error": pe.Error()})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "internal", "error": "internal error"})
	}
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, &document.ValidationError{Field: "id", Message: fmt.Sprintf("invalid document id %q", c.Param("id"))})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeError(c, &document.ValidationError{Field: name, Message: "must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

// list answers GET /api/documents?search=&type=&sort=&scope=&page=&pageSize=
func (h *handler) list(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	size, ok := queryInt(c, "pageSize")
	if !ok {
		return
	}
	q := document.Query{
		SearchText: c.Query("search"),
		Type:       c.Query("type"),
		Sort:       document.SortKey(c.Query("sort")),
		Scope:      document.Scope(c.Query("scope")),
	}
	docs, err := h.svc.Catalog.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, document.Paginate(docs, page, size))
}

type createRequest struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Project     string   `json:"project"`
	Tags        []string `json:"tags"`
	FileName    string   `json:"fileName"`
	FileSize    int64    `json:"fileSize"`
}

// create accepts either a multipart upload with a "file" part or a JSON body that
// only describes the payload.
func (h *handler) create(c *gin.Context) {
	var in document.CreateInput
	if c.ContentType() == "application/json" {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "validation", "error": err.Error()})
			return
		}
		in = document.CreateInput{Title: req.Title, Type: req.Type, Description: req.Description, Project: req.Project, Tags: req.Tags}
		if req.FileName != "" {
			in.File = &document.FilePayload{Name: req.FileName, Size: req.FileSize}
		}
	} else {
		in = document.CreateInput{
			Title:       c.PostForm("title"),
			Type:        c.PostForm("type"),
			Description: c.PostForm("description"),
			Project:     c.PostForm("project"),
			Tags:        splitTags(c.PostFormArray("tags")),
		}
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				writeError(c, fmt.Errorf("open upload: %w", err))
				return
			}
			defer f.Close()
			in.File = &document.FilePayload{
				Name:        fh.Filename,
				Size:        fh.Size,
				ContentType: fh.Header.Get("Content-Type"),
				Body:        f,
			}
		}
	}

	doc, err := h.svc.Catalog.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/documents/%d", doc.ID))
	c.JSON(http.StatusCreated, doc)
}

// splitTags accepts repeated fields as well as one comma separated value.
func splitTags(raw []string) []string {
	var out []string
	for _, v := range raw {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

type detailResponse struct {
	*document.Detail
	TypeLabel     string `json:"typeLabel"`
	StatusLabel   string `json:"statusLabel"`
	StatusTone    string `json:"statusTone"`
	FileSizeLabel string `json:"fileSizeLabel,omitempty"`
}

func (h *handler) get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	d, err := h.svc.Details.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	label := d.Type
	for _, t := range h.svc.Catalog.Types() {
		if t.Name == d.Type {
			label = t.Label
		}
	}
	c.JSON(http.StatusOK, detailResponse{
		Detail:        d,
		TypeLabel:     label,
		StatusLabel:   d.Status.Label(),
		StatusTone:    d.Status.Tone(),
		FileSizeLabel: d.FileSizeLabel(),
	})
}

func (h *handler) update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var p document.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation", "error": err.Error()})
		return
	}
	doc, err := h.svc.Catalog.Update(c.Request.Context(), id, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// delete goes through the detail store so the response carries the navigation target.
func (h *handler) delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	nav, err := h.svc.Details.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("X-Navigate-To", nav.To)
	c.Status(http.StatusNoContent)
}

func (h *handler) setStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation", "error": err.Error()})
		return
	}
	st, err := document.ParseStatus(req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	doc, err := h.svc.Catalog.SetStatus(c.Request.Context(), id, st)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handler) duplicate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	doc, err := h.svc.Catalog.Duplicate(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/documents/%d", doc.ID))
	c.JSON(http.StatusCreated, doc)
}

func (h *handler) versions(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	v, err := h.svc.Details.ListVersions(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if v == nil {
		v = []document.Version{}
	}
	c.JSON(http.StatusOK, v)
}

func (h *handler) comments(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	d, err := h.svc.Details.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if d.Comments == nil {
		d.Comments = []document.Comment{}
	}
	c.JSON(http.StatusOK, d.Comments)
}

func (h *handler) addComment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "validation", "error": err.Error()})
		return
	}
	cm, err := h.svc.Details.AddComment(c.Request.Context(), id, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}

func (h *handler) share(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	link, err := h.svc.Details.Share(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// download redirects to a short-lived URL of the stored payload.
func (h *handler) download(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	u, err := h.svc.Details.Download(c.Request.Context(), id, DownloadTTL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, u)
}

// preview renders the placeholder shown in the preview tab.
func (h *handler) preview(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	d, err := h.svc.Details.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	title := html.EscapeString(d.Title)
	page := fmt.Sprintf(`<html><head><meta charset="utf-8"><title>%s</title></head><body><h2>%s</h2><p>%s, %s</p><p>Версия %s · %s</p></body></html>`,
		title, title, html.EscapeString(d.FileName), html.EscapeString(d.FileSizeLabel()),
		html.EscapeString(d.Version), html.EscapeString(d.Status.Label()))
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, page)
}

func (h *handler) types(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Catalog.Types())
}

func (h *handler) notifications(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	if h.feed == nil {
		c.JSON(http.StatusOK, []notify.Notification{})
		return
	}
	items, err := h.feed.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []notify.Notification{}
	}
	c.JSON(http.StatusOK, items)
}
