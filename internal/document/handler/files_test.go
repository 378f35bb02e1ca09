package handler

import (
	"bytes"
	"context"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/doclab/doclab/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func fileRouter(t *testing.T) (*gin.Engine, *storage.MemoryStorage) {
	t.Helper()
	store := storage.NewMemoryStorage("")
	g := gin.New()
	RegisterFileRoutes(g, store, storage.ErrObjectNotFound)
	return g, store
}

func presign(t *testing.T, store *storage.MemoryStorage, key string, ttl time.Duration) *url.URL {
	t.Helper()
	link, err := store.GetPresignedURL(context.Background(), key, ttl)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u
}

func get(g *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestFileRoutes(t *testing.T) {
	g, store := fileRouter(t)
	ctx := context.Background()
	require.NoError(t, store.UploadFile(ctx, "documents/6/act.pdf", strings.NewReader("%PDF"), 4, "application/pdf"))

	w := get(g, presign(t, store, "documents/6/act.pdf", time.Minute).RequestURI())
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, bytes.Equal([]byte("%PDF"), w.Body.Bytes()))
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	require.Equal(t, "act.pdf", params["filename"])

	w = get(g, presign(t, store, "documents/6/act.pdf", -time.Minute).RequestURI())
	require.Equal(t, http.StatusForbidden, w.Code)

	gone := presign(t, store, "documents/6/act.pdf", time.Minute)
	require.NoError(t, store.DeleteFile(ctx, "documents/6/act.pdf"))
	w = get(g, gone.RequestURI())
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileRoutes_RejectsForgedLinks(t *testing.T) {
	g, store := fileRouter(t)
	require.NoError(t, store.UploadFile(context.Background(), "documents/7/secret.pdf", strings.NewReader("TOP SECRET"), 10, ""))

	far := strconv.FormatInt(time.Now().Add(24*time.Hour).Unix(), 10)
	w := get(g, "/files/documents/7/secret.pdf?expires="+far)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.NotContains(t, w.Body.String(), "TOP SECRET")

	u := presign(t, store, "documents/7/secret.pdf", time.Minute)
	q := u.Query()

	extended := url.Values{"expires": {far}, "sig": {q.Get("sig")}}
	w = get(g, u.Path+"?"+extended.Encode())
	require.Equal(t, http.StatusForbidden, w.Code)

	bad := []byte(q.Get("sig"))
	if bad[0] == 'a' {
		bad[0] = 'b'
	} else {
		bad[0] = 'a'
	}
	tampered := url.Values{"expires": {q.Get("expires")}, "sig": {string(bad)}}
	w = get(g, u.Path+"?"+tampered.Encode())
	require.Equal(t, http.StatusForbidden, w.Code)

	// a valid signature does not carry over to another key
	require.NoError(t, store.UploadFile(context.Background(), "documents/8/other.pdf", strings.NewReader("x"), 1, ""))
	w = get(g, "/files/documents/8/other.pdf?"+q.Encode())
	require.Equal(t, http.StatusForbidden, w.Code)

	w = get(g, u.RequestURI())
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "TOP SECRET", w.Body.String())
}

func TestFileRoutes_QuotesFileName(t *testing.T) {
	g, store := fileRouter(t)
	key := `documents/9/акт "итог".pdf`
	require.NoError(t, store.UploadFile(context.Background(), key, strings.NewReader("x"), 1, ""))

	w := get(g, presign(t, store, key, time.Minute).RequestURI())
	require.Equal(t, http.StatusOK, w.Code)
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	require.Equal(t, `акт "итог".pdf`, params["filename"])
}
