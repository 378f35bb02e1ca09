package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/doclab/doclab/internal/config"
	"github.com/doclab/doclab/internal/tokens"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c, err := config.LoadConfig(filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	c.RateLimit.RPS = 1000
	c.RateLimit.Burst = 1000
	return c
}

func testApp(t *testing.T, c *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a, err := buildApp(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })
	return newRouter(a)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_InMemory(t *testing.T) {
	r := testApp(t, testConfig(t))

	require.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ready"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":5`)
	require.NotEmpty(t, w.Header().Get("X-Trace-Id"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	c := testConfig(t)
	c.Server.AllowedOrigins = []string{"http://ui.test"}
	r := testApp(t, c)

	req := httptest.NewRequest(http.MethodOptions, "/api/documents", nil)
	req.Header.Set("Origin", "http://ui.test")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	w := serve(r, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://ui.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_TokenBecomesAuthor(t *testing.T) {
	c := testConfig(t)
	c.Auth.JWTSecret = "test-secret-32-bytes-should-be-long-enough"
	c.Auth.Required = true
	r := testApp(t, c)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	m, err := tokens.NewManager(c.Auth.JWTSecret, c.Auth.JWTIssuer)
	require.NoError(t, err)
	tok, err := m.GenerateAccessToken(tokens.Subject{Sub: "u-7", Name: "Козлова Е.А."}, c.Auth.TokenTTL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/1/comments", bytes.NewBufferString(`{"text":"Проверено"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	w = serve(r, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "Козлова Е.А.", got["author"])
	require.Equal(t, "КЕ", got["avatar"])
}

func TestRouter_FileLinksNeedSignature(t *testing.T) {
	c := testConfig(t)
	c.Auth.JWTSecret = "test-secret-32-bytes-should-be-long-enough"
	c.Auth.Required = true
	gin.SetMode(gin.TestMode)
	a, err := buildApp(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })
	r := newRouter(a)

	ctx := context.Background()
	require.NoError(t, a.memFiles.UploadFile(ctx, "documents/7/secret.pdf", strings.NewReader("TOP SECRET"), 10, "application/pdf"))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/documents/7/download", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/files/documents/7/secret.pdf?expires=99999999999", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.NotContains(t, w.Body.String(), "TOP SECRET")

	link, err := a.memFiles.GetPresignedURL(ctx, "documents/7/secret.pdf", time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	w = serve(r, httptest.NewRequest(http.MethodGet, u.RequestURI(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "TOP SECRET", w.Body.String())
}

func TestRouter_RedisFeed(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	c := testConfig(t)
	host, port, _ := strings.Cut(m.Addr(), ":")
	c.Redis.Host, c.Redis.Port = host, port
	r := testApp(t, c)

	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/documents/2/duplicate", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "копия")
	require.True(t, m.Exists("doclab:notifications:items"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Contains(t, w.Body.String(), `"redis":true`)
}

func TestListCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"list", "--env-file", filepath.Join(t.TempDir(), "none.env"), "--search", "Иванов", "--json"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil); listSearch, listJSON = "", false })
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &docs))
	require.Len(t, docs, 2)
}
