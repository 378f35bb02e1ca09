package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// LinkStore serves payloads behind links it signed itself.
type LinkStore interface {
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	VerifyLink(key, expires, sig string) error
}

// RegisterFileRoutes serves GET /files/<key>?expires=<unix>&sig=<hmac>, the
// target of the links produced by the in-memory payload store. The signed link
// is the credential, so the route sits outside the auth group.
func RegisterFileRoutes(r gin.IRouter, store LinkStore, notFound error) {
	r.GET("/files/*key", func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		if err := store.VerifyLink(key, c.Query("expires"), c.Query("sig")); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"code": "permission", "error": err.Error()})
			return
		}
		rc, err := store.DownloadFile(c.Request.Context(), key)
		if err != nil {
			if notFound != nil && errors.Is(err, notFound) {
				c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "error": "file not found"})
				return
			}
			writeError(c, err)
			return
		}
		defer rc.Close()
		extra := map[string]string{}
		if cd := mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(key)}); cd != "" {
			extra["Content-Disposition"] = cd
		}
		c.DataFromReader(http.StatusOK, -1, "application/octet-stream", rc, extra)
	})
}
