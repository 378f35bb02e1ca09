package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/doclab/doclab/internal/document"
	"github.com/gin-gonic/gin"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the provided verifier.
// The display name found in the claims becomes the acting user of the request.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return authenticate(ver, false)
}

// OptionalAuthMiddleware verifies a Bearer token when one is sent and lets anonymous
// requests through, leaving the catalog's configured user in charge.
func OptionalAuthMiddleware(ver Verifier) gin.HandlerFunc {
	return authenticate(ver, true)
}

func authenticate(ver Verifier, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			return
		}

		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
			return
		}

		c.Set("claims", claims)
		if name := DisplayName(claims); name != "" {
			c.Request = c.Request.WithContext(document.WithActor(c.Request.Context(), name))
		}
		c.Next()
	}
}

// DisplayName picks the most human-readable identity claim: name, then
// preferred_username, then email, then sub.
func DisplayName(claims map[string]interface{}) string {
	for _, k := range []string{"name", "preferred_username", "email", "sub"} {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// limitKey prefers the authenticated subject and falls back to the client IP.
func limitKey(c *gin.Context) string {
	if v, ok := c.Get("claims"); ok {
		if cm, ok2 := v.(map[string]interface{}); ok2 {
			if sub, ok3 := cm["sub"].(string); ok3 && sub != "" {
				return "sub:" + sub
			}
		}
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
