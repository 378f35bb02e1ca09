package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceHeader carries the request id in both directions.
const TraceHeader = "X-Trace-Id"

// Trace reuses an incoming trace id or mints one, stores it under "trace_id" and
// echoes it on the response.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("trace_id", id)
		c.Header(TraceHeader, id)
		c.Next()
	}
}
