package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fatflowers/sololvlup/pkg/logctx"
	"github.com/fatflowers/sololvlup/pkg/tool"
)

const HeaderRequestID = "X-Request-ID"

// TraceMiddleware adds a trace ID to the request context.
// It reads X-Request-ID if the client provided a usable one; otherwise generates a UUID.
// The trace ID is stored in both gin.Context and the request's context.Context.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(HeaderRequestID)
		if !tool.ValidTraceID(traceID) {
			traceID = tool.NewTraceID()
		}

		c.Set(logctx.GinTraceIDKey, traceID)
		c.Request = c.Request.WithContext(logctx.WithTraceID(c.Request.Context(), traceID))
		c.Next()
	}
}
