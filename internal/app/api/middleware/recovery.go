package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatflowers/sololvlup/pkg/logctx"
)

// RecoveryMiddleware turns a panic into a 500 with body {"error": message}.
// The panic value is logged, never returned to the client.
func RecoveryMiddleware(base *zap.SugaredLogger, message string) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logctx.FromGin(c, base).Errorw("panic_recovered",
			"path", c.Request.URL.Path,
			"panic", recovered,
			zap.StackSkip("stack", 3),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message})
	})
}
