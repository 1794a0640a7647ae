package server

import (
	"time"

	"youtube-unlister/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// requestLogger logs each request without its query string, which carries
// the authorization code on the callback route.
func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logger.GetLogger().WithFields(map[string]interface{}{
			"method":   ctx.Request.Method,
			"path":     ctx.Request.URL.Path,
			"status":   ctx.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("Request handled")
	}
}
