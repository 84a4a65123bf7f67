package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/plantap/internal/logger"
)

// requestLog writes one debug line per request.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("api: %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
