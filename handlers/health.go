package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moviereview/movie-api/pkg/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ready(ctx context.Context) error
}

// RegisterHealth mounts the probe endpoints.
// - GET /health -> always 200 {"status":"ok"}, no dependency check
// - GET /ready  -> 200 when the store answers a ping, 503 otherwise
func RegisterHealth(r gin.IRoutes, store Pinger, timeout time.Duration) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		if err := store.Ready(ctx); err != nil {
			logger.Warnf("readiness check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
