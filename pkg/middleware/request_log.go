package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moviereview/movie-api/pkg/logger"
	"github.com/moviereview/movie-api/pkg/metrics"
)

// RequestLogger logs one line per request and counts it in
// metrics.HTTPRequests. Routes are labelled by their pattern, not the raw
// path, to keep label cardinality bounded.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		logger.Infof("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
