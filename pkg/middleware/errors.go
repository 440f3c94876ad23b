package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moviereview/movie-api/pkg/logger"
)

// ErrorMapping renders errors matching Err (via errors.Is) with Status and Message.
type ErrorMapping struct {
	Err     error
	Status  int
	Message string
}

// InternalErrorMessage is the only detail a client sees for unmapped errors.
const InternalErrorMessage = "Internal server error"

// ErrorHandler renders the last error a handler attached with c.Error.
// Unmapped errors become a 500 with a generic message; the error itself is
// only logged.
func ErrorHandler(mappings ...ErrorMapping) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		for _, m := range mappings {
			if errors.Is(err, m.Err) {
				logger.Debugf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				c.JSON(m.Status, gin.H{"message": m.Message})
				return
			}
		}
		logger.Errorf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": InternalErrorMessage})
	}
}
