package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing")

func newErrorRouter(err error) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(ErrorMapping{Err: errMissing, Status: http.StatusNotFound, Message: "Thing not found"}))
	r.GET("/fail", func(c *gin.Context) { _ = c.Error(err) })
	r.GET("/written", func(c *gin.Context) {
		_ = c.Error(err)
		c.JSON(http.StatusTeapot, gin.H{"message": "handled"})
	})
	r.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func TestErrorHandler_MapsWrappedErrors(t *testing.T) {
	r := newErrorRouter(fmt.Errorf("get thing 42: %w", errMissing))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/fail", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"message":"Thing not found"}`, w.Body.String())
}

func TestErrorHandler_UnmappedIsOpaque500(t *testing.T) {
	r := newErrorRouter(errors.New("dial tcp 10.0.0.5:443: connection refused"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/fail", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
	require.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestErrorHandler_LeavesWrittenResponses(t *testing.T) {
	r := newErrorRouter(errMissing)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/written", nil))
	require.Equal(t, http.StatusTeapot, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
