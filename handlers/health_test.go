package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ready(context.Context) error { return p.err }

func TestHealthIsStatic(t *testing.T) {
	g := gin.New()
	RegisterHealth(g, pinger{err: errors.New("store unavailable")}, time.Second)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReady(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{nil, http.StatusOK, `{"status":"ready"}`},
		{errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, `{"status":"not_ready"}`},
	}
	for _, tc := range cases {
		g := gin.New()
		RegisterHealth(g, pinger{err: tc.err}, time.Second)

		w := httptest.NewRecorder()
		g.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))
		require.Equal(t, tc.code, w.Code)
		require.JSONEq(t, tc.body, w.Body.String())
	}
}
