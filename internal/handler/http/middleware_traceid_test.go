package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisp/internal/logger"
	"whisp/internal/service"
)

func TestWithTraceID(t *testing.T) {
	handler := NewHandler(&service.Services{}, logger.Nop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("generates a trace id when the header is absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()

		handler.withTraceID(next).ServeHTTP(rec, req)

		assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
	})

	t.Run("echoes the inbound trace id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(traceIDHeader, "trace-123")
		rec := httptest.NewRecorder()

		handler.withTraceID(next).ServeHTTP(rec, req)

		assert.Equal(t, "trace-123", rec.Header().Get(traceIDHeader))
	})
}

func TestResponseWriter(t *testing.T) {
	t.Run("captures status and size", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := &responseWriter{ResponseWriter: rec}

		w.WriteHeader(http.StatusTeapot)
		n, err := w.Write([]byte("short and stout"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusTeapot, w.status)
		assert.Equal(t, n, w.size)
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("implicit 200 on write", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := &responseWriter{ResponseWriter: rec}

		_, err := w.Write([]byte("body"))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.status)
	})

	t.Run("second WriteHeader is ignored", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := &responseWriter{ResponseWriter: rec}

		w.WriteHeader(http.StatusAccepted)
		w.WriteHeader(http.StatusInternalServerError)

		assert.Equal(t, http.StatusAccepted, w.status)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})
}
