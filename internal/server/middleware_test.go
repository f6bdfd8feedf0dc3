package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServer_CORSMiddleware(t *testing.T) {
	server := newTestServer(&stubRenderer{})

	handler := server.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("headers set and handler invoked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/preview", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/preview", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("configured origin propagates", func(t *testing.T) {
		restricted := NewServer(Config{CORSOrigin: "https://labels.example.com"}, &stubRenderer{})
		h := restricted.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		h(w, req)

		assert.Equal(t, "https://labels.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestResponseWriter_CapturesStatusCode(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusBadGateway)

	assert.Equal(t, http.StatusBadGateway, rw.statusCode)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestServer_SetupRoutes(t *testing.T) {
	server := newTestServer(&stubRenderer{})
	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
