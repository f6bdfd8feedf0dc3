package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelkit/zplview/internal/render"
)

// dialLivePreview connects a test client to a live preview server.
func dialLivePreview(t *testing.T, server *Server) *websocket.Conn {
	t.Helper()

	mux := http.NewServeMux()
	server.SetupRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/preview/live"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestServer_LivePreview_Render(t *testing.T) {
	pngData := []byte("\x89PNG fake payload")
	stub := &stubRenderer{result: &render.Result{
		Bytes:       pngData,
		ContentType: "image/png",
		Source:      "local",
	}}
	conn := dialLivePreview(t, newTestServer(stub))

	require.NoError(t, conn.WriteJSON(PreviewRequest{ZPL: "^XA^FO50,50^FDHello^FS^XZ"}))

	var response LivePreviewResponse
	require.NoError(t, conn.ReadJSON(&response))

	assert.Equal(t, "completed", response.Status)
	assert.Equal(t, pngData, response.Image)
	assert.Equal(t, "image/png", response.ContentType)
	assert.Equal(t, "local", response.Source)
	assert.NotEmpty(t, response.RequestID)
}

func TestServer_LivePreview_RenderError(t *testing.T) {
	stub := &stubRenderer{err: &render.Error{
		Kind:    render.ErrUnsupported,
		Message: "cannot render locally",
		Missing: []string{"graphic-field"},
	}}
	conn := dialLivePreview(t, newTestServer(stub))

	require.NoError(t, conn.WriteJSON(PreviewRequest{ZPL: "^XA^GFA,...^XZ"}))

	var response LivePreviewResponse
	require.NoError(t, conn.ReadJSON(&response))

	assert.Equal(t, "error", response.Status)
	assert.Equal(t, "unsupported", response.ErrorType)
	assert.Equal(t, "cannot render locally", response.Error)
	assert.Equal(t, []string{"graphic-field"}, response.Missing)
}

func TestServer_LivePreview_BadMessages(t *testing.T) {
	stub := &stubRenderer{result: &render.Result{
		Bytes:       []byte("ok"),
		ContentType: "image/png",
		Source:      "local",
	}}
	conn := dialLivePreview(t, newTestServer(stub))

	tests := []struct {
		name    string
		payload string
	}{
		{"invalid json", "{not json"},
		{"empty markup", `{"zpl": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)))

			var response LivePreviewResponse
			require.NoError(t, conn.ReadJSON(&response))
			assert.Equal(t, "error", response.Status)
			assert.Equal(t, "invalid_request", response.ErrorType)
		})
	}

	// Connection survives bad messages.
	require.NoError(t, conn.WriteJSON(PreviewRequest{ZPL: "^XA^XZ"}))
	var response LivePreviewResponse
	require.NoError(t, conn.ReadJSON(&response))
	assert.Equal(t, "completed", response.Status)
}

func TestWebSocketUpgrader(t *testing.T) {
	t.Run("check origin allows any origin", func(t *testing.T) {
		allowed := upgrader.CheckOrigin(&http.Request{
			Header: http.Header{
				"Origin": []string{"http://example.com"},
			},
		})
		assert.True(t, allowed)
	})

	t.Run("buffer sizes", func(t *testing.T) {
		assert.Equal(t, 1024, upgrader.ReadBufferSize)
		assert.Equal(t, 1024, upgrader.WriteBufferSize)
	})
}
