package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/labelkit/zplview/internal/render"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// LivePreviewResponse is the reply to one live preview message. Image data
// travels base64-encoded through the JSON []byte marshaling.
type LivePreviewResponse struct {
	Status      string   `json:"status"` // "completed" or "error"
	Image       []byte   `json:"image,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
	Source      string   `json:"source,omitempty"`
	Error       string   `json:"error,omitempty"`
	ErrorType   string   `json:"error_type,omitempty"`
	Missing     []string `json:"missing,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
}

// livePreviewHandler upgrades the connection and renders each incoming
// markup message, so editors can re-render on every keystroke.
func (s *Server) livePreviewHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("Live preview connection established", "remote_addr", r.RemoteAddr)

	s.handleLivePreviewConnection(r.Context(), conn)
}

// handleLivePreviewConnection processes messages from a live preview
// connection.
func (s *Server) handleLivePreviewConnection(ctx context.Context, conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleLivePreviewMessage(ctx, conn, data)
		}
	}
}

// handleLivePreviewMessage renders one preview request from a WebSocket
// message.
func (s *Server) handleLivePreviewMessage(ctx context.Context, conn *websocket.Conn, data []byte) {
	var req PreviewRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendLivePreviewError(conn, "invalid_request", "Failed to parse request: "+err.Error(), nil, "")
		return
	}

	// Request ID for correlating responses to rapid-fire edits
	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	if req.ZPL == "" {
		s.sendLivePreviewError(conn, "invalid_request", "No markup provided", nil, requestID)
		return
	}

	renderCtx, cancel := context.WithTimeout(ctx, s.renderTimeout())
	defer cancel()

	start := time.Now()
	res, err := s.renderer.Render(renderCtx, s.buildRenderRequest(req))
	duration := time.Since(start)

	if err != nil {
		rerr := render.AsError(err)
		renderRequestsTotal.WithLabelValues("none", rerr.Kind.String()).Inc()
		s.sendLivePreviewError(conn, rerr.Kind.String(), rerr.Message, rerr.Missing, requestID)
		return
	}

	renderRequestsTotal.WithLabelValues(res.Source, "success").Inc()
	renderDuration.WithLabelValues(res.Source).Observe(duration.Seconds())
	previewSizeBytes.Observe(float64(len(res.Bytes)))

	s.sendLivePreviewResponse(conn, LivePreviewResponse{
		Status:      "completed",
		Image:       res.Bytes,
		ContentType: res.ContentType,
		Source:      res.Source,
		RequestID:   requestID,
	})
}

// sendLivePreviewResponse sends a response message over WebSocket.
func (s *Server) sendLivePreviewResponse(conn *websocket.Conn, response LivePreviewResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendLivePreviewError sends an error message over WebSocket.
func (s *Server) sendLivePreviewError(conn *websocket.Conn, errorType, message string, missing []string, requestID string) {
	s.sendLivePreviewResponse(conn, LivePreviewResponse{
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
		Missing:   missing,
		RequestID: requestID,
	})
}
