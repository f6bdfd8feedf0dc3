package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/labelkit/zplview/internal/render"
	"github.com/labelkit/zplview/internal/version"
	"github.com/labelkit/zplview/internal/zpl"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Mode:    s.renderer.Mode().String(),
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// capabilitiesHandler reports what the local interpreter implements, so
// clients can decide whether to request local-only rendering.
func (s *Server) capabilitiesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := CapabilitiesResponse{
		Commands:    zpl.SupportedCommands(),
		Limitations: zpl.Limitations(),
		MinDPI:      render.MinDPI,
		MaxDPI:      render.MaxDPI,
		Formats:     []string{render.FormatPNG, render.FormatPDF},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding capabilities response: %v\n", err)
	}
}

// classifyHandler runs the capability pre-check over posted markup without
// rendering it.
func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestMB*1024*1024)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeErrorResponse(w, "invalid_request", "Failed to read request body", nil, http.StatusBadRequest)
		return
	}

	var req PreviewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeErrorResponse(w, "invalid_request", "Invalid JSON body", nil, http.StatusBadRequest)
		return
	}
	if req.ZPL == "" {
		s.writeErrorResponse(w, "invalid_request", "No markup provided", nil, http.StatusBadRequest)
		return
	}

	verdict := zpl.Classify(req.ZPL)
	response := ClassifyResponse{
		Supported: verdict.Supported,
		Missing:   verdict.Missing,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding classify response: %v\n", err)
	}
}

// statusForKind maps the render error taxonomy to HTTP status codes.
func statusForKind(kind render.ErrorKind) int {
	switch kind {
	case render.ErrMalformedOperand:
		return http.StatusBadRequest
	case render.ErrUnsupported:
		return http.StatusUnprocessableEntity
	case render.ErrRemoteUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeRenderError writes a render error using the taxonomy's kind as the
// machine-readable error field.
func (s *Server) writeRenderError(w http.ResponseWriter, err error) {
	rerr := render.AsError(err)
	s.writeErrorResponse(w, rerr.Kind.String(), rerr.Message, rerr.Missing, statusForKind(rerr.Kind))
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, errorType, message string, missing []string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   errorType,
		Message: message,
		Missing: missing,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
