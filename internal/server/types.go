package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labelkit/zplview/internal/render"
)

// rendererInterface defines the methods needed by the server from a renderer.
type rendererInterface interface {
	Render(ctx context.Context, req render.Request) (*render.Result, error)
	Mode() render.Mode
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	renderer     rendererInterface
	corsOrigin   string
	maxRequestMB int64
	timeoutSec   int

	// Defaults applied to preview requests that omit label parameters.
	defaultDPI          int
	defaultWidthInches  float64
	defaultHeightInches float64
}

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	CORSOrigin   string
	MaxRequestMB int64
	TimeoutSec   int

	DefaultDPI          int
	DefaultWidthInches  float64
	DefaultHeightInches float64
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Mode    string `json:"mode"`
	Time    string `json:"time"`
}

type CapabilitiesResponse struct {
	Commands    []string `json:"commands"`
	Limitations []string `json:"limitations"`
	MinDPI      int      `json:"min_dpi"`
	MaxDPI      int      `json:"max_dpi"`
	Formats     []string `json:"formats"`
}

// PreviewRequest is the JSON body of a preview render request. Omitted
// label parameters take the server defaults.
type PreviewRequest struct {
	ZPL          string  `json:"zpl"`
	WidthInches  float64 `json:"width_inches,omitempty"`
	HeightInches float64 `json:"height_inches,omitempty"`
	DPI          int     `json:"dpi,omitempty"`
	Format       string  `json:"format,omitempty"`
}

type ClassifyResponse struct {
	Supported bool     `json:"supported"`
	Missing   []string `json:"missing,omitempty"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

// NewServer creates a new preview server instance around a renderer.
func NewServer(config Config, renderer rendererInterface) *Server {
	return &Server{
		renderer:            renderer,
		corsOrigin:          config.CORSOrigin,
		maxRequestMB:        config.MaxRequestMB,
		timeoutSec:          config.TimeoutSec,
		defaultDPI:          config.DefaultDPI,
		defaultWidthInches:  config.DefaultWidthInches,
		defaultHeightInches: config.DefaultHeightInches,
	}
}

// renderTimeout bounds a single render, leaving headroom below the outer
// HTTP timeout.
func (s *Server) renderTimeout() time.Duration {
	if s.timeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.timeoutSec) * time.Second
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/capabilities", s.corsMiddleware(s.capabilitiesHandler))
	mux.HandleFunc("/classify", s.corsMiddleware(s.classifyHandler))
	mux.HandleFunc("/preview", s.corsMiddleware(s.previewHandler))
	mux.HandleFunc("/preview/live", s.livePreviewHandler)
}
