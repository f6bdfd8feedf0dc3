package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/disintegration/imaging"

	"github.com/labelkit/zplview/internal/render"
)

// previewHandler renders posted markup to a label preview. The optional
// `scale` query parameter (0 < scale <= 1) downsamples PNG output for
// thumbnail use.
func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Set content length limit
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestMB*1024*1024)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeErrorResponse(w, "invalid_request", "Request body too large or unreadable", nil, http.StatusRequestEntityTooLarge)
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

	scale, err := parseScale(r.URL.Query().Get("scale"))
	if err != nil {
		s.writeErrorResponse(w, "invalid_request", err.Error(), nil, http.StatusBadRequest)
		return
	}

	renderReq := s.buildRenderRequest(req)

	ctx, cancel := context.WithTimeout(r.Context(), s.renderTimeout())
	defer cancel()

	start := time.Now()
	res, err := s.renderer.Render(ctx, renderReq)
	duration := time.Since(start)

	if err != nil {
		rerr := render.AsError(err)
		renderRequestsTotal.WithLabelValues("none", rerr.Kind.String()).Inc()
		s.writeRenderError(w, err)
		return
	}

	renderRequestsTotal.WithLabelValues(res.Source, "success").Inc()
	renderDuration.WithLabelValues(res.Source).Observe(duration.Seconds())

	payload := res.Bytes
	if scale < 1 && res.ContentType == "image/png" {
		payload, err = scalePNG(payload, scale)
		if err != nil {
			s.writeErrorResponse(w, "render_failure", "Failed to scale preview", nil, http.StatusInternalServerError)
			return
		}
	}
	previewSizeBytes.Observe(float64(len(payload)))

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("X-Render-Source", res.Source)
	_, _ = w.Write(payload)
}

// buildRenderRequest fills omitted preview parameters from the server
// defaults.
func (s *Server) buildRenderRequest(req PreviewRequest) render.Request {
	out := render.Request{
		Markup:       req.ZPL,
		WidthInches:  req.WidthInches,
		HeightInches: req.HeightInches,
		DPI:          req.DPI,
		Format:       req.Format,
	}
	if out.WidthInches == 0 {
		out.WidthInches = s.defaultWidthInches
	}
	if out.HeightInches == 0 {
		out.HeightInches = s.defaultHeightInches
	}
	if out.DPI == 0 {
		out.DPI = s.defaultDPI
	}
	return out
}

// parseScale validates the thumbnail scale parameter. An empty value means
// full size.
func parseScale(raw string) (float64, error) {
	if raw == "" {
		return 1, nil
	}
	scale, err := strconv.ParseFloat(raw, 64)
	if err != nil || scale <= 0 || scale > 1 {
		return 0, errBadScale
	}
	return scale, nil
}

var errBadScale = errors.New("scale must be a number in (0, 1]")

// scalePNG downsamples an encoded PNG by the given factor.
func scalePNG(data []byte, scale float64) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := int(math.Round(float64(bounds.Dx()) * scale))
	if width < 1 {
		width = 1
	}
	scaled := imaging.Resize(img, width, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
