package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultRemoteTimeout bounds the single outbound call so interactive
// preview callers get a hard latency ceiling.
const DefaultRemoteTimeout = 10 * time.Second

// maxRemoteResponseBytes caps how much of a remote response is read.
const maxRemoteResponseBytes = 32 << 20

// dpmmByDPI maps the printer densities to the dots-per-millimeter values
// the remote service addresses printers by.
var dpmmByDPI = map[int]int{
	152: 6,
	203: 8,
	300: 12,
	600: 24,
}

// Remote delegates rendering to a Labelary-style HTTP service.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote creates a remote renderer. timeout <= 0 selects
// DefaultRemoteTimeout.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// dpmmFor returns the service density closest to the requested DPI, so
// in-range DPIs without an exact mapping still render.
func dpmmFor(dpi int) int {
	if dpmm, ok := dpmmByDPI[dpi]; ok {
		return dpmm
	}
	best, bestDiff := 8, int(^uint(0)>>1)
	for d, dpmm := range dpmmByDPI {
		diff := d - dpi
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = dpmm, diff
		}
	}
	return best
}

// Render posts the raw markup to the remote service. Any transport error,
// timeout, cancellation, or non-2xx response is reported uniformly as
// ErrRemoteUnavailable.
func (r *Remote) Render(ctx context.Context, req Request) (*Result, error) {
	url := fmt.Sprintf("%s/v1/printers/%ddpmm/labels/%gx%g/0/",
		r.baseURL, dpmmFor(req.DPI), req.WidthInches, req.HeightInches)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(req.Markup))
	if err != nil {
		return nil, &Error{Kind: ErrRemoteUnavailable, Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	accept := "image/png"
	if req.Format == FormatPDF {
		accept = "application/pdf"
	}
	httpReq.Header.Set("Accept", accept)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: ErrRemoteUnavailable, Message: fmt.Sprintf("remote render request failed: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteResponseBytes))
	if err != nil {
		return nil, &Error{Kind: ErrRemoteUnavailable, Message: fmt.Sprintf("reading remote response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, &Error{
			Kind:    ErrRemoteUnavailable,
			Message: fmt.Sprintf("remote render returned %d: %s", resp.StatusCode, msg),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = accept
	}

	// Tag remote PNGs with the requested density, like local ones. Best
	// effort: on failure the untouched bytes are returned.
	if req.Format != FormatPDF {
		if tagged, err := withDPIMetadata(body, req.DPI); err == nil {
			body = tagged
		} else {
			slog.Debug("could not add DPI metadata to remote image", "error", err)
		}
	}

	slog.Debug("rendered label remotely", "url", url, "bytes", len(body))
	return &Result{Bytes: body, ContentType: contentType, Source: "remote"}, nil
}
