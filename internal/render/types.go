// Package render exposes the label preview rendering contract: a request
// carrying markup and physical label dimensions, a normalized result, the
// four-kind error taxonomy, and the orchestrator that decides between the
// local interpreter and the remote rendering service.
package render

import (
	"fmt"
	"math"
	"strings"
)

// ErrorKind classifies every error this package surfaces. Nothing below
// the orchestrator leaks its own error types across the module boundary.
type ErrorKind int

const (
	// ErrMalformedOperand marks a bad numeric literal in the markup. This
	// is a caller bug, not a capability gap, and never triggers remote
	// fallback.
	ErrMalformedOperand ErrorKind = iota
	// ErrUnsupported marks a construct the local interpreter cannot
	// render. Triggers remote fallback in auto mode.
	ErrUnsupported
	// ErrRenderFailure marks an unexpected internal rasterization error.
	// Triggers remote fallback in auto mode.
	ErrRenderFailure
	// ErrRemoteUnavailable marks a transport error, timeout, or non-2xx
	// from the remote collaborator. Terminal.
	ErrRemoteUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case ErrMalformedOperand:
		return "malformed_operand"
	case ErrUnsupported:
		return "unsupported"
	case ErrRenderFailure:
		return "render_failure"
	case ErrRemoteUnavailable:
		return "remote_unavailable"
	default:
		return "unknown"
	}
}

// Error is the normalized render error returned across the module
// boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	// Missing lists unimplemented feature names for ErrUnsupported.
	Missing []string
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %s (missing: %s)", e.Kind, e.Message, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// AsError normalizes any error into an *Error, defaulting to
// ErrRenderFailure for errors that escaped internal conversion.
func AsError(err error) *Error {
	if rerr, ok := err.(*Error); ok { //nolint:errorlint // normalized errors are never wrapped
		return rerr
	}
	return &Error{Kind: ErrRenderFailure, Message: err.Error()}
}

// Output formats.
const (
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Supported DPI range for thermal label printers.
const (
	MinDPI = 152
	MaxDPI = 600
)

// Request describes one preview render. Requests are plain values; the
// renderers keep no state between calls, so concurrent requests are
// independent.
type Request struct {
	Markup       string
	WidthInches  float64
	HeightInches float64
	DPI          int
	// Format is png or pdf; empty means png.
	Format string
}

// Validate checks the physical parameters. Violations are caller bugs and
// are reported as ErrMalformedOperand.
func (r *Request) Validate() error {
	if r.WidthInches <= 0 || r.HeightInches <= 0 {
		return &Error{
			Kind:    ErrMalformedOperand,
			Message: fmt.Sprintf("label dimensions must be positive, got %gx%g", r.WidthInches, r.HeightInches),
		}
	}
	if r.DPI < MinDPI || r.DPI > MaxDPI {
		return &Error{
			Kind:    ErrMalformedOperand,
			Message: fmt.Sprintf("dpi %d outside supported range [%d, %d]", r.DPI, MinDPI, MaxDPI),
		}
	}
	switch r.Format {
	case "", FormatPNG, FormatPDF:
	default:
		return &Error{
			Kind:    ErrMalformedOperand,
			Message: fmt.Sprintf("unsupported output format %q", r.Format),
		}
	}
	return nil
}

// PixelSize returns the canvas dimensions for the request.
func (r *Request) PixelSize() (width, height int) {
	return int(math.Round(r.WidthInches * float64(r.DPI))),
		int(math.Round(r.HeightInches * float64(r.DPI)))
}

// Result is a successful render.
type Result struct {
	Bytes       []byte
	ContentType string
	// Source is "local" or "remote", for logging, metrics, and fallback
	// attribution.
	Source string
}

// Mode selects the rendering strategy.
type Mode int

const (
	// ModeAuto tries the local interpreter first and falls back to the
	// remote service exactly once on incapability or internal failure.
	ModeAuto Mode = iota
	// ModeLocal renders only with the local interpreter.
	ModeLocal
	// ModeRemote always delegates to the remote service.
	ModeRemote
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRemote:
		return "remote"
	default:
		return "auto"
	}
}

// ParseMode parses a configured rendering mode string.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return ModeLocal, nil
	case "remote":
		return ModeRemote, nil
	case "auto", "":
		return ModeAuto, nil
	default:
		return ModeAuto, fmt.Errorf("unknown rendering mode %q (want local, remote, or auto)", s)
	}
}
