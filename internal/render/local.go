package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"

	"github.com/labelkit/zplview/internal/raster"
	"github.com/labelkit/zplview/internal/zpl"
)

// Local renders previews with the built-in ZPL interpreter. It holds only
// immutable calibration; all per-render state is allocated per call, so a
// single Local is safe for concurrent use.
type Local struct {
	cfg raster.Config
}

// NewLocal creates a local renderer with the given calibration.
func NewLocal(cfg raster.Config) *Local {
	return &Local{cfg: cfg}
}

// Render runs classifier -> lexer -> state machine -> rasterizer -> PNG
// encode and returns normalized results. An Unsupported verdict is returned
// before any interpretation work happens.
func (l *Local) Render(ctx context.Context, req Request) (res *Result, err error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: ErrRenderFailure, Message: err.Error()}
	}

	if v := zpl.Classify(req.Markup); !v.Supported {
		return nil, &Error{
			Kind:    ErrUnsupported,
			Message: "markup uses features the local renderer does not implement",
			Missing: v.Missing,
		}
	}

	// The rasterizer is trusted not to panic, but a render must never take
	// the caller down: anything unexpected becomes a RenderFailure.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("local render panicked", "panic", r)
			res, err = nil, &Error{Kind: ErrRenderFailure, Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	cmds, err := zpl.Lex(req.Markup)
	if err != nil {
		var serr *zpl.SyntaxError
		if errors.As(err, &serr) {
			return nil, &Error{Kind: ErrMalformedOperand, Message: serr.Error()}
		}
		return nil, &Error{Kind: ErrRenderFailure, Message: err.Error()}
	}

	ops, warnings := zpl.BuildPaintOps(cmds)
	for _, w := range warnings {
		slog.Debug("skipped malformed field", "field", w.FieldIndex, "reason", w.Reason)
	}

	widthPx, heightPx := req.PixelSize()
	img := raster.Render(ops, widthPx, heightPx, l.cfg)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, &Error{Kind: ErrRenderFailure, Message: fmt.Sprintf("encoding PNG: %v", err)}
	}

	data := buf.Bytes()
	if tagged, err := withDPIMetadata(data, req.DPI); err != nil {
		// Density metadata is best effort; the pixels are already correct.
		slog.Warn("failed to add DPI metadata", "error", err)
	} else {
		data = tagged
	}

	if req.Format == FormatPDF {
		pdfBytes, err := wrapPDF(data)
		if err != nil {
			return nil, &Error{Kind: ErrRenderFailure, Message: err.Error()}
		}
		return &Result{Bytes: pdfBytes, ContentType: "application/pdf", Source: "local"}, nil
	}

	slog.Debug("rendered label locally",
		"width_px", widthPx, "height_px", heightPx, "ops", len(ops), "bytes", len(data))
	return &Result{Bytes: data, ContentType: "image/png", Source: "local"}, nil
}
