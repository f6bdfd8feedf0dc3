package render

import (
	"context"
	"log/slog"
)

// Renderer is the contract shared by the local and remote paths so the
// orchestrator can treat them uniformly.
type Renderer interface {
	Render(ctx context.Context, req Request) (*Result, error)
}

// Orchestrator selects local vs. remote rendering per configured mode and
// applies the local-to-remote fallback policy. It holds no per-render
// state and performs at most one outbound call per invocation; it never
// caches.
type Orchestrator struct {
	mode   Mode
	local  Renderer
	remote Renderer
}

// NewOrchestrator wires the configured mode to the two rendering paths.
func NewOrchestrator(mode Mode, local, remote Renderer) *Orchestrator {
	return &Orchestrator{mode: mode, local: local, remote: remote}
}

// Mode reports the configured rendering mode.
func (o *Orchestrator) Mode() Mode {
	return o.mode
}

// Render executes one preview render:
//
//   - local: local interpreter only; an Unsupported verdict is returned
//     immediately with no remote attempt.
//   - remote: remote service only.
//   - auto: local first; Unsupported or RenderFailure triggers exactly one
//     remote attempt, and a remote failure after fallback is surfaced in
//     place of the local one (it is the more informative error, since local
//     incapability is common). MalformedOperand never falls back: the
//     markup is broken and the remote would reject it too.
func (o *Orchestrator) Render(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Format == "" {
		req.Format = FormatPNG
	}

	switch o.mode {
	case ModeLocal:
		return normalize(o.local.Render(ctx, req))
	case ModeRemote:
		return normalize(o.remote.Render(ctx, req))
	default:
		res, err := o.local.Render(ctx, req)
		if err == nil {
			return res, nil
		}
		rerr := AsError(err)
		if rerr.Kind == ErrMalformedOperand {
			return nil, rerr
		}
		slog.Info("local render failed, falling back to remote",
			"kind", rerr.Kind.String(), "error", rerr.Message)
		return normalize(o.remote.Render(ctx, req))
	}
}

// normalize guarantees the error half of a render outcome carries the
// boundary taxonomy even if a Renderer implementation returned a bare
// error.
func normalize(res *Result, err error) (*Result, error) {
	if err != nil {
		return nil, AsError(err)
	}
	return res, nil
}
