package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelkit/zplview/internal/raster"
)

// stubRenderer returns a canned outcome and counts invocations.
type stubRenderer struct {
	res   *Result
	err   error
	calls atomic.Int32
}

func (s *stubRenderer) Render(ctx context.Context, req Request) (*Result, error) {
	s.calls.Add(1)
	return s.res, s.err
}

func okResult(source string) *Result {
	return &Result{Bytes: []byte("img"), ContentType: "image/png", Source: source}
}

func TestOrchestrator_LocalMode(t *testing.T) {
	t.Run("success stays local", func(t *testing.T) {
		local := &stubRenderer{res: okResult("local")}
		remote := &stubRenderer{res: okResult("remote")}
		o := NewOrchestrator(ModeLocal, local, remote)

		res, err := o.Render(context.Background(), testRequest("^XA^XZ"))
		require.NoError(t, err)
		assert.Equal(t, "local", res.Source)
		assert.Equal(t, int32(0), remote.calls.Load())
	})

	t.Run("unsupported does not try remote", func(t *testing.T) {
		local := &stubRenderer{err: &Error{Kind: ErrUnsupported, Missing: []string{"graphic-field"}}}
		remote := &stubRenderer{res: okResult("remote")}
		o := NewOrchestrator(ModeLocal, local, remote)

		_, err := o.Render(context.Background(), testRequest("^XA^GF^XZ"))
		require.Error(t, err)
		assert.Equal(t, ErrUnsupported, AsError(err).Kind)
		assert.Equal(t, []string{"graphic-field"}, AsError(err).Missing)
		assert.Equal(t, int32(0), remote.calls.Load())
	})
}

func TestOrchestrator_RemoteMode(t *testing.T) {
	local := &stubRenderer{res: okResult("local")}
	remote := &stubRenderer{res: okResult("remote")}
	o := NewOrchestrator(ModeRemote, local, remote)

	res, err := o.Render(context.Background(), testRequest("^XA^XZ"))
	require.NoError(t, err)
	assert.Equal(t, "remote", res.Source)
	assert.Equal(t, int32(0), local.calls.Load())
}

func TestOrchestrator_AutoFallback(t *testing.T) {
	tests := []struct {
		name     string
		localErr *Error
	}{
		{"unsupported falls back", &Error{Kind: ErrUnsupported, Missing: []string{"image-move"}}},
		{"render failure falls back", &Error{Kind: ErrRenderFailure, Message: "boom"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &stubRenderer{err: tt.localErr}
			remote := &stubRenderer{res: okResult("remote")}
			o := NewOrchestrator(ModeAuto, local, remote)

			res, err := o.Render(context.Background(), testRequest("^XA^XZ"))
			require.NoError(t, err)
			assert.Equal(t, "remote", res.Source)
			assert.Equal(t, int32(1), local.calls.Load())
			assert.Equal(t, int32(1), remote.calls.Load())
		})
	}
}

func TestOrchestrator_AutoMalformedOperandDoesNotFallBack(t *testing.T) {
	local := &stubRenderer{err: &Error{Kind: ErrMalformedOperand, Message: "bad x"}}
	remote := &stubRenderer{res: okResult("remote")}
	o := NewOrchestrator(ModeAuto, local, remote)

	_, err := o.Render(context.Background(), testRequest("^XA^FOx,1^XZ"))
	require.Error(t, err)
	assert.Equal(t, ErrMalformedOperand, AsError(err).Kind)
	assert.Equal(t, int32(0), remote.calls.Load(), "caller bugs must not hit the remote")
}

func TestOrchestrator_AutoRemoteErrorWins(t *testing.T) {
	// When both paths fail, the remote error is the more informative one.
	local := &stubRenderer{err: &Error{Kind: ErrUnsupported, Missing: []string{"graphic-box"}}}
	remote := &stubRenderer{err: &Error{Kind: ErrRemoteUnavailable, Message: "503 from upstream"}}
	o := NewOrchestrator(ModeAuto, local, remote)

	_, err := o.Render(context.Background(), testRequest("^XA^GB^XZ"))
	require.Error(t, err)

	rerr := AsError(err)
	assert.Equal(t, ErrRemoteUnavailable, rerr.Kind)
	assert.Contains(t, rerr.Message, "503")
	assert.Equal(t, int32(1), remote.calls.Load(), "exactly one fallback attempt")
}

func TestOrchestrator_InvalidRequestRejectedBeforeAnyPath(t *testing.T) {
	local := &stubRenderer{res: okResult("local")}
	remote := &stubRenderer{res: okResult("remote")}
	o := NewOrchestrator(ModeAuto, local, remote)

	tests := []struct {
		name string
		req  Request
	}{
		{"zero width", Request{Markup: "^XA^XZ", HeightInches: 6, DPI: 203}},
		{"negative height", Request{Markup: "^XA^XZ", WidthInches: 4, HeightInches: -1, DPI: 203}},
		{"dpi too low", Request{Markup: "^XA^XZ", WidthInches: 4, HeightInches: 6, DPI: 72}},
		{"dpi too high", Request{Markup: "^XA^XZ", WidthInches: 4, HeightInches: 6, DPI: 1200}},
		{"bad format", Request{Markup: "^XA^XZ", WidthInches: 4, HeightInches: 6, DPI: 203, Format: "bmp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Render(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, ErrMalformedOperand, AsError(err).Kind)
		})
	}
	assert.Equal(t, int32(0), local.calls.Load())
	assert.Equal(t, int32(0), remote.calls.Load())
}

// End-to-end over real local and remote paths: spec scenario where the
// markup needs an unimplemented opcode and the remote succeeds.
func TestOrchestrator_AutoEndToEndFallback(t *testing.T) {
	var remoteCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteCalls.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("remote-bytes"))
	}))
	defer srv.Close()

	o := NewOrchestrator(ModeAuto,
		NewLocal(raster.DefaultConfig()),
		NewRemote(srv.URL, time.Second))

	res, err := o.Render(context.Background(), testRequest("^XA^FO0,0^GFA,1,1,1,x^FS^XZ"))
	require.NoError(t, err)
	assert.Equal(t, "remote", res.Source)
	assert.Equal(t, []byte("remote-bytes"), res.Bytes)
	assert.Equal(t, int32(1), remoteCalls.Load())
}

// Supported markup in auto mode must never touch the network.
func TestOrchestrator_AutoLocalSuccessSkipsRemote(t *testing.T) {
	var remoteCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteCalls.Add(1)
	}))
	defer srv.Close()

	o := NewOrchestrator(ModeAuto,
		NewLocal(raster.DefaultConfig()),
		NewRemote(srv.URL, time.Second))

	res, err := o.Render(context.Background(), testRequest("^XA^FO50,50^FDTest^FS^XZ"))
	require.NoError(t, err)
	assert.Equal(t, "local", res.Source)
	assert.Equal(t, int32(0), remoteCalls.Load())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"local", ModeLocal, false},
		{"remote", ModeRemote, false},
		{"auto", ModeAuto, false},
		{"AUTO", ModeAuto, false},
		{" Local ", ModeLocal, false},
		{"", ModeAuto, false},
		{"hybrid", ModeAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
