package raster

import (
	"log/slog"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

// The preferred glyph source is the embedded Go Mono face. Parsing the TTF
// is done once per process; faces are built per render call so renders
// never share mutable face state.
var monoFont struct {
	once sync.Once
	font *opentype.Font
	err  error
}

func parsedMonoFont() (*opentype.Font, error) {
	monoFont.once.Do(func() {
		monoFont.font, monoFont.err = opentype.Parse(gomono.TTF)
	})
	return monoFont.font, monoFont.err
}

// newFace returns a monospace face sized to sizePx pixels. If the preferred
// face cannot be built it falls back to a built-in bitmap face instead of
// failing: text must never prevent a label from rendering.
func newFace(sizePx int) font.Face {
	if sizePx < 1 {
		sizePx = 1
	}
	f, err := parsedMonoFont()
	if err != nil {
		slog.Warn("falling back to bitmap font", "error", err)
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72, // with 72 dpi the point size equals the pixel size
		Hinting: font.HintingFull,
	})
	if err != nil {
		slog.Warn("falling back to bitmap font", "size_px", sizePx, "error", err)
		return basicfont.Face7x13
	}
	return face
}
