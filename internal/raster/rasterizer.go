// Package raster turns resolved paint operations into label pixel buffers.
// Output matches thermal-printer behavior: solid white background, solid
// black foreground, no anti-aliasing of barcode bars, and silent clipping
// of anything positioned outside the canvas.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/labelkit/zplview/internal/zpl"
)

// Config holds rendering calibration. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// FontScaleDivisor converts a declared ^CF height in dots to a pixel
	// face size (pixel = height / divisor). The default of 2 approximates
	// Zebra's dot metrics and has no documented derivation; tune it against
	// real printed output rather than trusting it.
	FontScaleDivisor int
}

// DefaultConfig returns the default rendering calibration.
func DefaultConfig() Config {
	return Config{FontScaleDivisor: 2}
}

// Render paints the ordered op sequence onto a fresh white canvas of the
// given pixel dimensions. All op coordinates are already in the label's dot
// space; no scaling is applied here. Ops are drawn in sequence, so later
// ops overwrite earlier pixels.
func Render(ops []zpl.PaintOp, widthPx, heightPx int, cfg Config) *image.RGBA {
	if cfg.FontScaleDivisor < 1 {
		cfg.FontScaleDivisor = DefaultConfig().FontScaleDivisor
	}

	img := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, op := range ops {
		switch op.Kind {
		case zpl.PaintText:
			drawText(img, op.X, op.Y, op.Text, op.FontHeight/cfg.FontScaleDivisor)
		case zpl.PaintBarcode:
			drawBarcode(img, op)
		}
	}
	return img
}

// drawText draws text with its top-left corner at (x, y), the ZPL field
// origin convention. The font drawer clips glyphs to the destination
// bounds, so out-of-canvas text is silently cropped.
func drawText(dst *image.RGBA, x, y int, text string, sizePx int) {
	face := newFace(sizePx)
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		// The drawer positions text by baseline; shift down by the ascent
		// so (x, y) is the glyph box's top-left.
		Dot: fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
}

// fillRect paints a solid black rectangle clipped to the canvas.
func fillRect(dst *image.RGBA, r image.Rectangle) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
}
