// Package testutil provides pixel-level assertions for rendered label
// previews.
package testutil

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// DecodePNG decodes PNG bytes, failing the test on malformed data.
func DecodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "failed to decode PNG")
	return img
}

// isInk reports whether a pixel is dark enough to count as printed output.
// Label renders are binary black-on-white, but the threshold tolerates
// anti-aliased glyph edges.
func isInk(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r < 0x8000 && g < 0x8000 && b < 0x8000
}

// CountInk counts dark pixels within r, clipped to the image bounds.
func CountInk(img image.Image, r image.Rectangle) int {
	r = r.Intersect(img.Bounds())
	count := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if isInk(img, x, y) {
				count++
			}
		}
	}
	return count
}

// HasInkNear reports whether any dark pixel exists within radius of (x, y).
func HasInkNear(img image.Image, x, y, radius int) bool {
	return CountInk(img, image.Rect(x-radius, y-radius, x+radius, y+radius)) > 0
}

// IsAllWhite reports whether the image contains no dark pixels at all.
func IsAllWhite(img image.Image) bool {
	return CountInk(img, img.Bounds()) == 0
}
