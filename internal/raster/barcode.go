package raster

import (
	"image"

	"golang.org/x/image/font"

	"github.com/labelkit/zplview/internal/zpl"
)

// interpretationGap is the fixed offset in dots between the bars and the
// human-readable line beneath them.
const interpretationGap = 5

// interpretationFontPx is the pixel size of the human-readable line.
const interpretationFontPx = 20

// drawBarcode renders a deterministic Code 128-style bar pattern for the
// payload. This is a visual placeholder, NOT a standards-compliant
// symbology: fixed start and stop bars frame one bar per payload character,
// wide (two modules) for even character codes and narrow (one module) for
// odd ones. The result is not scannable and callers are told so via the
// capability report.
func drawBarcode(dst *image.RGBA, op zpl.PaintOp) {
	w := op.ModuleWidth
	if w < 1 {
		w = zpl.DefaultModuleWidth
	}
	x, y, h := op.X, op.Y, op.BarHeight

	// Start bar.
	cur := x
	fillRect(dst, image.Rect(cur, y, cur+w, y+h))
	cur += 2 * w

	for _, ch := range op.Text {
		if ch%2 == 0 {
			fillRect(dst, image.Rect(cur, y, cur+2*w, y+h))
			cur += 3 * w
		} else {
			fillRect(dst, image.Rect(cur, y, cur+w, y+h))
			cur += 2 * w
		}
	}

	// Stop bar.
	fillRect(dst, image.Rect(cur, y, cur+w, y+h))
	cur += 2 * w

	if op.Interpretation {
		drawInterpretationLine(dst, x, cur, y+h+interpretationGap, op.Text)
	}
}

// drawInterpretationLine centers the payload text under the bar span
// [left, right).
func drawInterpretationLine(dst *image.RGBA, left, right, top int, text string) {
	face := newFace(interpretationFontPx)
	width := font.MeasureString(face, text).Ceil()
	x := left + ((right-left)-width)/2
	drawText(dst, x, top, text, interpretationFontPx)
}

// BarSpanWidth reports the total width in dots of the bar pattern drawn for
// a payload at the given module width, used for layout tests and preview
// metadata.
func BarSpanWidth(payload string, moduleWidth int) int {
	if moduleWidth < 1 {
		moduleWidth = zpl.DefaultModuleWidth
	}
	width := 2 * moduleWidth // start bar and gap
	for _, ch := range payload {
		if ch%2 == 0 {
			width += 3 * moduleWidth
		} else {
			width += 2 * moduleWidth
		}
	}
	width += 2 * moduleWidth // stop bar and gap
	return width
}
