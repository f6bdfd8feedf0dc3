package zpl

import "log/slog"

// PaintKind identifies a paint operation.
type PaintKind int

const (
	PaintText PaintKind = iota
	PaintBarcode
)

// PaintOp is a resolved placement of content on the label, in label dot
// coordinates. Ops are emitted in source order; later ops may overlap
// earlier ones and win pixel-for-pixel, matching how printers draw.
type PaintOp struct {
	Kind PaintKind
	X    int
	Y    int
	Text string

	// Text ops.
	FontHeight int // declared ^CF height in dots, not the pixel face size

	// Barcode ops.
	BarHeight      int
	ModuleWidth    int
	Interpretation bool
}

// Warning is a non-fatal note about a field the state machine skipped or
// adjusted. FieldIndex counts ^FO commands from zero.
type Warning struct {
	FieldIndex int
	Reason     string
}

// maxBarcodeLookahead bounds how many commands after a ^FO a ^BC may
// appear and still mark that field as a barcode field.
const maxBarcodeLookahead = 8

// renderState is the mutable interpreter state threaded through one
// BuildPaintOps call. A fresh instance is allocated per invocation, so
// concurrent renders never share state.
type renderState struct {
	cursorX     int
	cursorY     int
	fontHeight  int
	moduleWidth int

	fieldOpen        bool
	fieldIndex       int
	fieldHasData     bool
	sinceFieldOrigin int
	pendingBarcode   *Command
}

// BuildPaintOps consumes a command sequence and emits the ordered paint
// operations plus any non-fatal warnings. It never fails: malformed or
// orphaned constructs are skipped with a warning and interpretation
// continues with the next field.
func BuildPaintOps(cmds []Command) ([]PaintOp, []Warning) {
	st := renderState{
		fontHeight:  DefaultFontHeight,
		moduleWidth: DefaultModuleWidth,
		fieldIndex:  -1,
	}

	var ops []PaintOp
	var warnings []Warning

	for _, cmd := range cmds {
		if st.fieldOpen {
			st.sinceFieldOrigin++
		}

		switch cmd.Kind {
		case KindFieldOrigin:
			st.cursorX, st.cursorY = cmd.X, cmd.Y
			st.fieldOpen = true
			st.fieldIndex++
			st.fieldHasData = false
			st.sinceFieldOrigin = 0
			st.pendingBarcode = nil

		case KindChangeFont:
			// Running global setting; persists across fields.
			if cmd.FontHeight > 0 {
				st.fontHeight = cmd.FontHeight
			}

		case KindModuleWidth:
			if cmd.Width > 0 {
				st.moduleWidth = cmd.Width
			}

		case KindBarcode:
			if !st.fieldOpen || st.fieldHasData {
				warnings = append(warnings, Warning{
					FieldIndex: st.fieldIndex,
					Reason:     "barcode spec outside an open field",
				})
				break
			}
			if st.sinceFieldOrigin > maxBarcodeLookahead {
				warnings = append(warnings, Warning{
					FieldIndex: st.fieldIndex,
					Reason:     "barcode spec too far from field origin",
				})
				break
			}
			spec := cmd
			st.pendingBarcode = &spec

		case KindFieldData:
			if !st.fieldOpen {
				warnings = append(warnings, Warning{
					FieldIndex: st.fieldIndex,
					Reason:     "field data before any field origin",
				})
				break
			}
			st.fieldHasData = true
			if cmd.Text == "" {
				// Blank field: renders as nothing on real hardware.
				break
			}
			if op, ok := st.emit(cmd.Text); ok {
				ops = append(ops, op)
			}

		case KindFieldSeparator:
			st.fieldOpen = false
			st.pendingBarcode = nil

		case KindLabelStart, KindLabelEnd, KindComment:
			// No effect on paint state.

		case KindUnknown:
			slog.Debug("ignoring unsupported command", "raw", cmd.Text)
		}
	}

	return ops, warnings
}

// emit builds the paint op for field data at the current cursor, as a
// barcode if a spec is pending for this field and as text otherwise.
func (st *renderState) emit(text string) (PaintOp, bool) {
	if spec := st.pendingBarcode; spec != nil {
		st.pendingBarcode = nil
		height := spec.BarHeight
		if height <= 0 {
			height = DefaultBarHeight
		}
		return PaintOp{
			Kind:           PaintBarcode,
			X:              st.cursorX,
			Y:              st.cursorY,
			Text:           text,
			BarHeight:      height,
			ModuleWidth:    st.moduleWidth,
			Interpretation: spec.Interpretation,
		}, true
	}
	return PaintOp{
		Kind:       PaintText,
		X:          st.cursorX,
		Y:          st.cursorY,
		Text:       text,
		FontHeight: st.fontHeight,
	}, true
}
