package zpl

// CommandKind identifies a parsed ZPL command.
type CommandKind int

const (
	KindUnknown CommandKind = iota
	KindLabelStart
	KindLabelEnd
	KindFieldOrigin
	KindFieldData
	KindFieldSeparator
	KindChangeFont
	KindBarcode
	KindModuleWidth
	KindComment
)

// String returns the opcode-style name of the command kind.
func (k CommandKind) String() string {
	switch k {
	case KindLabelStart:
		return "LabelStart"
	case KindLabelEnd:
		return "LabelEnd"
	case KindFieldOrigin:
		return "FieldOrigin"
	case KindFieldData:
		return "FieldData"
	case KindFieldSeparator:
		return "FieldSeparator"
	case KindChangeFont:
		return "ChangeFont"
	case KindBarcode:
		return "Barcode"
	case KindModuleWidth:
		return "ModuleWidth"
	case KindComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Command is a single parsed ZPL command. Only the fields relevant to the
// command's Kind are populated; a Command is immutable once produced by the
// lexer.
type Command struct {
	Kind CommandKind

	// FieldOrigin operands (label dot coordinates).
	X int
	Y int

	// FieldData payload, Comment text, or the raw text of an Unknown
	// command (including the leading caret and opcode).
	Text string

	// ChangeFont operands.
	FontName   byte
	FontHeight int
	FontWidth  int // 0 when the optional width operand is omitted

	// Barcode operands.
	Orientation    byte
	BarHeight      int
	Interpretation bool

	// ModuleWidth operand.
	Width int
}

// Default rendering parameters for commands with omitted operands. These
// mirror common Zebra firmware defaults closely enough for previews.
const (
	DefaultFontHeight  = 60  // dots; halves to a 30px face
	DefaultBarHeight   = 100 // dots
	DefaultModuleWidth = 3   // dots per barcode module
)
