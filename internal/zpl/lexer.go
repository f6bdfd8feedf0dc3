package zpl

import (
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError reports a malformed numeric operand. Offset is the byte
// offset of the operand within the comment-stripped source.
type SyntaxError struct {
	Opcode  string
	Operand string
	Offset  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("^%s: malformed operand %q at offset %d", e.Opcode, e.Operand, e.Offset)
}

// StripComments removes whole lines whose trimmed content begins with the
// ^FX comment opcode. Partial-line comments are not supported: an inline
// ^FX survives stripping and is lexed as a Comment command instead.
func StripComments(markup string) string {
	lines := strings.Split(markup, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "^FX") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Lex scans markup into an ordered Command sequence. Unrecognized opcodes
// become Unknown commands rather than errors, so a partially supported
// label still renders. The scan is a single pass: every command is the
// two bytes following a caret plus the operand text up to the next caret,
// which also disambiguates opcodes sharing a prefix (^BC vs ^BY) with a
// fixed-length peek.
func Lex(markup string) ([]Command, error) {
	src := StripComments(markup)

	var cmds []Command
	i := 0
	for i < len(src) {
		if src[i] != '^' {
			i++
			continue
		}
		if i+3 > len(src) {
			// Trailing caret without a complete opcode.
			cmds = append(cmds, Command{Kind: KindUnknown, Text: src[i:]})
			break
		}

		opcode := src[i+1 : i+3]
		end := i + 3
		if next := strings.IndexByte(src[end:], '^'); next >= 0 {
			end += next
		} else {
			end = len(src)
		}
		params := src[i+3 : end]

		cmd, err := parseCommand(opcode, params, i+3, src[i:end])
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
		i = end
	}
	return cmds, nil
}

// parseCommand decodes one opcode and its operand text. offset is the byte
// offset of params within the comment-stripped source; raw is the full
// command text used for Unknown commands.
func parseCommand(opcode, params string, offset int, raw string) (Command, error) {
	switch opcode {
	case "XA":
		return Command{Kind: KindLabelStart}, nil
	case "XZ":
		return Command{Kind: KindLabelEnd}, nil
	case "FS":
		return Command{Kind: KindFieldSeparator}, nil
	case "FD":
		return Command{Kind: KindFieldData, Text: strings.TrimSpace(params)}, nil
	case "FX":
		return Command{Kind: KindComment, Text: strings.TrimSpace(params)}, nil
	case "FO":
		return parseFieldOrigin(params, offset)
	case "CF":
		return parseChangeFont(params, offset)
	case "BC":
		return parseBarcode(params, offset)
	case "BY":
		return parseModuleWidth(params, offset)
	default:
		return Command{Kind: KindUnknown, Text: raw}, nil
	}
}

func parseFieldOrigin(params string, offset int) (Command, error) {
	parts, offsets := splitOperands(params, offset)
	if len(parts) < 2 {
		return Command{}, &SyntaxError{Opcode: "FO", Operand: params, Offset: offset}
	}
	x, err := parseOperandInt("FO", parts[0], offsets[0])
	if err != nil {
		return Command{}, err
	}
	y, err := parseOperandInt("FO", parts[1], offsets[1])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: KindFieldOrigin, X: x, Y: y}, nil
}

func parseChangeFont(params string, offset int) (Command, error) {
	parts, offsets := splitOperands(params, offset)
	cmd := Command{Kind: KindChangeFont, FontName: '0'}
	if len(parts) > 0 && parts[0] != "" {
		cmd.FontName = parts[0][0]
	}
	if len(parts) > 1 && parts[1] != "" {
		h, err := parseOperandInt("CF", parts[1], offsets[1])
		if err != nil {
			return Command{}, err
		}
		cmd.FontHeight = h
	}
	if len(parts) > 2 && parts[2] != "" {
		w, err := parseOperandInt("CF", parts[2], offsets[2])
		if err != nil {
			return Command{}, err
		}
		cmd.FontWidth = w
	}
	return cmd, nil
}

func parseBarcode(params string, offset int) (Command, error) {
	parts, offsets := splitOperands(params, offset)
	cmd := Command{Kind: KindBarcode, Orientation: 'N', Interpretation: true}
	if len(parts) > 0 && parts[0] != "" {
		cmd.Orientation = parts[0][0]
	}
	if len(parts) > 1 && parts[1] != "" {
		h, err := parseOperandInt("BC", parts[1], offsets[1])
		if err != nil {
			return Command{}, err
		}
		cmd.BarHeight = h
	}
	if len(parts) > 2 && strings.EqualFold(parts[2], "N") {
		cmd.Interpretation = false
	}
	return cmd, nil
}

func parseModuleWidth(params string, offset int) (Command, error) {
	parts, offsets := splitOperands(params, offset)
	cmd := Command{Kind: KindModuleWidth}
	if len(parts) > 0 && parts[0] != "" {
		w, err := parseOperandInt("BY", parts[0], offsets[0])
		if err != nil {
			return Command{}, err
		}
		cmd.Width = w
	}
	return cmd, nil
}

// splitOperands splits comma-separated operand text, trimming surrounding
// whitespace and tracking the byte offset of each operand.
func splitOperands(params string, offset int) ([]string, []int) {
	raw := strings.Split(strings.TrimRight(params, "\r\n"), ",")
	parts := make([]string, len(raw))
	offsets := make([]int, len(raw))
	pos := offset
	for i, p := range raw {
		trimmed := strings.TrimSpace(p)
		parts[i] = trimmed
		offsets[i] = pos + strings.Index(p, trimmed)
		pos += len(p) + 1 // account for the comma
	}
	return parts, offsets
}

func parseOperandInt(opcode, operand string, offset int) (int, error) {
	n, err := strconv.Atoi(operand)
	if err != nil {
		return 0, &SyntaxError{Opcode: opcode, Operand: operand, Offset: offset}
	}
	return n, nil
}
