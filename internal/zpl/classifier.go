package zpl

import "strings"

// Verdict is the result of a capability pre-check over raw markup.
type Verdict struct {
	Supported bool
	// Missing lists unimplemented features in order of first occurrence,
	// deduplicated.
	Missing []string
}

// unsupportedOpcodes maps opcode markers the local interpreter cannot
// render to stable feature names. The list must stay a strict subset: an
// opcode belongs here only if rendering without it would visibly lie about
// the label (graphics, images, downloadable fonts). Opcodes the state
// machine degrades gracefully on (e.g. plain ^A font selection) stay out.
var unsupportedOpcodes = []struct {
	marker  string
	feature string
}{
	{"^GF", "graphic-field"},
	{"^GB", "graphic-box"},
	{"^IM", "image-move"},
	{"^XG", "recall-graphic"},
	{"~DG", "download-graphic"},
	{"^A@", "downloadable-font"},
}

// SupportedCommands lists the opcodes the local interpreter implements,
// for capability reporting.
func SupportedCommands() []string {
	return []string{"^XA", "^XZ", "^FO", "^FD", "^FS", "^CF", "^BC", "^BY", "^FX"}
}

// Limitations describes known gaps of the local renderer, for capability
// reporting to callers.
func Limitations() []string {
	return []string{
		"barcodes are visual placeholders, not scannable symbologies",
		"single built-in monospace font",
		"no graphic fields (^GF, ^GB) or images (^IM)",
		"PNG output only for the local path",
	}
}

// Classify scans raw markup for constructs the local interpreter cannot
// handle and reports them in first-occurrence order. The check is advisory
// and runs before lexing; it is deterministic, so calling it twice on the
// same input yields the same verdict. Comment lines are stripped first so
// a commented-out ^GF does not block a local render.
func Classify(markup string) Verdict {
	src := StripComments(markup)

	type hit struct {
		pos     int
		feature string
	}
	var hits []hit
	for _, u := range unsupportedOpcodes {
		if pos := strings.Index(src, u.marker); pos >= 0 {
			hits = append(hits, hit{pos: pos, feature: u.feature})
		}
	}
	if len(hits) == 0 {
		return Verdict{Supported: true}
	}

	// Order by first occurrence in the input.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	missing := make([]string, len(hits))
	for i, h := range hits {
		missing[i] = h.feature
	}
	return Verdict{Supported: false, Missing: missing}
}
