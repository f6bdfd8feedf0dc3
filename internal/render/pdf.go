package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// wrapPDF builds a single-page PDF around an already rendered PNG preview.
// The remote service produces PDFs natively; the local path gets them by
// importing the local PNG.
func wrapPDF(pngBytes []byte) ([]byte, error) {
	var buf bytes.Buffer
	imgs := []io.Reader{bytes.NewReader(pngBytes)}
	if err := api.ImportImages(nil, &buf, imgs, nil, nil); err != nil {
		return nil, fmt.Errorf("importing preview image into PDF: %w", err)
	}
	return buf.Bytes(), nil
}
