package render

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// withDPIMetadata splices a pHYs chunk into an encoded PNG so viewers and
// printers see the intended physical density. The chunk is inserted before
// IDAT without re-encoding the image, so pixel data is untouched.
func withDPIMetadata(pngBytes []byte, dpi int) ([]byte, error) {
	if !bytes.HasPrefix(pngBytes, pngSignature) {
		return nil, errors.New("not a PNG stream")
	}
	insertAt := findChunk(pngBytes, "IDAT")
	if insertAt < 0 {
		return nil, errors.New("no IDAT chunk found")
	}

	// PNG pHYs stores pixels per meter, not per inch.
	ppm := uint32(math.Round(float64(dpi) / 0.0254))

	// Chunk layout: length, type, X density, Y density, unit (1 = meter),
	// CRC over type+data.
	body := make([]byte, 0, 4+4+9+4)
	body = binary.BigEndian.AppendUint32(body, 9)
	body = append(body, "pHYs"...)
	body = binary.BigEndian.AppendUint32(body, ppm)
	body = binary.BigEndian.AppendUint32(body, ppm)
	body = append(body, 1)
	crc := crc32.ChecksumIEEE(body[4:])
	body = binary.BigEndian.AppendUint32(body, crc)

	out := make([]byte, 0, len(pngBytes)+len(body))
	out = append(out, pngBytes[:insertAt]...)
	out = append(out, body...)
	out = append(out, pngBytes[insertAt:]...)
	return out, nil
}

// findChunk walks the chunk headers after the signature and returns the
// byte offset of the first chunk of the given type, or -1. Walking the
// headers is required: the type tag can appear verbatim inside another
// chunk's data (text chunks in remote-origin PNGs, say), where a raw byte
// search would splice mid-chunk and corrupt the stream.
func findChunk(pngBytes []byte, chunkType string) int {
	off := len(pngSignature)
	for off+8 <= len(pngBytes) {
		length := int(binary.BigEndian.Uint32(pngBytes[off : off+4]))
		if string(pngBytes[off+4:off+8]) == chunkType {
			return off
		}
		// Skip length, type, data, and CRC.
		off += 8 + length + 4
	}
	return -1
}
