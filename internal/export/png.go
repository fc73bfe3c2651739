package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"math"
)

// ErrDPIInjection is reported when the pHYs chunk cannot be written.
var ErrDPIInjection = errors.New("export: dpi metadata injection failed")

// Format names the encoding of a Result.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// Result is an encoded chart image.
type Result struct {
	Data   []byte
	Format Format
	Width  int
	Height int

	// DPI is the resolution the image must be printed at to honour the
	// chart's print scale. DPIKnown reports whether the file itself says so.
	DPI      int
	DPIKnown bool

	// Warning is set when metadata could not be written; Data is still valid.
	Warning error
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// EncodePNG encodes img as PNG and records dpi in a pHYs chunk. When the
// chunk cannot be written the plain PNG is returned with DPIKnown false and
// Warning wrapping ErrDPIInjection.
func EncodePNG(img image.Image, dpi int) (Result, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("export: encode png: %w", err)
	}

	b := img.Bounds()
	res := Result{
		Data:   buf.Bytes(),
		Format: FormatPNG,
		Width:  b.Dx(),
		Height: b.Dy(),
		DPI:    dpi,
	}

	withDPI, err := InjectPHYs(res.Data, dpi)
	if err != nil {
		res.Warning = err
		return res, nil
	}
	res.Data = withDPI
	res.DPIKnown = true
	return res, nil
}

// InjectPHYs inserts a pHYs chunk directly after IHDR. Any existing pHYs
// chunk is left alone, so callers pass freshly encoded data.
func InjectPHYs(data []byte, dpi int) ([]byte, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: dpi %d", ErrDPIInjection, dpi)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, fmt.Errorf("%w: missing png signature", ErrDPIInjection)
	}

	// IHDR must be the first chunk: length(4) type(4) data(13) crc(4).
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	if len(data) < ihdrEnd || string(data[12:16]) != "IHDR" ||
		binary.BigEndian.Uint32(data[8:12]) != 13 {
		return nil, fmt.Errorf("%w: missing IHDR", ErrDPIInjection)
	}

	ppm := uint32(math.Round(float64(dpi) / mmPerInch * 1000))
	chunk := make([]byte, 4+4+9+4)
	binary.BigEndian.PutUint32(chunk[0:4], 9)
	copy(chunk[4:8], "pHYs")
	binary.BigEndian.PutUint32(chunk[8:12], ppm)
	binary.BigEndian.PutUint32(chunk[12:16], ppm)
	chunk[16] = 1 // unit: metre
	binary.BigEndian.PutUint32(chunk[17:21], crc32.ChecksumIEEE(chunk[4:17]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, data[ihdrEnd:]...)
	return out, nil
}

// ReadDPI returns the resolution recorded in a PNG's pHYs chunk.
func ReadDPI(data []byte) (float64, bool) {
	if !bytes.HasPrefix(data, pngSignature) {
		return 0, false
	}
	for off := len(pngSignature); off+12 <= len(data); {
		n := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		end := off + 8 + n + 4
		if n < 0 || end > len(data) {
			return 0, false
		}
		switch typ {
		case "pHYs":
			if n != 9 || data[off+16] != 1 {
				return 0, false
			}
			ppm := binary.BigEndian.Uint32(data[off+8 : off+12])
			return float64(ppm) * mmPerInch / 1000, true
		case "IDAT", "IEND":
			return 0, false
		}
		off = end
	}
	return 0, false
}
