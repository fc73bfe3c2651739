package export

import (
	"bytes"
	"fmt"
	"image"

	"github.com/HugoSmits86/nativewebp"
)

// EncodeWebP encodes img as lossless WebP. WebP has no resolution field,
// so DPIKnown is always false; DPI still tells the caller how to print it.
func EncodeWebP(img image.Image, dpi int) (Result, error) {
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return Result{}, fmt.Errorf("export: encode webp: %w", err)
	}
	b := img.Bounds()
	return Result{
		Data:   buf.Bytes(),
		Format: FormatWebP,
		Width:  b.Dx(),
		Height: b.Dy(),
		DPI:    dpi,
	}, nil
}
