// export.go — PNG encoding for download and share handoff.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"
)

// EncodePNG encodes img to PNG bytes, the form handed to a share sheet.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes in a data URI suitable for a direct file
// download. The pixel content is identical to the raw bytes form.
func DataURI(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

// ExportFilename returns a timestamped PNG name so repeated exports never
// collide.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("dp_%d.png", now.UnixMilli())
}

// WritePNG encodes img to a PNG file at the given path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}
