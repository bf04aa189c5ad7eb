package simpleblog

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"

	"github.com/nfnt/resize"
)

const (
	// jpegQuality is the encoder quality for converted images.
	jpegQuality = 80

	// defaultMaxWidth caps the pixel width of converted images.
	defaultMaxWidth = 1920
)

// StdCodec is the default ImageCodec: stdlib JPEG/PNG decoding and JPEG
// encoding, downscaling to MaxWidth with Lanczos resampling.
type StdCodec struct {
	MaxWidth uint
}

// NewStdCodec returns the default image codec.
func NewStdCodec(maxWidth uint) *StdCodec {
	if maxWidth == 0 {
		maxWidth = defaultMaxWidth
	}
	return &StdCodec{MaxWidth: maxWidth}
}

func (c *StdCodec) Decode(data []byte, contentType string) (image.Image, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		return png.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
}

func (c *StdCodec) Encode(img image.Image, quality int) ([]byte, error) {
	if c.MaxWidth > 0 && uint(img.Bounds().Dx()) > c.MaxWidth {
		img = resize.Resize(c.MaxWidth, 0, img, resize.Lanczos3)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// convertImage re-encodes an uploaded image into the space-efficient target
// format. Conversion is an enhancement, not a requirement: any decode or
// encode failure falls back to the original bytes under the original
// extension, and unsupported source formats skip conversion entirely.
// Returns the final bytes, whether conversion happened, and the final
// extension (with leading dot).
func convertImage(codec ImageCodec, data []byte, contentType string) ([]byte, bool, string) {
	ext := extensionFor(contentType)
	if codec == nil {
		return data, false, ext
	}

	img, err := codec.Decode(data, contentType)
	if err != nil {
		slog.Debug("image conversion skipped", "content_type", contentType, "error", err)
		return data, false, ext
	}

	out, err := codec.Encode(img, jpegQuality)
	if err != nil {
		slog.Warn("image encode failed, storing original", "content_type", contentType, "error", err)
		return data, false, ext
	}

	return out, true, ".jpg"
}

// extensionFor maps a content type to a file extension, defaulting to .bin.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".bin"
	}
}

// contentTypeFor maps a final extension back to the content type used for
// the storage upload.
func contentTypeFor(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
