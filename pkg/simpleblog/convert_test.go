package simpleblog

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertImagePNGToJPEG(t *testing.T) {
	codec := NewStdCodec(0)
	data := pngBytes(t, 40, 30)

	out, converted, ext := convertImage(codec, data, "image/png")
	assert.True(t, converted)
	assert.Equal(t, ".jpg", ext)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 30, decoded.Bounds().Dy())
}

func TestConvertImageDownscalesWideImages(t *testing.T) {
	codec := NewStdCodec(32)
	data := pngBytes(t, 64, 16)

	out, converted, ext := convertImage(codec, data, "image/png")
	require.True(t, converted)
	require.Equal(t, ".jpg", ext)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 32, decoded.Bounds().Dx())
}

func TestConvertImageUnsupportedFormatFallsBack(t *testing.T) {
	codec := NewStdCodec(0)
	data := []byte("GIF89a not really a decodable image")

	out, converted, ext := convertImage(codec, data, "image/gif")
	assert.False(t, converted)
	assert.Equal(t, ".gif", ext)
	assert.Equal(t, data, out)
}

func TestConvertImageCorruptDataFallsBack(t *testing.T) {
	codec := NewStdCodec(0)
	data := []byte{0xFF, 0xD8, 0x00, 0x01, 0x02}

	out, converted, ext := convertImage(codec, data, "image/jpeg")
	assert.False(t, converted)
	assert.Equal(t, ".jpg", ext)
	assert.Equal(t, data, out)
}

func TestConvertImageNilCodec(t *testing.T) {
	data := pngBytes(t, 4, 4)
	out, converted, ext := convertImage(nil, data, "image/png")
	assert.False(t, converted)
	assert.Equal(t, ".png", ext)
	assert.Equal(t, data, out)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".jpg", extensionFor("image/jpg"))
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Equal(t, ".bin", extensionFor("application/pdf"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", contentTypeFor(".jpg"))
	assert.Equal(t, "image/png", contentTypeFor(".png"))
	assert.Equal(t, "application/octet-stream", contentTypeFor(".bin"))
}
