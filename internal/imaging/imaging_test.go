package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encode(t *testing.T, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, img))
	return buf.Bytes()
}

func TestDetectPNG(t *testing.T) {
	data := encode(t, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) })
	info, err := Detect(data)
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, 4, info.Width)
	assert.Equal(t, 3, info.Height)
	assert.Equal(t, ".png", Extension(info.ContentType))
}

func TestDetectBMP(t *testing.T) {
	data := encode(t, func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) })
	info, err := Detect(data)
	require.NoError(t, err)
	assert.Equal(t, "image/bmp", info.ContentType)
}

func TestDetectRejectsGarbage(t *testing.T) {
	_, err := Detect([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Detect(nil)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Empty(t, Extension("application/pdf"))
}
