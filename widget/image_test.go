package widget

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaisandeepKv/vernon-clinic-sub000/media"
)

// noisy produces an image that compresses badly, to push the encoder past the size target.
func noisy(w, h int) *image.RGBA {
	r := rand.New(rand.NewPCG(1, 2))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(r.IntN(256)), uint8(r.IntN(256)), uint8(r.IntN(256)), 255})
		}
	}
	return img
}

func TestCompressImage_Downscales(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, noisy(2048, 1024)))

	out, mt, err := CompressImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mt)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, MaxImageDimension, cfg.Width)
	assert.Equal(t, 512, cfg.Height)
	assert.Less(t, len(out), buf.Len())
}

func TestCompressImage_SmallJPEGUntouched(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 64)), nil))

	out, mt, err := CompressImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mt)
	assert.Equal(t, buf.Bytes(), out)
}

func TestCompressImage_Errors(t *testing.T) {
	_, _, err := CompressImage([]byte("plain text"))
	assert.ErrorIs(t, err, media.ErrUnsupportedImage)

	// 헤더만 PNG 인 깨진 파일
	broken := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	_, _, err = CompressImage(broken)
	assert.Error(t, err)
}

func TestPrepareUpload_FallsBackToOriginal(t *testing.T) {
	broken := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

	uri, mt, compressed, err := prepareUpload(broken)
	require.NoError(t, err)
	assert.False(t, compressed)
	assert.Equal(t, "image/png", mt)

	gotType, data, err := media.DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, broken, data)
}
