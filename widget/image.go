package widget

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/SaisandeepKv/vernon-clinic-sub000/media"
)

const (
	MaxImageDimension = 1024
	TargetImageBytes  = 500 << 10
)

var jpegQualities = []int{85, 75, 65, 55, 45}

// CompressImage downscales the photo so its longer edge is at most
// MaxImageDimension and re-encodes it as JPEG, lowering quality until it fits
// TargetImageBytes. The smallest attempt is returned if none fits. A JPEG that
// is already small enough is returned untouched.
func CompressImage(data []byte) ([]byte, string, error) {
	mediaType, err := media.SniffImage(data)
	if err != nil {
		return nil, "", err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", mediaType, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, "", fmt.Errorf("empty image")
	}
	if mediaType == "image/jpeg" && max(w, h) <= MaxImageDimension && len(data) <= TargetImageBytes {
		return data, mediaType, nil
	}

	if long := max(w, h); long > MaxImageDimension {
		w = max(1, w*MaxImageDimension/long)
		h = max(1, h*MaxImageDimension/long)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG 에는 알파가 없으므로 흰 배경 위에 그린다.
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var best []byte
	for _, q := range jpegQualities {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: q}); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		best = buf.Bytes()
		if len(best) <= TargetImageBytes {
			break
		}
	}
	return best, "image/jpeg", nil
}

// prepareUpload compresses the photo for upload and falls back to the
// original bytes when compression fails.
func prepareUpload(data []byte) (uri, mediaType string, compressed bool, err error) {
	if out, mt, cerr := CompressImage(data); cerr == nil {
		return media.EncodeDataURI(mt, out), mt, true, nil
	}
	mt, err := media.SniffImage(data)
	if err != nil {
		return "", "", false, err
	}
	return media.EncodeDataURI(mt, data), mt, false, nil
}
