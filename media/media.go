// Package media handles the images users attach to chat messages and photo
// analysis: data URI encoding and content sniffing.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes bounds a decoded upload. The widget compresses to well under this.
const MaxImageBytes = 8 << 20

var (
	ErrNotDataURI       = errors.New("not a base64 data URI")
	ErrTooLarge         = errors.New("image is too large")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

var allowedImages = []string{"image/jpeg", "image/png", "image/webp", "image/heic", "image/heif"}

// EncodeDataURI returns data:<mime>;base64,<payload>.
func EncodeDataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its declared media type and bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURI
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, ErrNotDataURI
	}
	if len(payload) > base64.StdEncoding.EncodedLen(MaxImageBytes) {
		return "", nil, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return mediaType, data, nil
}

// SniffImage detects the real type of data and rejects anything that is not
// a supported photo format, whatever the client declared.
func SniffImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrUnsupportedImage
	}
	if len(data) > MaxImageBytes {
		return "", ErrTooLarge
	}
	mt := mimetype.Detect(data)
	for _, allowed := range allowedImages {
		if mt.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mt.String())
}

// DecodeImage decodes a data URI and verifies the payload is a supported image.
func DecodeImage(uri string) (string, []byte, error) {
	_, data, err := DecodeDataURI(uri)
	if err != nil {
		return "", nil, err
	}
	mt, err := SniffImage(data)
	if err != nil {
		return "", nil, err
	}
	return mt, data, nil
}
