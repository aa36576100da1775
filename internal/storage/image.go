package storage

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNotBase64    = errors.New("payload is not valid base64")
	ErrInvalidImage = errors.New("payload is not a supported image")
)

// Image is a decoded upload ready to be stored.
type Image struct {
	Data        []byte
	Ext         string
	ContentType string
}

var imageExts = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeImage accepts either a data URI ("data:image/png;base64,....")
// or a bare base64 string and validates that the bytes are one of the
// supported image types.
func DecodeImage(encoded string) (*Image, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrInvalidImage
	}

	raw := encoded
	if strings.HasPrefix(encoded, "data:image") {
		_, after, found := strings.Cut(encoded, ",")
		if !found {
			return nil, ErrNotBase64
		}
		raw = strings.TrimSpace(after)
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrNotBase64
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExts[contentType]
	if !ok {
		return nil, ErrInvalidImage
	}

	return &Image{Data: data, Ext: ext, ContentType: contentType}, nil
}
