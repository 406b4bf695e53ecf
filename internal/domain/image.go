package domain

import "strings"

// MaxUploadSize is the advisory client-side ceiling for photos. The
// backend enforces its own limit.
const MaxUploadSize = 10 << 20

// UploadedImage is a photo picked by the user, with an inline preview.
// It is never mutated after creation.
type UploadedImage struct {
	ID       string
	Filename string
	MIMEType string
	Size     int64
	Width    int // 0 when the format could not be decoded
	Height   int
	Data     []byte
	Preview  string // data:<mime>;base64,...
}

// IsImageMIME reports whether a MIME type is an image type.
func IsImageMIME(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}
