package product

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the largest image accepted for upload.
const MaxUploadSize = 5 << 20

var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// UploadError describes a rejected attachment.
type UploadError struct {
	Filename string
	Reason   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %s", e.Filename, e.Reason)
}

// UserMessage implements the notice message contract.
func (e *UploadError) UserMessage() string {
	return e.Filename + ": " + e.Reason
}

// NewImageUpload checks that data looks like an acceptable image and fills in
// the content type from the file extension.
func NewImageUpload(filename string, data []byte) (Upload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	ct, ok := imageExtensions[ext]
	if !ok {
		return Upload{}, &UploadError{Filename: filename, Reason: "only .png, .jpg, .jpeg, .gif and .webp images are supported"}
	}
	if len(data) == 0 {
		return Upload{}, &UploadError{Filename: filename, Reason: "file is empty"}
	}
	if len(data) > MaxUploadSize {
		return Upload{}, &UploadError{Filename: filename, Reason: "file is larger than 5MB"}
	}
	return Upload{Filename: filepath.Base(filename), ContentType: ct, Data: data}, nil
}
