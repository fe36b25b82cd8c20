package upload

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/edunexus-app/backend/pkg/apperror"
	"github.com/edunexus-app/backend/pkg/storage"
)

// Limits: up to 10 files per request and 100MB per file.
const (
	MaxFilesPerRequest = 10
	MaxFileSize        = 100 << 20
)

var allowedTypes = map[string]bool{
	// Images
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	// Videos
	"video/mp4":  true,
	"video/webm": true,
	"video/ogg":  true,
	// Documents
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
	// Archives
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

// ValidateFiles checks the declared content type, per-file size and file
// count of a multipart upload against the global limits.
func ValidateFiles(files []*multipart.FileHeader) error {
	if len(files) > MaxFilesPerRequest {
		return fmt.Errorf("%w: at most %d files per request", apperror.ErrPayloadTooLarge, MaxFilesPerRequest)
	}

	for _, f := range files {
		if f.Size > MaxFileSize {
			return fmt.Errorf("%w: %s exceeds the %dMB limit", apperror.ErrPayloadTooLarge, f.Filename, MaxFileSize>>20)
		}
		contentType := f.Header.Get("Content-Type")
		if !allowedTypes[contentType] {
			return fmt.Errorf("%w: %s", apperror.ErrUnsupportedMedia, contentType)
		}
	}

	return nil
}

// KindFor maps a MIME type to the media provider resource kind.
func KindFor(contentType string) storage.Kind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return storage.KindImage
	case strings.HasPrefix(contentType, "video/"):
		return storage.KindVideo
	default:
		return storage.KindRaw
	}
}
