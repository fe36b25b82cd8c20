package upload

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/edunexus-app/backend/pkg/apperror"
	"github.com/edunexus-app/backend/pkg/storage"
)

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestValidateFilesAcceptsAllowedTypes(t *testing.T) {
	files := []*multipart.FileHeader{
		fileHeader("a.png", "image/png", 1024),
		fileHeader("b.mp4", "video/mp4", 50<<20),
		fileHeader("c.pdf", "application/pdf", 2048),
	}
	if err := ValidateFiles(files); err != nil {
		t.Fatalf("expected valid files, got %v", err)
	}
}

func TestValidateFilesRejectsTooMany(t *testing.T) {
	files := make([]*multipart.FileHeader, MaxFilesPerRequest+1)
	for i := range files {
		files[i] = fileHeader("a.png", "image/png", 1024)
	}
	if err := ValidateFiles(files); !errors.Is(err, apperror.ErrPayloadTooLarge) {
		t.Fatalf("expected payload too large, got %v", err)
	}
}

func TestValidateFilesRejectsOversize(t *testing.T) {
	files := []*multipart.FileHeader{fileHeader("big.mp4", "video/mp4", MaxFileSize+1)}
	if err := ValidateFiles(files); !errors.Is(err, apperror.ErrPayloadTooLarge) {
		t.Fatalf("expected payload too large, got %v", err)
	}
}

func TestValidateFilesRejectsUnknownType(t *testing.T) {
	files := []*multipart.FileHeader{fileHeader("x.exe", "application/x-msdownload", 1024)}
	if err := ValidateFiles(files); !errors.Is(err, apperror.ErrUnsupportedMedia) {
		t.Fatalf("expected unsupported media, got %v", err)
	}
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        storage.Kind
	}{
		{"image/png", storage.KindImage},
		{"image/webp", storage.KindImage},
		{"video/mp4", storage.KindVideo},
		{"application/pdf", storage.KindRaw},
		{"text/plain", storage.KindRaw},
	}

	for _, tt := range tests {
		if got := KindFor(tt.contentType); got != tt.want {
			t.Errorf("KindFor(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}
