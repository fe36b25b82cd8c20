package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Kind is the provider-side resource class of an uploaded file.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindRaw   Kind = "raw"
	KindAuto  Kind = "auto"
)

// UploadResult describes a file stored at the media provider.
type UploadResult struct {
	URL        string
	ProviderID string
}

// MediaStorage defines the contract for the remote media host
// (Cloudinary implementation). Deletes are best-effort: callers are
// expected to swallow cleanup failures.
type MediaStorage interface {
	// Upload stores the file bytes under the given logical folder and
	// returns the public URL plus the provider identifier.
	Upload(ctx context.Context, r io.Reader, folder, fileName string, kind Kind) (*UploadResult, error)
	// Delete removes a previously uploaded file by its provider identifier.
	Delete(ctx context.Context, providerID string, kind Kind) error
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates the Cloudinary-backed implementation of
// MediaStorage. It expects CLOUDINARY_URL or individual
// CLOUDINARY_CLOUD_NAME / CLOUDINARY_API_KEY / CLOUDINARY_API_SECRET
// to be configured in environment variables (see Cloudinary Go SDK docs).
func NewCloudinaryStorage() (MediaStorage, error) {
	// cloudinary.New() automatically reads CLOUDINARY_URL from environment if present.
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	// Ensure HTTPS URLs by default.
	cld.Config.URL.Secure = true

	if cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME"); cloudName != "" {
		cld.Config.Cloud.CloudName = cloudName
	}

	return &cloudinaryStorage{cld: cld}, nil
}

func (s *cloudinaryStorage) Upload(ctx context.Context, r io.Reader, folder, fileName string, kind Kind) (*UploadResult, error) {
	if s == nil || s.cld == nil {
		return nil, fmt.Errorf("cloudinary storage is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	publicID := fmt.Sprintf("%d-%s", time.Now().UnixNano(), base)

	if kind == "" {
		kind = KindAuto
	}

	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID,
		ResourceType:   string(kind),
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to cloudinary: %w", err)
	}

	if resp.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return &UploadResult{
		URL:        resp.SecureURL,
		ProviderID: resp.PublicID,
	}, nil
}

func (s *cloudinaryStorage) Delete(ctx context.Context, providerID string, kind Kind) error {
	if s == nil || s.cld == nil {
		return fmt.Errorf("cloudinary storage is not initialized")
	}

	if providerID == "" {
		return fmt.Errorf("empty provider id")
	}

	if kind == "" || kind == KindAuto {
		kind = KindImage
	}

	// Invalidate: true helps to clear CDN cache
	params := uploader.DestroyParams{
		PublicID:     providerID,
		ResourceType: string(kind),
		Invalidate:   api.Bool(true),
	}

	resp, err := s.cld.Upload.Destroy(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to delete file from cloudinary: %w", err)
	}

	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}

	return nil
}
