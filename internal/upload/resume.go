// Package upload stores candidate resumes.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"
)

const MaxResumeSize = 5 << 20

var (
	ErrTooLarge    = errors.New("resume exceeds 5MB")
	ErrNotPDF      = errors.New("only PDF resumes are accepted")
	ErrEmptyResume = errors.New("resume file is empty")
)

type ResumeStore interface {
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ReadResume reads and checks a resume upload, returning its content.
func ReadResume(r io.Reader, size int64, contentType string) ([]byte, error) {
	if size > MaxResumeSize {
		return nil, ErrTooLarge
	}
	if ct := strings.ToLower(strings.TrimSpace(contentType)); ct != "" && !strings.HasPrefix(ct, "application/pdf") {
		return nil, ErrNotPDF
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxResumeSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyResume
	}
	if len(data) > MaxResumeSize {
		return nil, ErrTooLarge
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, ErrNotPDF
	}
	return data, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func safeName(filename string) string {
	base := unsafeName.ReplaceAllString(filepath.Base(filename), "_")
	if base == "" || base == "." || base == "_" {
		return "resume.pdf"
	}
	return base
}

// PlaceholderStore is used when no object storage is configured.
type PlaceholderStore struct {
	now func() time.Time
}

func NewPlaceholderStore() *PlaceholderStore {
	return &PlaceholderStore{now: time.Now}
}

func (p *PlaceholderStore) Store(_ context.Context, filename string, _ io.Reader) (string, error) {
	name := fmt.Sprintf("resume-%d-%s", p.now().UnixMilli(), safeName(filename))
	log.Warn().Str("resume", name).Msg("cloudinary not configured, storing placeholder resume url")
	return name, nil
}

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (c *CloudinaryStore) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := strings.TrimSuffix(safeName(filename), ".pdf")
	result, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       c.folder,
		PublicID:     fmt.Sprintf("%d-%s", time.Now().UnixMilli(), name),
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload resume: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload resume: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

// NewResumeStore picks Cloudinary when configured and falls back to placeholders.
func NewResumeStore(cloudinaryURL, folder string) ResumeStore {
	if cloudinaryURL == "" {
		return NewPlaceholderStore()
	}
	store, err := NewCloudinaryStore(cloudinaryURL, folder)
	if err != nil {
		log.Error().Err(err).Msg("invalid CLOUDINARY_URL, using placeholder resume store")
		return NewPlaceholderStore()
	}
	return store
}
