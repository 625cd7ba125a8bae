// File: /services/media_storage.go
package services

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"globe-travel-api/metrics"
	"globe-travel-api/models"
	"globe-travel-api/utils"
)

const (
	MaxUploadFiles    = 10
	MaxUploadFileSize = 100 * 1024 * 1024
)

var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// UploadError is a client-fixable rejection of an upload batch.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// PreparedFile is an upload that passed batch validation.
type PreparedFile struct {
	Header   *multipart.FileHeader
	MimeType string
}

// CleanupReport lists the outcome of a best-effort file removal.
type CleanupReport struct {
	Removed []string
	Missing []string
	Failed  map[string]error
}

func (r CleanupReport) OK() bool {
	return len(r.Failed) == 0
}

type MediaStorage struct {
	dir string
}

func NewMediaStorage(dir string) (*MediaStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &MediaStorage{dir: dir}, nil
}

func (ms *MediaStorage) Dir() string {
	return ms.dir
}

// Validate checks the whole batch before anything is written.
func (ms *MediaStorage) Validate(files []*multipart.FileHeader) ([]PreparedFile, error) {
	if len(files) == 0 {
		return nil, &UploadError{Message: "No files uploaded"}
	}
	if len(files) > MaxUploadFiles {
		return nil, &UploadError{Message: fmt.Sprintf("Too many files (max %d)", MaxUploadFiles)}
	}

	prepared := make([]PreparedFile, 0, len(files))
	for _, fh := range files {
		mimeType, err := detectMimeType(fh)
		if err != nil {
			return nil, err
		}
		if !allowedMediaTypes[mimeType] {
			return nil, &UploadError{Message: fmt.Sprintf("File type %s is not allowed", mimeType)}
		}
		if fh.Size > MaxUploadFileSize {
			return nil, &UploadError{Message: "File size exceeds maximum limit of 100MB"}
		}
		if !utils.IsSafeFilename(fh.Filename) {
			return nil, &UploadError{Message: "Invalid file name"}
		}
		prepared = append(prepared, PreparedFile{Header: fh, MimeType: mimeType})
	}
	return prepared, nil
}

// Save writes one file as <uuid>-<original name> and returns the stored name.
func (ms *MediaStorage) Save(f PreparedFile) (string, error) {
	src, err := f.Header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	filename := uuid.NewString() + "-" + f.Header.Filename
	dst, err := os.Create(filepath.Join(ms.dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	metrics.MediaUploadsTotal.WithLabelValues(models.MediaKind(f.MimeType)).Inc()
	return filename, nil
}

// Remove deletes stored files one by one; a failure never stops the batch.
func (ms *MediaStorage) Remove(filenames ...string) CleanupReport {
	report := CleanupReport{Failed: map[string]error{}}
	for _, name := range filenames {
		err := os.Remove(filepath.Join(ms.dir, filepath.Base(name)))
		switch {
		case err == nil:
			report.Removed = append(report.Removed, name)
		case errors.Is(err, os.ErrNotExist):
			report.Missing = append(report.Missing, name)
		default:
			report.Failed[name] = err
			metrics.MediaCleanupFailures.Inc()
		}
	}
	return report
}

func detectMimeType(fh *multipart.FileHeader) (string, error) {
	declared := fh.Header.Get("Content-Type")
	if declared != "" && declared != "application/octet-stream" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return mediaType, nil
		}
		return declared, nil
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	mediaType, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return detected.String(), nil
	}
	return mediaType, nil
}
