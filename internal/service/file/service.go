package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/storage"
)

const (
	uploadsDir   = "uploads"
	processedDir = "processed"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type FileService interface {
	// UploadTimecard stores a workbook for processing and returns the name
	// the processing endpoints accept.
	UploadTimecard(ctx context.Context, file io.Reader, filename string) (string, error)

	// DownloadProcessed streams a generated report by name.
	DownloadProcessed(ctx context.Context, name string) (io.ReadCloser, error)

	// DeleteUpload removes an uploaded workbook.
	DeleteUpload(ctx context.Context, name string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadTimecard stores the workbook under its own name so the operator can
// re-upload a corrected copy and overwrite the previous round.
func (s *fileServiceImpl) UploadTimecard(ctx context.Context, file io.Reader, filename string) (string, error) {
	name, err := cleanWorkbookName(filename)
	if err != nil {
		return "", err
	}

	if _, err := s.storage.Upload(ctx, file, path.Join(uploadsDir, name), xlsxContentType); err != nil {
		return "", fmt.Errorf("failed to upload timecard: %w", err)
	}
	return name, nil
}

func (s *fileServiceImpl) DownloadProcessed(ctx context.Context, name string) (io.ReadCloser, error) {
	clean, err := cleanWorkbookName(name)
	if err != nil {
		return nil, err
	}

	key := path.Join(processedDir, clean)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check processed file: %w", err)
	}
	if !exists {
		return nil, timecard.ErrFileNotFound
	}
	return s.storage.Download(ctx, key)
}

func (s *fileServiceImpl) DeleteUpload(ctx context.Context, name string) error {
	clean, err := cleanWorkbookName(name)
	if err != nil {
		return err
	}

	key := path.Join(uploadsDir, clean)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check uploaded file: %w", err)
	}
	if !exists {
		return timecard.ErrFileNotFound
	}
	return s.storage.Delete(ctx, key)
}

// cleanWorkbookName strips any path components and enforces the xlsx
// extension. Names arrive from multipart uploads and URL parameters, so
// traversal attempts are rejected here before storage sees them.
func cleanWorkbookName(filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name: %q", filename)
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".xlsx" {
		return "", fmt.Errorf("invalid file type: only xlsx allowed")
	}
	return name, nil
}
