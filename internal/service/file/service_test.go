package file

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
)

type fakeStorage struct {
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, file io.Reader, path string, _ string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.files[path] = data
	return path, nil
}

func (s *fakeStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.files[path])), nil
}

func (s *fakeStorage) Delete(_ context.Context, path string) error {
	delete(s.files, path)
	return nil
}

func (s *fakeStorage) GetURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "http://localhost/files/" + path, nil
}

func (s *fakeStorage) Exists(_ context.Context, path string) (bool, error) {
	_, ok := s.files[path]
	return ok, nil
}

func TestUploadTimecard(t *testing.T) {
	store := newFakeStorage()
	svc := NewFileService(store)

	name, err := svc.UploadTimecard(context.Background(), strings.NewReader("payload"), "timecards.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "timecards.xlsx", name)
	assert.Contains(t, store.files, "uploads/timecards.xlsx")
}

func TestUploadTimecard_StripsPathComponents(t *testing.T) {
	store := newFakeStorage()
	svc := NewFileService(store)

	name, err := svc.UploadTimecard(context.Background(), strings.NewReader("payload"), "../../etc/timecards.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "timecards.xlsx", name)
	assert.Contains(t, store.files, "uploads/timecards.xlsx")
}

func TestDownloadProcessed_NotFound(t *testing.T) {
	svc := NewFileService(newFakeStorage())

	_, err := svc.DownloadProcessed(context.Background(), "missing.xlsx")
	assert.ErrorIs(t, err, timecard.ErrFileNotFound)
}

func TestDeleteUpload(t *testing.T) {
	store := newFakeStorage()
	store.files["uploads/timecards.xlsx"] = []byte("payload")
	svc := NewFileService(store)

	require.NoError(t, svc.DeleteUpload(context.Background(), "timecards.xlsx"))
	assert.NotContains(t, store.files, "uploads/timecards.xlsx")
}

func TestDeleteUpload_NotFound(t *testing.T) {
	svc := NewFileService(newFakeStorage())

	err := svc.DeleteUpload(context.Background(), "missing.xlsx")
	assert.ErrorIs(t, err, timecard.ErrFileNotFound)
}

func TestCleanWorkbookName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "plain workbook name",
			input:    "timecards.xlsx",
			expected: "timecards.xlsx",
		},
		{
			name:     "name with period label",
			input:    "table_with_error_cells(20220620-0703).xlsx",
			expected: "table_with_error_cells(20220620-0703).xlsx",
		},
		{
			name:     "path components stripped",
			input:    "../../etc/timecards.xlsx",
			expected: "timecards.xlsx",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  timecards.xlsx  ",
			expected: "timecards.xlsx",
		},
		{
			name:    "wrong extension",
			input:   "timecards.csv",
			wantErr: true,
		},
		{
			name:     "uppercase extension allowed",
			input:    "TIMECARDS.XLSX",
			expected: "TIMECARDS.XLSX",
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "bare traversal",
			input:   "..",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanWorkbookName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
