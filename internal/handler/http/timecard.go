package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timecard-backend-go/internal/service/file"
)

type TimecardHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	DetectErrors(w http.ResponseWriter, r *http.Request)
	BuildReport(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	DeleteUpload(w http.ResponseWriter, r *http.Request)
}

type timecardHandlerImpl struct {
	processingService timecard.ProcessingService
	fileService       file.FileService
}

func NewTimecardHandler(processingService timecard.ProcessingService, fileService file.FileService) TimecardHandler {
	return &timecardHandlerImpl{
		processingService: processingService,
		fileService:       fileService,
	}
}

// Upload implements TimecardHandler. Accepts a raw device export or a
// corrected phase-1 table; both go to the same place.
func (h *timecardHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 20MB)
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	f, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Field 'file' is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer f.Close()

	name, err := h.fileService.UploadTimecard(r.Context(), f, fileHeader.Filename)
	if err != nil {
		slog.Error("Upload service error", "error", err)
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Created(w, "File uploaded successfully", map[string]string{
		"file_name": name,
	})
}

// DetectErrors implements TimecardHandler. Phase 1 of the pipeline.
func (h *timecardHandlerImpl) DetectErrors(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProcessRequest(w, r)
	if !ok {
		return
	}

	result, err := h.processingService.RunDetect(r.Context(), req)
	if err != nil {
		slog.Error("DetectErrors service error", "error", err, "file", req.FileName)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// BuildReport implements TimecardHandler. Phase 2 of the pipeline.
func (h *timecardHandlerImpl) BuildReport(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProcessRequest(w, r)
	if !ok {
		return
	}

	result, err := h.processingService.RunReport(r.Context(), req)
	if err != nil {
		slog.Error("BuildReport service error", "error", err, "file", req.FileName)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Download implements TimecardHandler. Streams a generated workbook.
func (h *timecardHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		response.BadRequest(w, "Invalid file name", nil)
		return
	}

	rc, err := h.fileService.DownloadProcessed(r.Context(), name)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Download stream error", "error", err, "file", name)
	}
}

// DeleteUpload implements TimecardHandler. Removes an uploaded workbook
// once its processed outputs are no longer needed.
func (h *timecardHandlerImpl) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		response.BadRequest(w, "Invalid file name", nil)
		return
	}

	if err := h.fileService.DeleteUpload(r.Context(), name); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{"file_name": name})
}

func decodeProcessRequest(w http.ResponseWriter, r *http.Request) (timecard.ProcessRequest, bool) {
	var req timecard.ProcessRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Process request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return timecard.ProcessRequest{}, false
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return timecard.ProcessRequest{}, false
	}

	return req, true
}
