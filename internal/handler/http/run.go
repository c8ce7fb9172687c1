package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/run"
	"github.com/cmlabs-hris/timecard-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

type RunHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
}

type runHandlerImpl struct {
	runRepository run.RunRepository
}

func NewRunHandler(runRepository run.RunRepository) RunHandler {
	return &runHandlerImpl{
		runRepository: runRepository,
	}
}

// List implements RunHandler. Most recent runs first.
func (h *runHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if !validator.IsNumeric(raw) {
			response.BadRequest(w, "limit must be a number between 1 and 500", nil)
			return
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed == 0 || parsed > 500 {
			response.BadRequest(w, "limit must be a number between 1 and 500", nil)
			return
		}
		limit = parsed
	}

	runs, err := h.runRepository.List(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, runs)
}

// GetByID implements RunHandler.
func (h *runHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run id is required", nil)
		return
	}

	rec, err := h.runRepository.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rec)
}
