package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/run"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Auth domain errors
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound),
		errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		Unauthorized(w, "Refresh token missing")

	// Timecard domain errors
	case errors.Is(err, timecard.ErrFileNotFound):
		NotFound(w, "Uploaded file not found")
	case errors.Is(err, timecard.ErrPeriodRequired):
		BadRequest(w, "Pay-period label is required when the filename does not carry one", nil)
	case errors.Is(err, timecard.ErrExtractFailed):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, timecard.ErrEmptyTable):
		BadRequest(w, "Workbook contains no employee rows", nil)
	case errors.Is(err, timecard.ErrNoDayColumns):
		BadRequest(w, "Workbook contains no day columns", nil)

	// Run history errors
	case errors.Is(err, run.ErrRunNotFound):
		NotFound(w, "Processing run not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
