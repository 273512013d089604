package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/workingtime"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, "Validation failed", validationErrs.ToMap())
		return
	}

	// Access policy carries its own message
	var denied *workingtime.AccessDeniedError
	if errors.As(err, &denied) {
		Unauthorized(w, denied.Error())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Working time domain errors
	case errors.Is(err, workingtime.ErrWorkingTimeNotFound):
		NotFound(w, "Working time not found")
	case errors.Is(err, workingtime.ErrUnauthorized):
		Unauthorized(w, "Unauthorized to access this working time")
	case errors.Is(err, workingtime.ErrEndBeforeStart):
		ValidationError(w, err.Error(), map[string]string{"end": err.Error()})
	case errors.Is(err, workingtime.ErrInvalidDateRange):
		ValidationError(w, err.Error(), map[string]string{"to": err.Error()})
	case errors.Is(err, workingtime.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in")
	case errors.Is(err, workingtime.ErrNotCheckedIn):
		Conflict(w, "Not checked in")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
