package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Can't change response at this point, just log
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error writes an error response with the given status and message
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Accepted writes a 202 Accepted response
func Accepted(w http.ResponseWriter, data any) {
	JSON(w, http.StatusAccepted, data)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// StatusFor maps domain errors to HTTP status codes. Unknown errors map
// to 500 so the generic handler path stays the default.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrAuditNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrEmptyQuery),
		errors.Is(err, entity.ErrQueryTooLong),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrRetrievalFailed),
		errors.Is(err, entity.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// DomainError writes an error response with the status derived from the
// domain error taxonomy.
func DomainError(w http.ResponseWriter, err error, message string) {
	Error(w, StatusFor(err), message)
}
