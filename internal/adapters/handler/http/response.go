package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vncsmyrnk/meetmind/internal/core/domain"
)

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func parseJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("Missing request body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Success: false, Error: err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMeetingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrWebhookDisabled):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidMeetingID),
		errors.Is(err, domain.ErrMissingFields),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMissingUserID),
		errors.Is(err, domain.ErrMissingFile),
		errors.Is(err, domain.ErrMissingText),
		errors.Is(err, domain.ErrInvalidTask),
		errors.Is(err, domain.ErrCalendarTokenMissing):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// rootCause returns the innermost wrapped error.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
