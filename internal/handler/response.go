package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/repohub/internal/apperror"
)

// ErrorResponse is the single error shape of this API: {"error": "..."}.
// The existing web client switches on the message string, so the message
// goes in verbatim.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must go out before the body — after the first Write they are fixed.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends it.
//
// Mapping: validation → 400, unauthorized → 401, not found → 404, everything
// else → 500. The 500 body carries the raw error message because the web
// client surfaces it to the user as-is.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		}

		writeJSON(w, status, ErrorResponse{Error: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
