package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/repohub/internal/apperror"
	"github.com/sakif/repohub/internal/auth"
	"github.com/sakif/repohub/internal/model"
	"github.com/sakif/repohub/internal/service"
)

// SubmissionHandler serves the community submission endpoints.
type SubmissionHandler struct {
	service *service.SubmissionService
	logger  *slog.Logger
}

// NewSubmissionHandler creates a SubmissionHandler.
func NewSubmissionHandler(service *service.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{service: service, logger: logger}
}

// HandleList returns all submissions, newest first.
//
// HTTP: GET /api/submissions (public)
func (h *SubmissionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("listing submissions failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submissions)
}

// HandleCreate stores a new submission for the authenticated user.
//
// HTTP: POST /api/submissions
// Auth: required (RequireAuth middleware)
//
// Any user_id in the body is ignored — the service overwrites it with the
// identity from the session. The created row is echoed back with a 200, the
// status the web client expects.
func (h *SubmissionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't trust that wiring here.
		writeError(w, apperror.Unauthorized())
		return
	}

	var submission model.Submission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		h.logger.Warn("invalid submission JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	created, err := h.service.Create(r.Context(), userID, &submission)
	if err != nil {
		h.logger.Error("creating submission failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, created)
}
