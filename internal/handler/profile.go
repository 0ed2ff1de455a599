package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/repohub/internal/apperror"
	"github.com/sakif/repohub/internal/model"
	"github.com/sakif/repohub/internal/service"
)

// ProfileHandler serves the profile read/edit endpoints.
//
// These routes address profiles by an explicit userId parameter rather than
// the session, which is how the frontend calls /api/user.
type ProfileHandler struct {
	service *service.ProfileService
	logger  *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(service *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

// profileUpdateRequest is the POST body for a profile edit.
type profileUpdateRequest struct {
	UserID   string         `json:"userId"`
	UserData *model.Profile `json:"userData"`
}

// HandleGet returns the profile for a user ID.
//
// HTTP: GET /api/user?userId=...
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, apperror.ValidationFailed("userId", "User ID is required"))
		return
	}

	profile, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("fetching profile failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.Profile{"user": profile})
}

// HandleUpdate replaces a profile wholesale.
//
// HTTP: POST /api/user, body {"userId": "...", "userData": {...}}
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid profile JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if req.UserID == "" || req.UserData == nil {
		writeError(w, apperror.ValidationFailed("userId", "User ID and user data are required"))
		return
	}

	if err := h.service.Update(r.Context(), req.UserID, req.UserData); err != nil {
		h.logger.Error("updating profile failed",
			slog.String("userID", req.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
