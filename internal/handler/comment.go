package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/repohub/internal/apperror"
	"github.com/sakif/repohub/internal/auth"
	"github.com/sakif/repohub/internal/service"
)

// CommentHandler serves the comment endpoints.
//
// Request bodies and query params use the client's camelCase names (repoId,
// repoUrl); stored rows come back with the snake_case column names. The
// frontend depends on that asymmetry, so it stays.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(service *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{service: service, logger: logger}
}

// commentRequest is the POST body for a new comment.
type commentRequest struct {
	RepoID   string `json:"repoId"`
	RepoURL  string `json:"repoUrl"`
	Text     string `json:"text"`
	Username string `json:"username"`
}

// updateRequest is the PUT body for a text edit.
type updateRequest struct {
	Text string `json:"text"`
}

// HandleList returns comments for one repository reference, oldest first.
//
// HTTP: GET /api/comments?repoId=... | ?repoUrl=... (public)
//
// One of the two params is required; with both present repoId wins.
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	repoID := r.URL.Query().Get("repoId")
	repoURL := r.URL.Query().Get("repoUrl")

	comments, err := h.service.ListForRepo(r.Context(), repoID, repoURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// HandleCreate stores a new comment for the authenticated user.
//
// HTTP: POST /api/comments
// Auth: required
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid comment JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	comment, err := h.service.Create(r.Context(), userID, service.CommentInput{
		RepoID:   req.RepoID,
		RepoURL:  req.RepoURL,
		Text:     req.Text,
		Username: req.Username,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// HandleUpdate edits the text of a comment owned by the authenticated user.
//
// HTTP: PUT /api/comments/{id}
// Auth: required
//
// A non-owned or nonexistent id both answer 404 — the two cases are
// indistinguishable to the caller on purpose.
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "comment id is required"))
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid comment update JSON", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	comment, err := h.service.UpdateText(r.Context(), id, userID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// HandleDelete removes a comment owned by the authenticated user.
//
// HTTP: DELETE /api/comments/{id}
// Auth: required
//
// Same 404-on-zero-rows semantics as HandleUpdate; a successful delete
// answers {"success": true}.
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, apperror.ValidationFailed("id", "comment id is required"))
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
