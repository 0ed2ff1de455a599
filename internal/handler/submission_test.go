package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/repohub/internal/model"
)

func TestSubmissionRoutes_CreateAndList(t *testing.T) {
	env := newTestEnv(t)

	body := `{
		"url": "https://github.com/golang/go",
		"title": "The Go Programming Language",
		"description": "Go source tree",
		"tags": ["language", "compiler"],
		"username": "alice",
		"language": "Go",
		"stars": 120000
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(env.sessionCookie(t, "u1"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var created model.Submission
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, model.PlatformGitHub, created.Platform)

	listReq := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	listRR := httptest.NewRecorder()
	env.router.ServeHTTP(listRR, listReq)

	assert.Equal(t, http.StatusOK, listRR.Code)

	var submissions []model.Submission
	assert.NoError(t, json.NewDecoder(listRR.Body).Decode(&submissions))
	assert.Len(t, submissions, 1)
	assert.Equal(t, created.ID, submissions[0].ID)
}

func TestSubmissionRoutes_UserIDComesFromSession(t *testing.T) {
	env := newTestEnv(t)

	// A user_id in the body must be ignored in favor of the session identity.
	body := `{"url":"https://github.com/a/b","title":"b","user_id":"someone-else","username":"alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewBufferString(body))
	req.AddCookie(env.sessionCookie(t, "u1"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var created model.Submission
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
	assert.Equal(t, "u1", created.UserID)
}

func TestSubmissionRoutes_CreateRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/submissions",
		bytes.NewBufferString(`{"url":"https://github.com/a/b","title":"b"}`))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error":"Unauthorized"`)
}

func TestSubmissionRoutes_ListEmptyIsJSONArray(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	// [] and not null — the frontend maps over the response directly.
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestSubmissionRoutes_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", bytes.NewBufferString(`{"url":`))
	req.AddCookie(env.sessionCookie(t, "u1"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
