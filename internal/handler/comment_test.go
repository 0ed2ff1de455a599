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

// postComment creates a comment through the API as userID and returns the
// decoded response.
func postComment(t *testing.T, env *testEnv, userID, body string) model.Comment {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/comments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(env.sessionCookie(t, userID))
	rr := httptest.NewRecorder()

	env.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("POST /api/comments status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var comment model.Comment
	if err := json.NewDecoder(rr.Body).Decode(&comment); err != nil {
		t.Fatalf("decoding created comment: %v", err)
	}
	return comment
}

func TestCommentRoutes_CreateAndListByRepoURL(t *testing.T) {
	env := newTestEnv(t)

	created := postComment(t, env, "u1",
		`{"repoUrl":"https://github.com/golang/go","text":"great repo","username":"alice"}`)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, "great repo", created.Text)

	req := httptest.NewRequest(http.MethodGet, "/api/comments?repoUrl=https%3A%2F%2Fgithub.com%2Fgolang%2Fgo", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var comments []model.Comment
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&comments))
	assert.Len(t, comments, 1)
	assert.Equal(t, created.ID, comments[0].ID)
}

func TestCommentRoutes_ListWithoutReference(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/comments", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "repoId or repoUrl is required")
}

func TestCommentRoutes_CreateRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/comments",
		bytes.NewBufferString(`{"repoUrl":"https://github.com/a/b","text":"hi","username":"alice"}`))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error":"Unauthorized"`)
}

func TestCommentRoutes_CreateWithBothReferences(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/comments",
		bytes.NewBufferString(`{"repoId":"sub-1","repoUrl":"https://github.com/a/b","text":"hi","username":"alice"}`))
	req.AddCookie(env.sessionCookie(t, "u1"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "only one of repoId or repoUrl")
}

func TestCommentRoutes_UpdateByOwner(t *testing.T) {
	env := newTestEnv(t)

	created := postComment(t, env, "u1",
		`{"repoUrl":"https://github.com/a/b","text":"tpyo","username":"alice"}`)

	req := httptest.NewRequest(http.MethodPut, "/api/comments/"+created.ID,
		bytes.NewBufferString(`{"text":"typo fixed"}`))
	req.AddCookie(env.sessionCookie(t, "u1"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var updated model.Comment
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&updated))
	assert.Equal(t, "typo fixed", updated.Text)
}

func TestCommentRoutes_UpdateByNonOwner(t *testing.T) {
	env := newTestEnv(t)

	created := postComment(t, env, "u1",
		`{"repoUrl":"https://github.com/a/b","text":"mine","username":"alice"}`)

	// A different authenticated user gets a 404, not a 403 — ownership
	// failures are indistinguishable from missing comments.
	req := httptest.NewRequest(http.MethodPut, "/api/comments/"+created.ID,
		bytes.NewBufferString(`{"text":"hijacked"}`))
	req.AddCookie(env.sessionCookie(t, "u2"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "not found or unauthorized")

	// The stored text must be untouched.
	listReq := httptest.NewRequest(http.MethodGet, "/api/comments?repoUrl=https%3A%2F%2Fgithub.com%2Fa%2Fb", nil)
	listRR := httptest.NewRecorder()
	env.router.ServeHTTP(listRR, listReq)

	var comments []model.Comment
	assert.NoError(t, json.NewDecoder(listRR.Body).Decode(&comments))
	assert.Equal(t, "mine", comments[0].Text)
}

func TestCommentRoutes_DeleteByOwner(t *testing.T) {
	env := newTestEnv(t)

	created := postComment(t, env, "u1",
		`{"repoUrl":"https://github.com/a/b","text":"bye","username":"alice"}`)

	req := httptest.NewRequest(http.MethodDelete, "/api/comments/"+created.ID, nil)
	req.AddCookie(env.sessionCookie(t, "u1"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":true`)
}

func TestCommentRoutes_DeleteNonexistent(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/comments/no-such-id", nil)
	req.AddCookie(env.sessionCookie(t, "u1"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	// A delete that matched nothing is a 404, symmetric with update.
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
