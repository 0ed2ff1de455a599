package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/repohub/internal/auth"
	"github.com/sakif/repohub/internal/handler"
	sqliteRepo "github.com/sakif/repohub/internal/repository/sqlite"
	"github.com/sakif/repohub/internal/service"
)

const testBaseURL = "http://localhost:3000"

// mockProvider stands in for GitHub during handler tests. It records whether
// Exchange was called so tests can assert the state check short-circuits
// before any provider traffic.
type mockProvider struct {
	exchangeCalled bool
	returnUser     *auth.ExternalUser
	returnErr      error
}

func (m *mockProvider) AuthURL(state string) string {
	return "https://github.com/login/oauth/authorize?state=" + state
}

func (m *mockProvider) Exchange(ctx context.Context, code string) (*auth.ExternalUser, error) {
	m.exchangeCalled = true
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	return m.returnUser, nil
}

// testEnv is a fully wired API over an in-memory database, mounted on the
// same route table the server uses.
type testEnv struct {
	router   *chi.Mux
	db       *sqliteRepo.DB
	tokens   *auth.TokenService
	provider *mockProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqliteRepo.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	provider := &mockProvider{
		returnUser: &auth.ExternalUser{
			ProviderID: 42,
			Login:      "alice",
			Name:       "Alice",
			Email:      "alice@example.com",
			AvatarURL:  "https://avatars.githubusercontent.com/u/42",
			ProfileURL: "https://github.com/alice",
		},
	}

	authService := service.NewAuthService(db, db, tokens, logger)
	submissionService := service.NewSubmissionService(db, logger)
	commentService := service.NewCommentService(db, logger)
	profileService := service.NewProfileService(db, logger)

	authHandler := handler.NewAuthHandler(provider, authService, logger, testBaseURL, false)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)

	router := chi.NewRouter()
	router.NotFound(handler.HandleNotFound)
	router.MethodNotAllowed(handler.HandleNotFound)

	router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
	router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	router.Post("/auth/logout", authHandler.HandleLogout)

	router.Route("/api", func(r chi.Router) {
		r.Get("/", handler.HandleRoot)
		r.Get("/root", handler.HandleRoot)

		r.Get("/submissions", submissionHandler.HandleList)
		r.Get("/comments", commentHandler.HandleList)
		r.Get("/user", profileHandler.HandleGet)
		r.Post("/user", profileHandler.HandleUpdate)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/submissions", submissionHandler.HandleCreate)
			r.Post("/comments", commentHandler.HandleCreate)
			r.Put("/comments/{id}", commentHandler.HandleUpdate)
			r.Delete("/comments/{id}", commentHandler.HandleDelete)
			r.Get("/me", authHandler.HandleMe)
		})
	})

	return &testEnv{router: router, db: db, tokens: tokens, provider: provider}
}

// sessionCookie mints a valid access-token cookie for userID.
func (e *testEnv) sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	session, err := e.tokens.MintSession(userID)
	if err != nil {
		t.Fatalf("failed to mint session: %v", err)
	}
	return &http.Cookie{Name: auth.AccessTokenCookie, Value: session.AccessToken}
}
