package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

// newFakeGitHub stands up one server playing both the OAuth token endpoint
// and the API, and returns a provider pointed at it.
//
// userJSON is the /user response; emailsJSON (optional) the /user/emails one.
func newFakeGitHub(t *testing.T, userJSON, emailsJSON string) (*GitHubProvider, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gho_testtoken","token_type":"bearer"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(userJSON))
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		if emailsJSON == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(emailsJSON))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	provider := NewGitHubProvider("client-id", "client-secret", "http://localhost:8080/auth/github/callback")
	provider.config.Endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/login/oauth/authorize",
		TokenURL: srv.URL + "/login/oauth/access_token",
	}
	provider.apiBase = srv.URL

	return provider, srv
}

func TestAuthURL_CarriesStateAndScope(t *testing.T) {
	provider := NewGitHubProvider("client-id", "client-secret", "http://localhost:8080/cb")

	u := provider.AuthURL("nonce-123")

	if !strings.Contains(u, "state=nonce-123") {
		t.Errorf("AuthURL() = %q, missing the state nonce", u)
	}
	if !strings.Contains(u, "client_id=client-id") {
		t.Errorf("AuthURL() = %q, missing the client id", u)
	}
	if !strings.Contains(u, "user%3Aemail") {
		t.Errorf("AuthURL() = %q, missing the user:email scope", u)
	}
}

func TestExchange_PublicEmail(t *testing.T) {
	provider, _ := newFakeGitHub(t,
		`{"id":42,"login":"alice","name":"Alice","email":"alice@example.com",
		  "avatar_url":"https://example.com/a.png","html_url":"https://github.com/alice"}`,
		"")

	user, err := provider.Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}

	if user.ProviderID != 42 || user.Login != "alice" {
		t.Errorf("Exchange() user = %+v, want GitHub id 42 / login alice", user)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want the public profile email", user.Email)
	}
}

func TestExchange_HiddenEmailUsesEmailsEndpoint(t *testing.T) {
	// Profile email hidden; the primary address comes from /user/emails.
	provider, _ := newFakeGitHub(t,
		`{"id":42,"login":"alice","name":"Alice","email":""}`,
		`[{"email":"secondary@example.com","primary":false,"verified":true},
		  {"email":"primary@example.com","primary":true,"verified":true}]`)

	user, err := provider.Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if user.Email != "primary@example.com" {
		t.Errorf("email = %q, want the primary address", user.Email)
	}
}

func TestExchange_NoPrimaryFallsBackToFirst(t *testing.T) {
	provider, _ := newFakeGitHub(t,
		`{"id":42,"login":"alice","email":""}`,
		`[{"email":"only@example.com","primary":false,"verified":true}]`)

	user, err := provider.Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if user.Email != "only@example.com" {
		t.Errorf("email = %q, want the first listed address", user.Email)
	}
}

func TestExchange_NoEmailAnywhere(t *testing.T) {
	provider, _ := newFakeGitHub(t,
		`{"id":42,"login":"alice","email":""}`,
		`[]`)

	_, err := provider.Exchange(context.Background(), "good-code")
	if !errors.Is(err, ErrNoEmail) {
		t.Fatalf("Exchange() error = %v, want ErrNoEmail", err)
	}
}

func TestExchange_BadCodeSurfacesProviderError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// GitHub answers 200 with an error payload for bad codes; oauth2
		// turns it into a RetrieveError either way on a 4xx.
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad_verification_code","error_description":"The code is incorrect."}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	provider := NewGitHubProvider("client-id", "client-secret", "http://localhost:8080/cb")
	provider.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token"}

	_, err := provider.Exchange(context.Background(), "stale-code")

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("Exchange() error = %v, want a ProviderError", err)
	}
	if providerErr.Code != "bad_verification_code" {
		t.Errorf("provider error code = %q, want bad_verification_code", providerErr.Code)
	}
}

func TestExchange_InvalidUserResponse(t *testing.T) {
	provider, _ := newFakeGitHub(t, `{"id":0}`, "")

	_, err := provider.Exchange(context.Background(), "good-code")
	if err == nil {
		t.Fatal("Exchange() should reject a user payload without an id")
	}
}
