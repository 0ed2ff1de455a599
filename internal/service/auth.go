package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/repohub/internal/auth"
	"github.com/sakif/repohub/internal/model"
	"github.com/sakif/repohub/internal/repository"
)

// Sentinel errors distinguishing which stage of the login sequence failed,
// so the callback handler can pick the matching redirect error code.
var (
	// ErrIdentityResolution: the identity lookup/create failed — fatal,
	// redirect carries auth_error.
	ErrIdentityResolution = errors.New("identity resolution failed")
	// ErrSessionMint: tokens could not be issued — redirect carries
	// session_error.
	ErrSessionMint = errors.New("session creation failed")
)

// AuthService orchestrates the tail of the OAuth callback: resolve a local
// identity from the external profile, make sure a profile row exists, and
// mint the session tokens. It knows nothing about HTTP, cookies, or GitHub —
// the handler does the state check and the provider does the code exchange.
type AuthService struct {
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
	tokens     *auth.TokenService
	logger     *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	identities repository.IdentityRepository,
	profiles repository.ProfileRepository,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		identities: identities,
		profiles:   profiles,
		tokens:     tokens,
		logger:     logger,
	}
}

// AuthResult bundles the resolved identity and the minted session so the
// handler can set the cookies and redirect in one step.
type AuthResult struct {
	Identity *model.Identity
	Session  *auth.Session
}

// LoginOrRegister completes a login from an exchanged external profile.
//
// Failure postures differ by stage, deliberately:
//   - identity resolution errors are fatal (ErrIdentityResolution)
//   - the profile insert-if-absent is best effort: a failure is logged and
//     the login continues, so the user still gets a session with no profile
//     row (graceful degradation — the UI tolerates a missing profile)
//   - session minting errors are fatal (ErrSessionMint)
func (s *AuthService) LoginOrRegister(ctx context.Context, ext *auth.ExternalUser) (*AuthResult, error) {
	if ext == nil {
		return nil, fmt.Errorf("service/auth: external user must not be nil")
	}

	identity := &model.Identity{
		Email:       ext.Email,
		FullName:    ext.Name,
		AvatarURL:   ext.AvatarURL,
		GitHubID:    ext.ProviderID,
		GitHubLogin: ext.Login,
		GitHubURL:   ext.ProfileURL,
	}

	if err := s.identities.ResolveByEmail(ctx, identity); err != nil {
		return nil, fmt.Errorf("service/auth: %w: %w", ErrIdentityResolution, err)
	}

	profile := &model.Profile{
		ID:        identity.ID,
		Username:  ext.Login,
		FullName:  ext.Name,
		AvatarURL: ext.AvatarURL,
		Email:     ext.Email,
		GitHubID:  fmt.Sprintf("%d", ext.ProviderID),
		GitHubURL: ext.ProfileURL,
		UpdatedAt: time.Now(),
	}
	if err := s.profiles.EnsureProfile(ctx, profile); err != nil {
		// Logged, not fatal — see the failure-posture note above.
		s.logger.Error("profile creation failed, continuing login",
			slog.String("userID", identity.ID),
			slog.String("error", err.Error()),
		)
	}

	session, err := s.tokens.MintSession(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w: %w", ErrSessionMint, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", identity.ID),
		slog.String("login", ext.Login),
	)

	return &AuthResult{Identity: identity, Session: session}, nil
}

// GetIdentity returns the identity for the given internal ID. Used by the
// /api/me handler after the middleware validates the session token.
func (s *AuthService) GetIdentity(ctx context.Context, id string) (*model.Identity, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: identity ID must not be empty")
	}

	identity, err := s.identities.GetIdentityByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching identity %s: %w", id, err)
	}

	return identity, nil
}
