package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session lifetimes. The access token matches the 7-day cookie TTL the web
// client was built around; the refresh token outlives it so a future refresh
// endpoint can rotate sessions without a new OAuth round trip.
const (
	AccessTokenTTL  = 7 * 24 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

const issuer = "repohub"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret used to sign and verify tokens. The same secret
// must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The "sub" (Subject) claim carries the internal
// user ID.
type claims struct {
	jwt.RegisteredClaims
}

// Session bundles the two tokens minted at the end of a successful OAuth
// callback. Both are set as HttpOnly cookies; the legacy session cookie
// carries them again as a JSON array.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// MintSession issues the access and refresh tokens for userID. This is the
// final step of the OAuth callback — a failure here aborts the flow with the
// session_error redirect.
func (s *TokenService) MintSession(userID string) (*Session, error) {
	access, err := s.GenerateWithDuration(userID, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth: minting access token: %w", err)
	}
	refresh, err := s.GenerateWithDuration(userID, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth: minting refresh token: %w", err)
	}
	return &Session{AccessToken: access, RefreshToken: refresh}, nil
}

// GenerateWithDuration creates and signs a token for userID expiring after d.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies, which suits a single-server deployment.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the userID from the
// "sub" claim.
//
// The signature, expiry, and issuer are all checked. jwt.WithValidMethods
// pins the algorithm to HS256 so a token claiming alg "none" (or an
// asymmetric algorithm) is rejected outright.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	userID := c.Subject
	if userID == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return userID, nil
}
