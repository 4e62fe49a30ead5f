package auth

import (
	"errors"
	"time"

	"github.com/avocadoapp/identity/pkg/jwt"
)

// SessionTokenTTL is the validity window of an issued session token.
const SessionTokenTTL = 168 * time.Hour

// SessionClaims is the payload of a session token. The single identity
// claim carries the account's email, or its account id for accounts
// without one; verification never consults the store.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens bound to an
// account's email. Issuing a new token supersedes the previous one as
// the account's active session, but the old token remains
// cryptographically verifiable until its own expiry; callers that need
// hard revocation must not rely on rotation alone.
type TokenService struct {
	codec *jwt.Codec
	ttl   time.Duration
	now   func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithTokenTTL overrides the default 168h validity window.
func WithTokenTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) { s.ttl = ttl }
}

// WithTokenClock overrides the time source. Tests use it to issue
// already-expired tokens.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a token service with the given signing key.
func NewTokenService(signingKey string, opts ...TokenOption) (*TokenService, error) {
	codec, err := jwt.NewCodec(signingKey)
	if err != nil {
		return nil, err
	}

	s := &TokenService{
		codec: codec,
		ttl:   SessionTokenTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue produces a signed token carrying the login identifier, valid
// for the configured window from now.
func (s *TokenService) Issue(identifier string) (string, error) {
	now := s.now()
	return s.codec.Sign(SessionClaims{
		Email: identifier,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: now.Add(s.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	})
}

// Verify checks signature and expiry and returns the bound identifier.
func (s *TokenService) Verify(token string) (string, error) {
	var claims SessionClaims
	if err := s.codec.Verify(token, &claims); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if claims.Email == "" {
		return "", ErrTokenInvalid
	}
	return claims.Email, nil
}
