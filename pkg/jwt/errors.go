package jwt

import "errors"

var (
	ErrMissingSigningKey   = errors.New("jwt: signing key is required")
	ErrSigningKeyTooShort  = errors.New("jwt: signing key must be at least 32 bytes")
	ErrMissingClaims       = errors.New("jwt: claims are required")
	ErrTokenMalformed      = errors.New("jwt: malformed token")
	ErrSignatureInvalid    = errors.New("jwt: signature mismatch")
	ErrUnexpectedAlgorithm = errors.New("jwt: unexpected signing algorithm")
	ErrTokenExpired        = errors.New("jwt: token expired")
)
