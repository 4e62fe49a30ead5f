package auth

import "errors"

// Account and conflict errors. Uniqueness conflicts are raised by the
// storage layer's unique indexes, never by application pre-checks alone.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrAccountIDTaken  = errors.New("account id already exists")
)

// Credential errors. ErrInvalidCredentials deliberately covers both an
// unknown email and a wrong password so login responses cannot be used
// to enumerate accounts.
var (
	ErrInvalidCredentials = errors.New("wrong email and password combination")
	ErrWeakPassword       = errors.New("password must be at least 8 characters long")
)

// Token errors.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Profile mutation errors.
var (
	ErrEmailChangeThrottled = errors.New("email can only be changed once per month")
)

// Provider and flow errors.
var (
	ErrMissingProviderID  = errors.New("provider profile has no id")
	ErrProviderFailure    = errors.New("provider request failed")
	ErrStateNotFound      = errors.New("oauth state not found or expired")
	ErrRegistrationFailed = errors.New("registration failed")
)
