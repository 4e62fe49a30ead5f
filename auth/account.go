// Package auth implements the identity unification and credential
// lifecycle core: normalizing provider profiles into canonical
// identities, linking them to accounts keyed by email, issuing and
// rotating signed session tokens, and applying validated profile
// mutations.
package auth

import (
	"context"
	"time"
)

// Provider identifies where an account's credential originated.
type Provider string

const (
	ProviderLocal    Provider = "local"
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderDiscord  Provider = "discord"
	ProviderTwitter  Provider = "twitter"
)

// Account is the canonical user record. One account exists per email
// and per username; both constraints are enforced by unique indexes in
// the storage backend.
//
// AccountID, Provider, and ProviderUserID are write-once. For social
// accounts AccountID is "<provider>-<providerUserID>"; for local
// accounts it equals the email at creation time.
type Account struct {
	AccountID       string    `bson:"accountId"`
	Username        string    `bson:"username"`
	Email           string    `bson:"email"`
	PasswordHash    string    `bson:"passwordHash,omitempty"`
	Provider        Provider  `bson:"provider"`
	ProviderUserID  string    `bson:"providerUserId,omitempty"`
	Birthdate       string    `bson:"birthdate,omitempty"`
	Bio             string    `bson:"bio,omitempty"`
	AvatarURL       string    `bson:"avatarUrl,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
	LastEmailChange time.Time `bson:"lastEmailChange,omitempty"`
	SessionToken    string    `bson:"sessionToken,omitempty"`
}

// HasLocalCredential reports whether the account can log in with a
// password.
func (a *Account) HasLocalCredential() bool {
	return a.PasswordHash != ""
}

// Profile is the externally visible subset of an account. Password
// hashes and session tokens never leave the package through it.
type Profile struct {
	AccountID string   `json:"accountId"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Provider  Provider `json:"provider"`
	Birthdate string   `json:"birthdate,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
}

// Public returns the account's public profile.
func (a *Account) Public() Profile {
	return Profile{
		AccountID: a.AccountID,
		Username:  a.Username,
		Email:     a.Email,
		Provider:  a.Provider,
		Birthdate: a.Birthdate,
		Bio:       a.Bio,
		AvatarURL: a.AvatarURL,
	}
}

// AccountUpdate is a partial update; nil fields are left untouched by
// ApplyUpdate. The store always refreshes UpdatedAt.
type AccountUpdate struct {
	Username        *string
	Email           *string
	PasswordHash    *string
	Bio             *string
	Birthdate       *string
	AvatarURL       *string
	LastEmailChange *time.Time
}

// CredentialStore is the durable mapping from canonical identity to
// account record. Create must be atomic with respect to other
// concurrent creates: a duplicate email or username is detected by the
// backend's unique constraint at commit time and reported as
// ErrEmailTaken or ErrUsernameTaken. Existence checks are advisory
// only.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByAccountID(ctx context.Context, accountID string) (*Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, acct *Account) error
	ApplyUpdate(ctx context.Context, accountID string, upd AccountUpdate) (*Account, error)
	SetToken(ctx context.Context, accountID, token string) error
}

// StateStore persists OAuth state tokens for CSRF protection. Consume
// must atomically check and remove the state so a replayed callback
// cannot pass twice; it returns ErrStateNotFound for unknown, expired,
// or already-consumed states.
type StateStore interface {
	Store(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) error
}
