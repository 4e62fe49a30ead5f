package auth

import "context"

// NormalizedIdentity is the canonical tuple produced from a provider
// profile or a local registration form. Email is the unifying key for
// account linkage: two providers presenting the same email resolve to
// one account.
type NormalizedIdentity struct {
	AccountID      string
	Username       string
	Email          string
	AvatarURL      string
	Provider       Provider
	ProviderUserID string
}

// ProviderAdapter is implemented by each supported OAuth provider. The
// set is closed: google, facebook, discord, and twitter. An adapter
// owns its authorization URL and its token-exchange/profile-fetch
// sequence, and normalizes the fetched profile into a
// NormalizedIdentity.
//
// ResolveIdentity must bound provider calls with a timeout; a timeout
// or non-2xx provider response is an authentication failure surfaced
// as ErrProviderFailure, never retried.
type ProviderAdapter interface {
	Provider() Provider
	AuthURL(state string) string
	ResolveIdentity(ctx context.Context, code string) (NormalizedIdentity, error)
}
