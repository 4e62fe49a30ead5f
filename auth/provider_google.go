package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleConfig holds the Google OAuth application credentials,
// validated as required at startup.
type GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_CLIENT_ID,required"`
	ClientSecret string   `env:"GOOGLE_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GOOGLE_REDIRECT_URL,required"`
	Scopes       []string `env:"GOOGLE_SCOPES" envSeparator:"," envDefault:"https://www.googleapis.com/auth/userinfo.profile,https://www.googleapis.com/auth/userinfo.email"`
}

// GoogleProfile is the shape returned by the userinfo endpoint.
type GoogleProfile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Picture       string `json:"picture"`
}

// NormalizeGoogle maps a raw Google profile into the canonical
// identity tuple. Only a verified email is carried over; an unverified
// one is treated as absent.
func NormalizeGoogle(p GoogleProfile) (NormalizedIdentity, error) {
	if p.ID == "" {
		return NormalizedIdentity{}, ErrMissingProviderID
	}

	email := ""
	if p.VerifiedEmail {
		email = p.Email
	}

	return NormalizedIdentity{
		AccountID:      "google-" + p.ID,
		Username:       p.Name,
		Email:          email,
		AvatarURL:      p.Picture,
		Provider:       ProviderGoogle,
		ProviderUserID: p.ID,
	}, nil
}

type googleAdapter struct {
	conf   *oauth2.Config
	client *http.Client
}

// NewGoogleAdapter returns the Google provider adapter.
func NewGoogleAdapter(cfg GoogleConfig) ProviderAdapter {
	return &googleAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		client: newProviderClient(),
	}
}

func (a *googleAdapter) Provider() Provider {
	return ProviderGoogle
}

func (a *googleAdapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

func (a *googleAdapter) ResolveIdentity(ctx context.Context, code string) (NormalizedIdentity, error) {
	tok, err := exchangeCode(ctx, a.conf, a.client, code)
	if err != nil {
		return NormalizedIdentity{}, err
	}

	var profile GoogleProfile
	if err := fetchProfile(ctx, a.client, "https://www.googleapis.com/oauth2/v2/userinfo", tok.AccessToken, &profile); err != nil {
		return NormalizedIdentity{}, err
	}

	return NormalizeGoogle(profile)
}

var _ ProviderAdapter = (*googleAdapter)(nil)
