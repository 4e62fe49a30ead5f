package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

// FacebookConfig holds the Facebook OAuth application credentials.
type FacebookConfig struct {
	ClientID     string   `env:"FACEBOOK_CLIENT_ID,required"`
	ClientSecret string   `env:"FACEBOOK_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"FACEBOOK_REDIRECT_URL,required"`
	Scopes       []string `env:"FACEBOOK_SCOPES" envSeparator:"," envDefault:"email"`
}

// FacebookProfile is the shape returned by the Graph API /me endpoint.
type FacebookProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NormalizeFacebook maps a raw Facebook profile into the canonical
// identity tuple. The avatar is synthesized from the Graph CDN URL
// keyed by the numeric id; no photo field is consulted.
func NormalizeFacebook(p FacebookProfile) (NormalizedIdentity, error) {
	if p.ID == "" {
		return NormalizedIdentity{}, ErrMissingProviderID
	}

	return NormalizedIdentity{
		AccountID:      "facebook-" + p.ID,
		Username:       p.Name,
		Email:          p.Email,
		AvatarURL:      fmt.Sprintf("https://graph.facebook.com/%s/picture?type=large", p.ID),
		Provider:       ProviderFacebook,
		ProviderUserID: p.ID,
	}, nil
}

type facebookAdapter struct {
	conf   *oauth2.Config
	client *http.Client
}

// NewFacebookAdapter returns the Facebook provider adapter.
func NewFacebookAdapter(cfg FacebookConfig) ProviderAdapter {
	return &facebookAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     facebook.Endpoint,
		},
		client: newProviderClient(),
	}
}

func (a *facebookAdapter) Provider() Provider {
	return ProviderFacebook
}

func (a *facebookAdapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

func (a *facebookAdapter) ResolveIdentity(ctx context.Context, code string) (NormalizedIdentity, error) {
	tok, err := exchangeCode(ctx, a.conf, a.client, code)
	if err != nil {
		return NormalizedIdentity{}, err
	}

	var profile FacebookProfile
	if err := fetchProfile(ctx, a.client, "https://graph.facebook.com/me?fields=id,name,email", tok.AccessToken, &profile); err != nil {
		return NormalizedIdentity{}, err
	}

	return NormalizeFacebook(profile)
}

var _ ProviderAdapter = (*facebookAdapter)(nil)
