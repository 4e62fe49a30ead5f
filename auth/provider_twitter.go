package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

var twitterEndpoint = oauth2.Endpoint{
	AuthURL:  "https://twitter.com/i/oauth2/authorize",
	TokenURL: "https://api.twitter.com/2/oauth2/token",
}

// TwitterConfig holds the Twitter OAuth application credentials.
type TwitterConfig struct {
	ClientID     string   `env:"TWITTER_CLIENT_ID,required"`
	ClientSecret string   `env:"TWITTER_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"TWITTER_REDIRECT_URL,required"`
	Scopes       []string `env:"TWITTER_SCOPES" envSeparator:"," envDefault:"users.read,tweet.read"`
}

// TwitterProfile is the shape returned by /2/users/me. Twitter never
// grants email scope through this API, so Email stays empty unless the
// provider changes policy.
type TwitterProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"profile_image_url"`
}

// NormalizeTwitter maps a raw Twitter profile into the canonical
// identity tuple. A withheld email is fabricated as "<id>@twitter.com";
// the fabricated address participates in the global email uniqueness
// constraint like any other.
func NormalizeTwitter(p TwitterProfile) (NormalizedIdentity, error) {
	if p.ID == "" {
		return NormalizedIdentity{}, ErrMissingProviderID
	}

	email := p.Email
	if email == "" {
		email = p.ID + "@twitter.com"
	}

	return NormalizedIdentity{
		AccountID:      "twitter-" + p.ID,
		Username:       p.Username,
		Email:          email,
		AvatarURL:      p.AvatarURL,
		Provider:       ProviderTwitter,
		ProviderUserID: p.ID,
	}, nil
}

type twitterAdapter struct {
	conf   *oauth2.Config
	client *http.Client
}

// NewTwitterAdapter returns the Twitter provider adapter.
func NewTwitterAdapter(cfg TwitterConfig) ProviderAdapter {
	return &twitterAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     twitterEndpoint,
		},
		client: newProviderClient(),
	}
}

func (a *twitterAdapter) Provider() Provider {
	return ProviderTwitter
}

func (a *twitterAdapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

func (a *twitterAdapter) ResolveIdentity(ctx context.Context, code string) (NormalizedIdentity, error) {
	tok, err := exchangeCode(ctx, a.conf, a.client, code)
	if err != nil {
		return NormalizedIdentity{}, err
	}

	var resp struct {
		Data TwitterProfile `json:"data"`
	}
	if err := fetchProfile(ctx, a.client, "https://api.twitter.com/2/users/me?user.fields=profile_image_url", tok.AccessToken, &resp); err != nil {
		return NormalizedIdentity{}, err
	}

	return NormalizeTwitter(resp.Data)
}

var _ ProviderAdapter = (*twitterAdapter)(nil)
