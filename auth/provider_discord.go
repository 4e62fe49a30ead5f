package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Discord has no x/oauth2 endpoint package; the endpoints are stable
// and documented at https://discord.com/developers/docs/topics/oauth2.
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// DiscordConfig holds the Discord OAuth application credentials.
type DiscordConfig struct {
	ClientID     string   `env:"DISCORD_CLIENT_ID,required"`
	ClientSecret string   `env:"DISCORD_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"DISCORD_REDIRECT_URL,required"`
	Scopes       []string `env:"DISCORD_SCOPES" envSeparator:"," envDefault:"identify,email"`
}

// DiscordProfile is the shape returned by /api/users/@me. Email may be
// null when the account has no verified email; Avatar is a hash, not a
// URL.
type DiscordProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// NormalizeDiscord maps a raw Discord profile into the canonical
// identity tuple, synthesizing the avatar URL from the id and avatar
// hash.
func NormalizeDiscord(p DiscordProfile) (NormalizedIdentity, error) {
	if p.ID == "" {
		return NormalizedIdentity{}, ErrMissingProviderID
	}

	avatarURL := ""
	if p.Avatar != "" {
		avatarURL = fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", p.ID, p.Avatar)
	}

	return NormalizedIdentity{
		AccountID:      "discord-" + p.ID,
		Username:       p.Username,
		Email:          p.Email,
		AvatarURL:      avatarURL,
		Provider:       ProviderDiscord,
		ProviderUserID: p.ID,
	}, nil
}

type discordAdapter struct {
	conf   *oauth2.Config
	client *http.Client
}

// NewDiscordAdapter returns the Discord provider adapter. Discord uses
// an explicit two-step flow: the authorization code is exchanged for an
// access token, then the profile is fetched from /users/@me with it.
func NewDiscordAdapter(cfg DiscordConfig) ProviderAdapter {
	return &discordAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     discordEndpoint,
		},
		client: newProviderClient(),
	}
}

func (a *discordAdapter) Provider() Provider {
	return ProviderDiscord
}

func (a *discordAdapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state)
}

func (a *discordAdapter) ResolveIdentity(ctx context.Context, code string) (NormalizedIdentity, error) {
	tok, err := exchangeCode(ctx, a.conf, a.client, code)
	if err != nil {
		return NormalizedIdentity{}, err
	}

	var profile DiscordProfile
	if err := fetchProfile(ctx, a.client, "https://discord.com/api/users/@me", tok.AccessToken, &profile); err != nil {
		return NormalizedIdentity{}, err
	}

	return NormalizeDiscord(profile)
}

var _ ProviderAdapter = (*discordAdapter)(nil)
