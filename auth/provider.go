package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// providerTimeout bounds every outbound provider call. A slow provider
// is an authentication failure, not something to wait out.
const providerTimeout = 10 * time.Second

func newProviderClient() *http.Client {
	return &http.Client{Timeout: providerTimeout}
}

// exchangeCode swaps an authorization code for an access token. The
// oauth2 transport reuses our bounded client via the context.
func exchangeCode(ctx context.Context, conf *oauth2.Config, client *http.Client, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Join(ErrProviderFailure, err)
	}
	return tok, nil
}

// fetchProfile performs an authenticated GET against a provider's
// profile endpoint and decodes the JSON response.
func fetchProfile(ctx context.Context, client *http.Client, url, accessToken string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Join(ErrProviderFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := client.Do(req)
	if err != nil {
		return errors.Join(ErrProviderFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrProviderFailure, url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrProviderFailure, err)
	}
	return nil
}
