package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avocadoapp/identity/auth"
	"github.com/avocadoapp/identity/pkg/cookie"
	"github.com/avocadoapp/identity/pkg/logger"
	"github.com/avocadoapp/identity/pkg/validator"
)

func (a *API) adapterFor(r *http.Request) (auth.ProviderAdapter, bool) {
	adapter, ok := a.adapters[auth.Provider(chi.URLParam(r, "provider"))]
	return adapter, ok
}

// handleProviderRedirect issues a one-time state, stores it, and sends
// the browser to the provider's consent screen.
func (a *API) handleProviderRedirect(w http.ResponseWriter, r *http.Request) {
	adapter, ok := a.adapterFor(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	state := a.newState()
	if err := a.states.Store(r.Context(), state, a.stateTTL); err != nil {
		a.respondError(w, r, err)
		return
	}

	http.Redirect(w, r, adapter.AuthURL(state), http.StatusFound)
}

// handleProviderCallback completes the OAuth flow: consume the state,
// resolve the provider identity, login-or-register, and hand the
// browser a session cookie.
func (a *API) handleProviderCallback(w http.ResponseWriter, r *http.Request) {
	adapter, ok := a.adapterFor(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		a.respondError(w, r, validator.ValidationErrors{{Field: "query", Message: "missing state or code"}})
		return
	}

	if err := a.states.Consume(r.Context(), state); err != nil {
		a.respondError(w, r, err)
		return
	}

	identity, err := adapter.ResolveIdentity(r.Context(), code)
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	res, err := a.linker.LoginOrRegister(r.Context(), identity)
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	a.logger.Info("provider login",
		logger.AccountID(res.Profile.AccountID),
		logger.Provider(string(identity.Provider)),
		logger.Component("api"),
	)

	a.setSessionCookie(w, res.Token)
	http.Redirect(w, r, a.postLoginURL, http.StatusFound)
}

func (a *API) setSessionCookie(w http.ResponseWriter, token string) {
	a.cookies.Set(w, SessionCookie, token,
		cookie.WithMaxAge(int(auth.SessionTokenTTL.Seconds())),
		cookie.WithSecure(a.cookieSecure),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	)
}
