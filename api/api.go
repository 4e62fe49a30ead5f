// Package api exposes the identity service over HTTP: local
// register/login, the provider OAuth flows, and cookie-authenticated
// profile updates.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avocadoapp/identity/auth"
	"github.com/avocadoapp/identity/pkg/cookie"
	"github.com/avocadoapp/identity/pkg/logger"
	"github.com/avocadoapp/identity/pkg/requestid"
)

// SessionCookie is the name of the session token cookie set by the
// provider callback flow.
const SessionCookie = "session_token"

// defaultStateTTL bounds how long a provider consent redirect stays
// valid before the callback is rejected.
const defaultStateTTL = 10 * time.Minute

// HealthChecker reports readiness of one backend.
type HealthChecker func(ctx context.Context) error

// API wires the domain services into an HTTP handler.
type API struct {
	linker   *auth.AccountLinker
	mutator  *auth.ProfileMutator
	tokens   *auth.TokenService
	store    auth.CredentialStore
	states   auth.StateStore
	adapters map[auth.Provider]auth.ProviderAdapter
	cookies  *cookie.Manager

	cookieSecure bool
	postLoginURL string
	stateTTL     time.Duration
	newState     func() string
	health       map[string]HealthChecker
	logger       *slog.Logger
}

// Option configures the API.
type Option func(*API)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) { a.logger = l }
}

// WithSecureCookies marks session cookies Secure. Enable in any
// environment served over TLS.
func WithSecureCookies(secure bool) Option {
	return func(a *API) { a.cookieSecure = secure }
}

// WithPostLoginURL sets where the provider callback redirects after a
// successful login.
func WithPostLoginURL(url string) Option {
	return func(a *API) { a.postLoginURL = url }
}

// WithStateTTL overrides the OAuth state validity window.
func WithStateTTL(ttl time.Duration) Option {
	return func(a *API) { a.stateTTL = ttl }
}

// WithStateGenerator overrides the OAuth state source. Tests use it to
// make the flow deterministic.
func WithStateGenerator(fn func() string) Option {
	return func(a *API) { a.newState = fn }
}

// WithHealthcheck registers a named backend healthcheck served by
// GET /healthz.
func WithHealthcheck(name string, check HealthChecker) Option {
	return func(a *API) { a.health[name] = check }
}

// New creates the API over the given services. Adapters are keyed by
// the provider path segment they serve.
func New(
	linker *auth.AccountLinker,
	mutator *auth.ProfileMutator,
	tokens *auth.TokenService,
	store auth.CredentialStore,
	states auth.StateStore,
	adapters []auth.ProviderAdapter,
	opts ...Option,
) *API {
	a := &API{
		linker:       linker,
		mutator:      mutator,
		tokens:       tokens,
		store:        store,
		states:       states,
		adapters:     make(map[auth.Provider]auth.ProviderAdapter, len(adapters)),
		cookies:      cookie.New(),
		postLoginURL: "/",
		stateTTL:     defaultStateTTL,
		newState:     newStateID,
		health:       make(map[string]HealthChecker),
		logger:       logger.NewDiscard(),
	}
	for _, adapter := range adapters {
		a.adapters[adapter.Provider()] = adapter
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router builds the HTTP routing table.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)

	r.Get("/healthz", a.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)

		r.Get("/{provider}", a.handleProviderRedirect)
		r.Get("/{provider}/callback", a.handleProviderCallback)

		r.Group(func(r chi.Router) {
			r.Use(a.requireAccount)
			r.Post("/update-bio", a.handleUpdateBio)
			r.Post("/update-username", a.handleUpdateUsername)
			r.Post("/update-password", a.handleUpdatePassword)
			r.Post("/update-email", a.handleUpdateEmail)
			r.Post("/update-birthdate", a.handleUpdateBirthdate)
			r.Post("/update-profilepicture", a.handleUpdateAvatar)
		})
	})

	return r
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	for name, check := range a.health {
		if err := check(r.Context()); err != nil {
			a.logger.Error("healthcheck failed",
				slog.String("backend", name),
				logger.Error(err),
				logger.Component("api"),
			)
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
