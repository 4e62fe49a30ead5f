package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/avocadoapp/identity/auth"
)

type accountCtxKey struct{}

// requireAccount authenticates the request from the session cookie. A
// missing cookie is 401, a bad or expired token is 403, and a token
// whose email no longer resolves to an account is 404.
func (a *API) requireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := a.cookies.Get(r, SessionCookie)
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}

		identifier, err := a.tokens.Verify(token)
		if err != nil {
			a.respondError(w, r, err)
			return
		}

		acct, err := a.resolveIdentifier(r.Context(), identifier)
		if err != nil {
			a.respondError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), acct)))
	})
}

// resolveIdentifier matches the identifier shape tokens are issued
// with: emails for accounts that have one, account ids for accounts
// whose provider withheld the email.
func (a *API) resolveIdentifier(ctx context.Context, identifier string) (*auth.Account, error) {
	if strings.Contains(identifier, "@") {
		return a.store.FindByEmail(ctx, identifier)
	}
	return a.store.FindByAccountID(ctx, identifier)
}

func withAccount(ctx context.Context, acct *auth.Account) context.Context {
	return context.WithValue(ctx, accountCtxKey{}, acct)
}

// AccountFromContext returns the authenticated account set by
// requireAccount.
func AccountFromContext(ctx context.Context) (*auth.Account, bool) {
	acct, ok := ctx.Value(accountCtxKey{}).(*auth.Account)
	return acct, ok
}

// mustAccount is called only below requireAccount in the middleware
// chain, where the account is guaranteed present.
func mustAccount(r *http.Request) *auth.Account {
	acct, ok := AccountFromContext(r.Context())
	if !ok {
		panic("api: account missing from authenticated request context")
	}
	return acct
}
