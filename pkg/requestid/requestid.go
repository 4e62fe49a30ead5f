// Package requestid tags every request with a unique identifier so a
// single login or profile-update flow can be traced through the logs.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header is the canonical request ID header.
const Header = "X-Request-ID"

// Incoming IDs longer than this are replaced; oversized values are a
// log-injection vector.
const maxLen = 128

type ctxKey struct{}

// Middleware propagates an incoming request ID or generates a fresh
// UUID, storing it in the context and echoing it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" || len(id) > maxLen {
			id = uuid.New().String()
		}

		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(set(r.Context(), id)))
	})
}

func set(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID or an empty string.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
