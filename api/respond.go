package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/avocadoapp/identity/auth"
	"github.com/avocadoapp/identity/pkg/logger"
	"github.com/avocadoapp/identity/pkg/requestid"
	"github.com/avocadoapp/identity/pkg/validator"
)

func newStateID() string {
	return uuid.NewString()
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError maps a domain error onto an HTTP status. Client-facing
// errors carry their own message; anything unclassified is logged and
// returned as an opaque 500.
func (a *API) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		a.logger.Error("request failed",
			slog.String("request_id", requestid.FromContext(r.Context())),
			slog.String("path", r.URL.Path),
			logger.Error(err),
			logger.Component("api"),
		)
		message = "internal server error"
	}

	respondJSON(w, status, map[string]string{"error": message})
}

func statusFor(err error) int {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrUsernameTaken),
		errors.Is(err, auth.ErrAccountIDTaken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrEmailChangeThrottled):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrStateNotFound):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrAccountNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return validator.ValidationErrors{{Field: "body", Message: "invalid request body"}}
	}
	return nil
}
