package api

import (
	"net/http"

	"github.com/avocadoapp/identity/auth"
)

type fieldRequest struct {
	Bio             string `json:"bio"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Birthdate       string `json:"birthdate"`
	AvatarURL       string `json:"pfpUrl"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type updateResponse struct {
	Message string       `json:"message"`
	Profile auth.Profile `json:"profile"`
}

func (a *API) handleUpdate(w http.ResponseWriter, r *http.Request, message string,
	apply func(req fieldRequest, accountID string) (*auth.Account, error),
) {
	var req fieldRequest
	if err := decodeBody(r, &req); err != nil {
		a.respondError(w, r, err)
		return
	}

	acct, err := apply(req, mustAccount(r).AccountID)
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updateResponse{Message: message, Profile: acct.Public()})
}

func (a *API) handleUpdateBio(w http.ResponseWriter, r *http.Request) {
	a.handleUpdate(w, r, "bio updated", func(req fieldRequest, id string) (*auth.Account, error) {
		return a.mutator.UpdateBio(r.Context(), id, req.Bio)
	})
}

func (a *API) handleUpdateUsername(w http.ResponseWriter, r *http.Request) {
	a.handleUpdate(w, r, "username updated", func(req fieldRequest, id string) (*auth.Account, error) {
		return a.mutator.UpdateUsername(r.Context(), id, req.Username)
	})
}

func (a *API) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	a.handleUpdate(w, r, "password updated", func(req fieldRequest, id string) (*auth.Account, error) {
		return a.mutator.UpdatePassword(r.Context(), id, req.CurrentPassword, req.NewPassword)
	})
}

func (a *API) handleUpdateEmail(w http.ResponseWriter, r *http.Request) {
	a.handleUpdate(w, r, "email updated", func(req fieldRequest, id string) (*auth.Account, error) {
		return a.mutator.UpdateEmail(r.Context(), id, req.Email)
	})
}

func (a *API) handleUpdateBirthdate(w http.ResponseWriter, r *http.Request) {
	a.handleUpdate(w, r, "birthdate updated", func(req fieldRequest, id string) (*auth.Account, error) {
		return a.mutator.UpdateBirthdate(r.Context(), id, req.Birthdate)
	})
}

func (a *API) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	a.handleUpdate(w, r, "profile picture updated", func(req fieldRequest, id string) (*auth.Account, error) {
		return a.mutator.UpdateAvatarURL(r.Context(), id, req.AvatarURL)
	})
}
