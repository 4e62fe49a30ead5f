package api

import (
	"net/http"

	"github.com/avocadoapp/identity/auth"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Birthdate string `json:"birthdate"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		a.respondError(w, r, err)
		return
	}

	res, err := a.linker.RegisterLocal(r.Context(), auth.Registration{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Birthdate: req.Birthdate,
	})
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	a.setSessionCookie(w, res.Token)
	respondJSON(w, http.StatusCreated, authResponse{
		AccessToken: res.Token,
		Username:    res.Profile.Username,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		a.respondError(w, r, err)
		return
	}

	res, err := a.linker.LoginLocal(r.Context(), req.Email, req.Password)
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	a.setSessionCookie(w, res.Token)
	respondJSON(w, http.StatusOK, authResponse{
		AccessToken: res.Token,
		Username:    res.Profile.Username,
	})
}
