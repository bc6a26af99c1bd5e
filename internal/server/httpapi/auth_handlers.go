package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fittrack/internal/server/auth"
	srvmodels "github.com/dmitrijs2005/fittrack/internal/server/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		a.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.writeRepoError(w, r, err)
		return
	}

	user, err := a.users.Create(r.Context(), req.Username, hash)
	if err != nil {
		if errors.Is(err, srvmodels.ErrAlreadyExists) {
			a.writeError(w, http.StatusBadRequest, "username already taken")
			return
		}
		a.writeRepoError(w, r, err)
		return
	}

	a.issueToken(w, r, user.ID)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !a.decode(w, r, &req) {
		return
	}

	user, err := a.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, srvmodels.ErrNotFound) {
			a.writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		a.writeRepoError(w, r, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		a.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	a.issueToken(w, r, user.ID)
}

func (a *API) issueToken(w http.ResponseWriter, r *http.Request, userID string) {
	token, err := auth.GenerateToken(userID, a.secretKey, a.tokenValidity)
	if err != nil {
		a.writeRepoError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// userID returns the id placed in the context by the auth middleware.
func userID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
