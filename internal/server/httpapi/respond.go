package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	srvmodels "github.com/dmitrijs2005/fittrack/internal/server/models"
)

type okResponse struct {
	OK bool `json:"ok"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error(context.Background(), "failed to write response", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, errorResponse{Error: msg})
}

// writeRepoError maps repository sentinel errors onto status codes. Anything
// unexpected becomes a 500 and gets logged.
func (a *API) writeRepoError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, srvmodels.ErrNotFound):
		a.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, srvmodels.ErrAlreadyExists):
		a.writeError(w, http.StatusBadRequest, "already exists")
	default:
		a.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		a.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, okResponse{OK: true})
}
