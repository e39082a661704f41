package auth

import (
	"context"
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/backend"
	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

type sessionResponse struct {
	Session *backend.Session `json:"session"`
}

type userResponse struct {
	User *backend.User `json:"user"`
}

func (h handlers) handleSession(w http.ResponseWriter, r *http.Request) {
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	session, err := h.service.session(r.Context(), client)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse{Session: session})
}

func (h handlers) handleUser(w http.ResponseWriter, r *http.Request) {
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	user, err := h.service.user(r.Context(), client)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, userResponse{User: user})
}

func (h handlers) handleSignIn(w http.ResponseWriter, r *http.Request) {
	h.handleCredentials(w, r, h.service.signIn)
}

func (h handlers) handleSignUp(w http.ResponseWriter, r *http.Request) {
	h.handleCredentials(w, r, h.service.signUp)
}

func (h handlers) handleCredentials(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, client *clientstate.Client, creds backend.Credentials) (*backend.Session, error),
) {
	var creds backend.Credentials
	if err := httpx.DecodeJSON(r, &creds); err != nil {
		h.WriteError(w, r, err)
		return
	}
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	session, err := fn(r.Context(), client, creds)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse{Session: session})
}

func (h handlers) handleSignOut(w http.ResponseWriter, r *http.Request) {
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	if err := h.service.signOut(r.Context(), client); err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, sessionResponse{})
}
