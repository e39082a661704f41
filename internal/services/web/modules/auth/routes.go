package auth

import (
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthSession, h.handleSession)
	mux.HandleFunc(http.MethodGet+" "+routepath.AuthUser, h.handleUser)
	for path, fn := range map[string]http.HandlerFunc{
		routepath.AuthSignIn:  h.handleSignIn,
		routepath.AuthSignUp:  h.handleSignUp,
		routepath.AuthSignOut: h.handleSignOut,
	} {
		mux.HandleFunc(http.MethodPost+" "+path, fn)
		mux.HandleFunc(http.MethodGet+" "+path, httpx.MethodNotAllowed(http.MethodPost))
	}
	mux.HandleFunc(routepath.AuthPrefix, h.WriteNotFound)
}
