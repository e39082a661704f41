package pages

import (
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleLearn)
	mux.HandleFunc(http.MethodGet+" "+routepath.Stats, h.handleStats)
	mux.HandleFunc(http.MethodGet+" "+routepath.Search, h.handleSearch)
	mux.HandleFunc(http.MethodGet+" "+routepath.Login, h.handleLogin)
	mux.HandleFunc(routepath.Root, h.WriteNotFound)
}
