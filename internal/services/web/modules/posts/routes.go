package posts

import (
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Posts, h.handleList)
	mux.HandleFunc(http.MethodPost+" "+routepath.Posts, h.handleCreate)
	mux.HandleFunc(routepath.Posts, httpx.MethodNotAllowed(http.MethodGet, http.MethodPost))
	mux.HandleFunc(http.MethodGet+" "+routepath.PostsSearch, h.handleSearch)
	mux.HandleFunc(http.MethodGet+" "+routepath.PostsStream, h.handleStream)
	mux.HandleFunc(http.MethodGet+" "+routepath.PostPattern, h.handleGet)
	mux.HandleFunc(http.MethodPatch+" "+routepath.PostPattern, h.handleUpdate)
	mux.HandleFunc(http.MethodDelete+" "+routepath.PostPattern, h.handleDelete)
	mux.HandleFunc(http.MethodPost+" "+routepath.PostPattern, httpx.MethodNotAllowed(http.MethodGet, http.MethodPatch, http.MethodDelete))
	mux.HandleFunc(routepath.PostsPrefix, h.WriteNotFound)
}
