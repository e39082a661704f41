// Package pages serves the shell pages: learn, stats and search.
package pages

import (
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/module"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

// Module provides page routes and the health endpoint.
type Module struct {
	base modulehandler.Base
}

// New returns a pages module.
func New(base modulehandler.Base) Module {
	return Module{base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "pages" }

// Mount wires page route handlers at the root.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(), m.base))
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
