// Package auth exposes the client's backend session over JSON.
package auth

import (
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/module"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

// Module provides auth routes.
type Module struct {
	base modulehandler.Base
}

// New returns an auth module.
func New(base modulehandler.Base) Module {
	return Module{base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "auth" }

// Mount wires auth route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(), m.base))
	return module.Mount{Prefix: routepath.AuthPrefix, Handler: mux}, nil
}
