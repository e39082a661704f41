// Package ui serves the JSON API over one client's UI store: command
// palette, feedback modal, theme and layout.
package ui

import (
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/module"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

// Module provides UI state routes.
type Module struct {
	base modulehandler.Base
}

// New returns a ui module.
func New(base modulehandler.Base) Module {
	return Module{base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "ui" }

// Mount wires ui route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(m.base.Catalog()), m.base))
	return module.Mount{Prefix: routepath.UIPrefix, Handler: mux}, nil
}
