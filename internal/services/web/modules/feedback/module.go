// Package feedback accepts feedback submissions from the shell popover.
package feedback

import (
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/module"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

// Module provides the feedback route.
type Module struct {
	base modulehandler.Base
}

// New returns a feedback module.
func New(base modulehandler.Base) Module {
	return Module{base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "feedback" }

// Mount wires the feedback route handler.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(), m.base))
	return module.Mount{Prefix: routepath.FeedbackPrefix, Handler: mux}, nil
}
