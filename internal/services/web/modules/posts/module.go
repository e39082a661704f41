// Package posts serves the posts JSON API and its change stream.
package posts

import (
	"net/http"
	"time"

	"github.com/louisbranch/pageshell/internal/services/web/module"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

// DefaultKeepAlive is the interval between stream comments that keep idle
// connections open through proxies.
const DefaultKeepAlive = 25 * time.Second

// Module provides posts routes.
type Module struct {
	base      modulehandler.Base
	keepAlive time.Duration
}

// New returns a posts module.
func New(base modulehandler.Base) Module {
	return Module{base: base, keepAlive: DefaultKeepAlive}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "posts" }

// Mount wires posts route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(), m.base)
	if m.keepAlive > 0 {
		h.keepAlive = m.keepAlive
	}
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.PostsPrefix, Handler: mux}, nil
}
