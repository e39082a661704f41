package app

import (
	module "github.com/louisbranch/pageshell/internal/services/web/module"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
)

// Config captures the composition inputs for the web root handler.
type Config struct {
	PageModules         []module.Module
	APIModules          []module.Module
	RequestSchemePolicy httpx.SchemePolicy
}
