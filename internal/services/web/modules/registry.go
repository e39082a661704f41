package modules

import (
	"github.com/louisbranch/pageshell/internal/services/web/modules/auth"
	"github.com/louisbranch/pageshell/internal/services/web/modules/feedback"
	"github.com/louisbranch/pageshell/internal/services/web/modules/pages"
	"github.com/louisbranch/pageshell/internal/services/web/modules/posts"
	"github.com/louisbranch/pageshell/internal/services/web/modules/ui"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
)

// DefaultPageModules returns the HTML shell modules.
func DefaultPageModules(base modulehandler.Base) []Module {
	return []Module{
		pages.New(base),
	}
}

// DefaultAPIModules returns the JSON modules mounted under the API prefix.
func DefaultAPIModules(base modulehandler.Base) []Module {
	return []Module{
		ui.New(base),
		feedback.New(base),
		auth.New(base),
		posts.New(base),
	}
}
