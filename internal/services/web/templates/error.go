package templates

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

// ErrorTitle returns the page title for an error status.
func ErrorTitle(statusCode int, loc Localizer) string {
	if statusCode == http.StatusNotFound {
		return T(loc, "core.not_found")
	}
	return T(loc, "error.title")
}

func errorMessage(statusCode int, loc Localizer) string {
	if statusCode == http.StatusNotFound {
		return T(loc, "core.not_found")
	}
	return T(loc, "core.unavailable")
}

// ErrorPage is the body shown inside the shell for 404 and 5xx responses.
func ErrorPage(page PageContext, statusCode int) templ.Component {
	return component(func(h *html) {
		h.raw(`<section class="error-page">`)
		h.element("h1", "", T(page.Loc, "error.title"))
		h.element("p", "", errorMessage(statusCode, page.Loc))
		h.raw("<a")
		h.attr("href", routepath.Root)
		h.raw(">")
		h.text(T(page.Loc, "error.back_home"))
		h.raw("</a></section>")
	})
}
