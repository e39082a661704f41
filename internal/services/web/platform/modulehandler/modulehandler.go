// Package modulehandler provides a composable base for web module handlers.
//
// Every module resolves the same per-request state: the browser client, the
// page localizer and the shell context. This package extracts that shared
// scaffold so modules embed it rather than duplicating it.
package modulehandler

import (
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageshell/internal/services/web/clientstate"
	webi18n "github.com/louisbranch/pageshell/internal/services/web/i18n"
	"github.com/louisbranch/pageshell/internal/services/web/palette"
	apperrors "github.com/louisbranch/pageshell/internal/services/web/platform/errors"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/platform/pagerender"
	"github.com/louisbranch/pageshell/internal/services/web/platform/webctx"
	"github.com/louisbranch/pageshell/internal/services/web/platform/weberror"
	webtemplates "github.com/louisbranch/pageshell/internal/services/web/templates"
	"github.com/louisbranch/pageshell/internal/services/web/uistate"
	"golang.org/x/text/language"
)

// DefaultAppName is shown when no app name is configured.
const DefaultAppName = "Pageshell"

// Base carries the shell data shared by module handlers. Embed this in module
// handler structs to get client resolution, localization, page rendering and
// error writing without duplicating boilerplate.
type Base struct {
	appName string
	catalog palette.Catalog
}

// NewBase builds a handler base.
func NewBase(appName string, catalog palette.Catalog) Base {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		appName = DefaultAppName
	}
	return Base{appName: appName, catalog: catalog}
}

// NewTestBase builds a handler base with the embedded palette catalog.
func NewTestBase() Base {
	return NewBase(DefaultAppName, palette.MustLoad())
}

// Catalog returns the command palette catalog.
func (b Base) Catalog() palette.Catalog {
	return b.catalog
}

// Client returns the request's browser client, or nil when the client
// middleware did not run.
func (b Base) Client(r *http.Request) *clientstate.Client {
	return webctx.ClientFromRequest(r)
}

// RequireClient returns the request's client or writes an unavailable error.
func (b Base) RequireClient(w http.ResponseWriter, r *http.Request) (*clientstate.Client, bool) {
	client := b.Client(r)
	if client == nil {
		b.WriteError(w, r, apperrors.E(apperrors.KindUnavailable, "client state is not available"))
		return nil, false
	}
	return client, true
}

// PageLocalizer resolves the request language, persisting an explicit
// ?lang= choice as a cookie.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webtemplates.Localizer, language.Tag) {
	if err := webi18n.Register(); err != nil {
		log.Printf("register message catalogs: %v", err)
	}
	tag, persist := webi18n.ResolveTag(r)
	if persist {
		webi18n.SetLanguageCookie(w, tag)
	}
	return webi18n.Printer(tag), tag
}

// PageContext builds the shell context for r. Without a client the shell
// renders default UI state.
func (b Base) PageContext(w http.ResponseWriter, r *http.Request, title string) webtemplates.PageContext {
	loc, tag := b.PageLocalizer(w, r)
	page := webtemplates.PageContext{
		Lang:    tag.String(),
		Loc:     loc,
		AppName: b.appName,
		Title:   title,
		UI:      uistate.Defaults(),
		Palette: b.catalog,
	}
	if r != nil && r.URL != nil {
		page.CurrentPath = r.URL.Path
	}
	if client := b.Client(r); client != nil {
		page.UI = client.UI.State()
		if user := client.Auth.CurrentUser(httpx.RequestContext(r)); user != nil {
			page.UserName = user.DisplayName()
			page.AvatarURL = user.AvatarURL()
		}
	}
	return page
}

// WritePage renders body inside the shell. body receives the resolved
// context so it can localize its own copy.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, page webtemplates.PageContext, statusCode int, body templ.Component) {
	if err := pagerender.Write(w, r, pagerender.Page{Context: page, StatusCode: statusCode, Body: body}); err != nil {
		b.WriteError(w, r, err)
	}
}

// WriteError writes a localized error response: JSON for API routes, the
// shell error page otherwise.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.Write(w, r, err, b.errorContext(w, r))
}

// WriteNotFound writes a 404 response.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	b.WriteError(w, r, apperrors.E(apperrors.KindNotFound, "not found"))
}

func (b Base) errorContext(w http.ResponseWriter, r *http.Request) webtemplates.PageContext {
	loc, tag := b.PageLocalizer(w, r)
	page := webtemplates.PageContext{
		Lang:    tag.String(),
		Loc:     loc,
		AppName: b.appName,
		UI:      uistate.Defaults(),
		Palette: b.catalog,
	}
	if client := b.Client(r); client != nil {
		page.UI = client.UI.State()
	}
	return page
}

// StateResponse is the body of every UI state mutation.
type StateResponse struct {
	State uistate.State `json:"state"`
	Href  string        `json:"href,omitempty"`
}

// WriteState writes the UI state after a mutation.
func (b Base) WriteState(w http.ResponseWriter, state uistate.State, href string) {
	_ = httpx.WriteJSON(w, http.StatusOK, StateResponse{State: state, Href: href})
}
