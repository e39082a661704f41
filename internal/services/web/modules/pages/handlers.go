package pages

import (
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/pageshell/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleLearn(w http.ResponseWriter, r *http.Request) {
	page := h.PageContext(w, r, "")
	page.Title = webtemplates.T(page.Loc, "nav.learn")
	posts := h.service.posts(r.Context(), h.Client(r))
	h.WritePage(w, r, page, http.StatusOK, webtemplates.LearnPage(page, posts))
}

func (h handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	page := h.PageContext(w, r, "")
	page.Title = webtemplates.T(page.Loc, "nav.stats")
	h.WritePage(w, r, page, http.StatusOK, webtemplates.StatsPage(page))
}

func (h handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	page := h.PageContext(w, r, "")
	page.Title = webtemplates.T(page.Loc, "nav.search")
	term, results := h.service.search(r.Context(), h.Client(r), r.URL.Query().Get(routepath.PostsSearchQ))
	h.WritePage(w, r, page, http.StatusOK, webtemplates.SearchPage(page, term, results))
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	page := h.PageContext(w, r, "")
	page.Title = webtemplates.T(page.Loc, "login.heading")
	h.WritePage(w, r, page, http.StatusOK, webtemplates.LoginPage(page))
}
