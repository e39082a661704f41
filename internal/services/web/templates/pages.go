package templates

import (
	"time"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
	"github.com/louisbranch/pageshell/internal/services/web/querycache"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

// LearnPage lists posts, newest first.
func LearnPage(page PageContext, posts querycache.Result[[]queries.Post]) templ.Component {
	return component(func(h *html) {
		h.raw(`<section class="learn">`)
		h.element("h1", "", T(page.Loc, "learn.heading"))
		h.render(postList(page, posts))
		h.raw("</section>")
	})
}

// StatsPage is the stats heading and its content slot.
func StatsPage(page PageContext) templ.Component {
	return component(func(h *html) {
		h.raw(`<section class="stats">`)
		h.element("h1", "", T(page.Loc, "stats.heading"))
		h.raw("</section>")
	})
}

// LoginPage is the email sign-in form, or a sign-out button for a
// signed-in user.
func LoginPage(page PageContext) templ.Component {
	return component(func(h *html) {
		h.raw(`<section class="login">`)
		h.element("h1", "", T(page.Loc, "login.heading"))
		if page.UserName != "" {
			h.element("p", "user", T(page.Loc, "nav.signed_in_as", page.UserName))
			h.raw(`<button type="button" data-action="sign-out">`)
			h.text(T(page.Loc, "login.sign_out"))
			h.raw("</button></section>")
			return
		}
		h.raw(`<form method="post" data-login-form`)
		h.attr("action", routepath.AuthSignIn)
		h.raw("><label>")
		h.text(T(page.Loc, "login.email"))
		h.raw(`<input type="email" name="email" autocomplete="email" required></label><label>`)
		h.text(T(page.Loc, "login.password"))
		h.raw(`<input type="password" name="password" autocomplete="current-password" required></label><button type="submit">`)
		h.text(T(page.Loc, "login.submit"))
		h.raw("</button></form></section>")
	})
}

// SearchPage renders the search box and, for a non-blank term, its results.
func SearchPage(page PageContext, term string, results querycache.Result[[]queries.Post]) templ.Component {
	return component(func(h *html) {
		h.raw(`<section class="search">`)
		h.element("h1", "", T(page.Loc, "search.heading"))
		h.raw(`<form method="get"`)
		h.attr("action", routepath.Search)
		h.raw(`><input type="search"`)
		h.attr("name", routepath.PostsSearchQ)
		h.attr("value", term)
		h.attr("placeholder", T(page.Loc, "search.placeholder"))
		h.raw("></form>")
		if term != "" {
			h.render(postList(page, results))
		}
		h.raw("</section>")
	})
}

func postList(page PageContext, posts querycache.Result[[]queries.Post]) templ.Component {
	return component(func(h *html) {
		switch {
		case posts.IsError():
			h.element("p", "error", T(page.Loc, "core.unavailable"))
			return
		case len(posts.Data) == 0:
			h.element("p", "empty", T(page.Loc, "posts.empty"))
			return
		}
		h.raw(`<ul class="posts" data-posts-stream`)
		h.attr("data-stream-url", routepath.PostsStream)
		h.raw(">")
		for _, post := range posts.Data {
			h.raw("<li")
			h.attr("data-post", post.ID)
			h.raw(">")
			h.element("h2", "", post.Title)
			if post.Content != "" {
				h.element("p", "", post.Content)
			}
			h.raw("<time")
			h.attr("datetime", post.CreatedAt.UTC().Format(time.RFC3339))
			h.raw(">")
			h.text(post.CreatedAt.UTC().Format("2006-01-02"))
			h.raw("</time></li>")
		}
		h.raw("</ul>")
	})
}
