package templates

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageshell/internal/services/web/palette"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
	"github.com/louisbranch/pageshell/internal/services/web/uistate"
)

// PageContext provides shared layout context for pages.
type PageContext struct {
	Lang        string
	Loc         Localizer
	AppName     string
	Title       string
	CurrentPath string
	UI          uistate.State
	Palette     palette.Catalog
	UserName    string
	// AvatarURL is the signed-in user's avatar, if their profile has one.
	AvatarURL string
	// FeedbackMessage is a localized validation message shown in the
	// feedback form.
	FeedbackMessage string
}

type navLink struct {
	key  string
	href string
}

var navigation = []navLink{
	{key: "nav.learn", href: routepath.Root},
	{key: "nav.stats", href: routepath.Stats},
	{key: "nav.search", href: routepath.Search},
}

// ThemeClass is the class forced on the document root. The system theme
// forces nothing and defers to the browser's color scheme.
func ThemeClass(theme uistate.Theme) string {
	switch theme {
	case uistate.ThemeLight, uistate.ThemeDark:
		return string(theme)
	default:
		return ""
	}
}

func pageTitle(page PageContext) string {
	appName := strings.TrimSpace(page.AppName)
	if appName == "" {
		appName = T(page.Loc, "core.app_name")
	}
	if strings.TrimSpace(page.Title) == "" {
		return appName
	}
	return T(page.Loc, "title.page", page.Title, appName)
}

// Shell renders the full document around body: navigation, sidebar,
// command palette and feedback popover.
func Shell(page PageContext, body templ.Component) templ.Component {
	return component(func(h *html) {
		ui := page.UI
		h.raw("<!doctype html><html")
		h.attr("lang", page.Lang)
		if class := ThemeClass(ui.Theme); class != "" {
			h.attr("class", class)
		}
		h.attr("data-theme", string(ui.Theme))
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(pageTitle(page))
		h.raw(`</title><link rel="stylesheet" href="/static/shell.css"><script src="/static/shell.js" defer></script></head><body`)
		h.attr("data-sidebar-open", strconv.FormatBool(ui.Layout.SidebarOpen))
		h.attr("style", "--sidebar-width: "+strconv.Itoa(ui.Layout.SidebarWidth)+"px")
		h.raw(">")

		h.render(topBar(page))
		h.render(sidebar(page))
		h.raw(`<main class="content">`)
		h.render(body)
		h.raw("</main>")
		h.render(CommandPalette(page))
		h.raw("</body></html>")
	})
}

func topBar(page PageContext) templ.Component {
	return component(func(h *html) {
		h.raw(`<header class="topbar"><nav aria-label="Top"><div class="nav-links">`)
		for _, link := range navigation {
			h.raw("<a")
			h.attr("href", link.href)
			if link.href == page.CurrentPath {
				h.attr("class", "active")
				h.attr("aria-current", "page")
			}
			h.raw(">")
			h.text(T(page.Loc, link.key))
			h.raw("</a>")
		}
		h.raw(`</div><button type="button" class="command-button" data-action="palette-open"><span>`)
		h.text(T(page.Loc, "palette.command"))
		h.raw(`</span><kbd data-mod-key>Ctrl</kbd><kbd>K</kbd></button>`)
		h.render(FeedbackPopover(page))
		h.render(themeMenu(page))
		h.render(userMenu(page))
		h.raw("</nav></header>")
	})
}

// userMenu links to the login page: an avatar or the user's name when
// signed in, a sign-in link otherwise.
func userMenu(page PageContext) templ.Component {
	return component(func(h *html) {
		h.raw(`<a class="user"`)
		h.attr("href", routepath.Login)
		if page.CurrentPath == routepath.Login {
			h.attr("aria-current", "page")
		}
		h.raw(">")
		switch {
		case page.UserName == "":
			h.text(T(page.Loc, "nav.login"))
		case avatarSource(page.AvatarURL) != "":
			h.raw(`<img class="avatar" width="40" height="40"`)
			h.attr("src", avatarSource(page.AvatarURL))
			h.attr("alt", T(page.Loc, "nav.avatar_alt"))
			h.attr("title", T(page.Loc, "nav.signed_in_as", page.UserName))
			h.raw(">")
		default:
			h.text(T(page.Loc, "nav.signed_in_as", page.UserName))
		}
		h.raw("</a>")
	})
}

// avatarSource returns raw when it is an absolute http(s) URL.
func avatarSource(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return ""
	}
	return parsed.String()
}

func themeMenu(page PageContext) templ.Component {
	return component(func(h *html) {
		h.raw(`<div class="theme-menu" role="group"`)
		h.attr("aria-label", T(page.Loc, "theme.toggle"))
		h.raw(">")
		for _, theme := range uistate.Themes() {
			h.raw(`<button type="button" data-action="theme"`)
			h.attr("data-theme-value", string(theme))
			h.attr("aria-pressed", strconv.FormatBool(page.UI.Theme == theme))
			h.raw(">")
			h.text(T(page.Loc, "theme."+string(theme)))
			h.raw("</button>")
		}
		h.raw("</div>")
	})
}

func sidebar(page PageContext) templ.Component {
	return component(func(h *html) {
		h.raw(`<aside class="sidebar" id="sidebar"`)
		h.flag("hidden", !page.UI.Layout.SidebarOpen)
		h.raw(`><ul>`)
		for _, item := range page.Palette.Recent(page.UI.CommandPalette.History) {
			h.raw("<li><a")
			h.attr("href", item.Href)
			h.raw(">")
			h.text(Label(page.Loc, item.LabelKey, item.Label))
			h.raw("</a></li>")
		}
		h.raw(`</ul><div class="sidebar-resize" data-action="sidebar-resize"`)
		h.intAttr("data-min", uistate.MinSidebarWidth)
		h.intAttr("data-max", uistate.MaxSidebarWidth)
		h.raw(`></div></aside><button type="button" class="sidebar-toggle" data-action="sidebar-toggle"`)
		h.attr("aria-controls", "sidebar")
		h.attr("aria-expanded", strconv.FormatBool(page.UI.Layout.SidebarOpen))
		h.raw(">")
		h.text(T(page.Loc, "sidebar.toggle"))
		h.raw("</button>")
	})
}
