// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root         = "/"
	Stats        = "/stats"
	Search       = "/search"
	Login        = "/login"
	Health       = "/up"
	StaticPrefix = "/static/"

	APIPrefix = "/api/"

	UIPrefix          = "/api/ui/"
	UIState           = "/api/ui/state"
	UIPaletteOpen     = "/api/ui/palette/open"
	UIPaletteClose    = "/api/ui/palette/close"
	UIPaletteToggle   = "/api/ui/palette/toggle"
	UIPaletteSetOpen  = "/api/ui/palette/set-open"
	UIPaletteRun      = "/api/ui/palette/run"
	UIPaletteHistory  = "/api/ui/palette/history"
	UIFeedbackOpen    = "/api/ui/feedback/open"
	UIFeedbackClose   = "/api/ui/feedback/close"
	UIFeedbackSetOpen = "/api/ui/feedback/set-open"
	UIFeedbackReset   = "/api/ui/feedback/reset"
	UITheme           = "/api/ui/theme"
	UISidebarSetOpen  = "/api/ui/sidebar/set-open"
	UISidebarToggle   = "/api/ui/sidebar/toggle"
	UISidebarWidth    = "/api/ui/sidebar/width"

	Feedback       = "/api/feedback"
	FeedbackPrefix = "/api/feedback/"

	AuthPrefix  = "/api/auth/"
	AuthSession = "/api/auth/session"
	AuthUser    = "/api/auth/user"
	AuthSignIn  = "/api/auth/sign-in"
	AuthSignUp  = "/api/auth/sign-up"
	AuthSignOut = "/api/auth/sign-out"

	Posts        = "/api/posts"
	PostsPrefix  = "/api/posts/"
	PostsSearch  = "/api/posts/search"
	PostsStream  = "/api/posts/stream"
	PostPattern  = PostsPrefix + "{postID}"
	PostsSearchQ = "q"
)

// Post returns the single-post API route.
func Post(postID string) string {
	return PostsPrefix + escapeSegment(postID)
}

// SearchWithQuery returns the search page for term.
func SearchWithQuery(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return Search
	}
	return Search + "?" + url.Values{PostsSearchQ: {term}}.Encode()
}

// IsAPI reports whether path is served by the JSON API.
func IsAPI(path string) bool {
	return strings.HasPrefix(path, APIPrefix)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
