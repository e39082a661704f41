package ui

import (
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.UIState, h.handleState)

	post := func(path string, fn http.HandlerFunc) {
		mux.HandleFunc(http.MethodPost+" "+path, fn)
		mux.HandleFunc(http.MethodGet+" "+path, httpx.MethodNotAllowed(http.MethodPost))
	}
	post(routepath.UIPaletteOpen, h.handlePaletteOpen)
	post(routepath.UIPaletteClose, h.handlePaletteClose)
	post(routepath.UIPaletteToggle, h.handlePaletteToggle)
	post(routepath.UIPaletteSetOpen, h.handlePaletteSetOpen)
	post(routepath.UIPaletteRun, h.handlePaletteRun)
	post(routepath.UIFeedbackOpen, h.handleFeedbackOpen)
	post(routepath.UIFeedbackClose, h.handleFeedbackClose)
	post(routepath.UIFeedbackSetOpen, h.handleFeedbackSetOpen)
	post(routepath.UIFeedbackReset, h.handleFeedbackReset)
	post(routepath.UITheme, h.handleTheme)
	post(routepath.UISidebarSetOpen, h.handleSidebarSetOpen)
	post(routepath.UISidebarToggle, h.handleSidebarToggle)
	post(routepath.UISidebarWidth, h.handleSidebarWidth)

	mux.HandleFunc(http.MethodPost+" "+routepath.UIPaletteHistory, h.handleHistoryAdd)
	mux.HandleFunc(http.MethodDelete+" "+routepath.UIPaletteHistory, h.handleHistoryClear)
	mux.HandleFunc(http.MethodGet+" "+routepath.UIPaletteHistory, httpx.MethodNotAllowed(http.MethodPost, http.MethodDelete))

	mux.HandleFunc(routepath.UIPrefix, h.WriteNotFound)
}
