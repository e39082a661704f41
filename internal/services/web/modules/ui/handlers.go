package ui

import (
	"net/http"

	apperrors "github.com/louisbranch/pageshell/internal/services/web/platform/errors"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/uistate"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

type openPayload struct {
	Open *bool `json:"open"`
}

func (p openPayload) value() (bool, error) {
	if p.Open == nil {
		return false, apperrors.E(apperrors.KindInvalidInput, "open is required")
	}
	return *p.Open, nil
}

// dispatch resolves the client store, applies fn and writes the new state.
func (h handlers) dispatch(w http.ResponseWriter, r *http.Request, fn func(*uistate.Store) uistate.State) {
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	h.WriteState(w, fn(client.UI), "")
}

// dispatchOpen is dispatch for {"open": bool} payloads.
func (h handlers) dispatchOpen(w http.ResponseWriter, r *http.Request, fn func(*uistate.Store, bool) uistate.State) {
	var payload openPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.WriteError(w, r, err)
		return
	}
	open, err := payload.value()
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.dispatch(w, r, func(s *uistate.Store) uistate.State { return fn(s, open) })
}

func (h handlers) handleState(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, (*uistate.Store).State)
}

func (h handlers) handlePaletteOpen(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, (*uistate.Store).OpenCommandPalette)
}

func (h handlers) handlePaletteClose(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, (*uistate.Store).CloseCommandPalette)
}

func (h handlers) handlePaletteToggle(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, (*uistate.Store).ToggleCommandPalette)
}

func (h handlers) handlePaletteSetOpen(w http.ResponseWriter, r *http.Request) {
	h.dispatchOpen(w, r, (*uistate.Store).SetCommandPaletteOpen)
}

func (h handlers) handlePaletteRun(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.WriteError(w, r, err)
		return
	}
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	state, href, err := h.service.runItem(client.UI, payload.ID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteState(w, state, href)
}

func (h handlers) handleHistoryAdd(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Command string `json:"command"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.WriteError(w, r, err)
		return
	}
	command, err := parseCommand(payload.Command)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.dispatch(w, r, func(s *uistate.Store) uistate.State { return s.AddToHistory(command) })
}

func (h handlers) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, (*uistate.Store).ClearHistory)
}

func (h handlers) handleFeedbackOpen(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, (*uistate.Store).OpenFeedbackModal)
}

func (h handlers) handleFeedbackClose(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, (*uistate.Store).CloseFeedbackModal)
}

func (h handlers) handleFeedbackSetOpen(w http.ResponseWriter, r *http.Request) {
	h.dispatchOpen(w, r, (*uistate.Store).SetFeedbackModalOpen)
}

func (h handlers) handleFeedbackReset(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, (*uistate.Store).ResetFeedbackModal)
}

func (h handlers) handleTheme(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Theme string `json:"theme"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.WriteError(w, r, err)
		return
	}
	theme, err := parseTheme(payload.Theme)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.dispatch(w, r, func(s *uistate.Store) uistate.State { return s.SetTheme(theme) })
}

func (h handlers) handleSidebarSetOpen(w http.ResponseWriter, r *http.Request) {
	h.dispatchOpen(w, r, (*uistate.Store).SetSidebarOpen)
}

func (h handlers) handleSidebarToggle(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, (*uistate.Store).ToggleSidebar)
}

func (h handlers) handleSidebarWidth(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Width *int `json:"width"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.WriteError(w, r, err)
		return
	}
	if payload.Width == nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "width is required"))
		return
	}
	width := *payload.Width
	h.dispatch(w, r, func(s *uistate.Store) uistate.State { return s.SetSidebarWidth(width) })
}
