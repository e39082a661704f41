package feedback

import (
	"errors"
	"net/http"

	apperrors "github.com/louisbranch/pageshell/internal/services/web/platform/errors"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/pageshell/internal/services/web/platform/weberror"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
	"github.com/louisbranch/pageshell/internal/services/web/uistate"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

// failure carries the modal state alongside the error so the shell can show
// the failure view without another round trip.
type failure struct {
	Error string        `json:"error"`
	State uistate.State `json:"state"`
}

func (h handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Feedback string `json:"feedback"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		h.WriteError(w, r, err)
		return
	}
	client, ok := h.RequireClient(w, r)
	if !ok {
		return
	}
	state, err := h.service.submit(r.Context(), client, payload.Feedback)
	var invalid *queries.InvalidFeedbackError
	switch {
	case errors.As(err, &invalid):
		h.WriteError(w, r, err)
	case err != nil:
		loc, _ := h.PageLocalizer(w, r)
		_ = httpx.WriteJSON(w, apperrors.HTTPStatus(err), failure{Error: weberror.PublicMessage(loc, err), State: state})
	default:
		h.WriteState(w, state, "")
	}
}
