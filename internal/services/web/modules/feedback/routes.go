package feedback

import (
	"net/http"

	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodPost+" "+routepath.Feedback, h.handleSubmit)
	mux.HandleFunc(routepath.Feedback, httpx.MethodNotAllowed(http.MethodPost))
}
