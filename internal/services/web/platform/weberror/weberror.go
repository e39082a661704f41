// Package weberror renders shared error responses for web modules: JSON for
// API routes, the shell error page for page routes.
package weberror

import (
	stderrors "errors"
	"log"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/pageshell/internal/services/web/platform/errors"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/platform/pagerender"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/pageshell/internal/services/web/templates"
)

// FieldFeedback names the feedback form field in validation errors.
const FieldFeedback = "feedback"

// Body is the JSON error payload.
type Body struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ShouldRenderErrorPage reports whether status should use the error page.
func ShouldRenderErrorPage(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		var invalid *queries.InvalidFeedbackError
		if stderrors.As(err, &invalid) {
			if localized := strings.TrimSpace(loc.Sprintf(invalid.Key, invalid.Limit)); localized != "" {
				return localized
			}
		}
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" && localized != key {
				return localized
			}
		}
	}
	return apperrors.PublicMessage(err)
}

// Field names the input an error is about, or "".
func Field(err error) string {
	var invalid *queries.InvalidFeedbackError
	if stderrors.As(err, &invalid) {
		return FieldFeedback
	}
	return ""
}

// Write writes err for r: JSON under the API prefix, the error page for
// page-worthy statuses, plain text otherwise.
func Write(w http.ResponseWriter, r *http.Request, err error, page webtemplates.PageContext) {
	if w == nil || err == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode >= http.StatusInternalServerError {
		log.Printf("web error method=%s path=%s status=%d: %v", method(r), path(r), statusCode, err)
	}
	if routepath.IsAPI(path(r)) {
		_ = httpx.WriteJSON(w, statusCode, Body{Error: PublicMessage(page.Loc, err), Field: Field(err)})
		return
	}
	if ShouldRenderErrorPage(statusCode) {
		WritePage(w, r, statusCode, page)
		return
	}
	http.Error(w, PublicMessage(page.Loc, err), statusCode)
}

// WritePage renders the shell error page with statusCode.
func WritePage(w http.ResponseWriter, r *http.Request, statusCode int, page webtemplates.PageContext) {
	if w == nil {
		return
	}
	if !ShouldRenderErrorPage(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	page.Title = webtemplates.ErrorTitle(statusCode, page.Loc)
	if err := pagerender.Write(w, r, pagerender.Page{
		Context:    page,
		StatusCode: statusCode,
		Body:       webtemplates.ErrorPage(page, statusCode),
	}); err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

func path(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}

func method(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Method
}
