// Package pagerender centralizes full-page rendering for web modules.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	webtemplates "github.com/louisbranch/pageshell/internal/services/web/templates"
)

// Page describes a page response rendered inside the shell.
type Page struct {
	Context    webtemplates.PageContext
	StatusCode int
	Body       templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// Write renders page into a buffer first, so a failed render writes nothing
// and the caller can still send an error response.
func Write(w http.ResponseWriter, r *http.Request, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	body := page.Body
	if body == nil {
		body = emptyComponent{}
	}

	var buf bytes.Buffer
	if err := webtemplates.Shell(page.Context, body).Render(httpx.RequestContext(r), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	if r != nil && r.Method == http.MethodHead {
		return nil
	}
	_, _ = w.Write(buf.Bytes())
	return nil
}
