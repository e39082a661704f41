package templates

import (
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageshell/internal/services/web/queries"
	"github.com/louisbranch/pageshell/internal/services/web/uistate"
)

// FeedbackPopover renders the feedback trigger and its popover. After a
// successful submit the popover shows a thank-you note instead of the form.
func FeedbackPopover(page PageContext) templ.Component {
	return component(func(h *html) {
		modal := page.UI.FeedbackModal
		h.raw(`<div class="feedback"><button type="button" data-action="feedback-toggle"`)
		h.attr("aria-expanded", strconv.FormatBool(modal.Open))
		h.attr("aria-controls", "feedback-popover")
		h.raw(">")
		h.text(T(page.Loc, "feedback.button"))
		h.raw(`</button><div id="feedback-popover" class="feedback-popover"`)
		h.flag("hidden", !modal.Open)
		h.raw(">")

		if modal.Status == uistate.FeedbackSuccess {
			h.raw(`<div class="feedback-success" role="status">`)
			h.element("h3", "", T(page.Loc, "feedback.success.title"))
			h.element("p", "", T(page.Loc, "feedback.success.description"))
			h.raw("</div></div></div>")
			return
		}

		h.raw(`<form data-feedback-form novalidate><textarea name="feedback" rows="4" required`)
		h.intAttr("minlength", queries.MinFeedbackLength)
		h.intAttr("maxlength", queries.MaxFeedbackLength)
		h.attr("placeholder", T(page.Loc, "feedback.placeholder"))
		h.raw("></textarea>")
		h.element("p", "feedback-description", T(page.Loc, "feedback.description"))
		if page.FeedbackMessage != "" {
			h.element("p", "feedback-invalid", page.FeedbackMessage)
		}
		if modal.Status == uistate.FeedbackError {
			h.raw(`<p class="feedback-error" role="alert">`)
			h.text(T(page.Loc, "feedback.error"))
			h.raw("</p>")
		}
		h.raw(`<button type="submit">`)
		h.text(T(page.Loc, "feedback.submit"))
		h.raw("</button></form></div></div>")
	})
}
