package templates

import (
	"github.com/a-h/templ"
	"github.com/louisbranch/pageshell/internal/services/web/palette"
)

// CommandPalette renders the palette dialog. The dialog is always in the
// document; its open attribute mirrors the UI store.
func CommandPalette(page PageContext) templ.Component {
	return component(func(h *html) {
		h.raw(`<dialog id="command-palette" class="palette"`)
		h.flag("open", page.UI.CommandPalette.Open)
		h.raw(`><input type="search" name="q" autocomplete="off" data-palette-filter`)
		h.attr("placeholder", T(page.Loc, "palette.placeholder"))
		h.raw(`><div class="palette-list" role="listbox">`)

		if recent := page.Palette.Recent(page.UI.CommandPalette.History); len(recent) > 0 {
			h.render(paletteGroup(page, "recent", T(page.Loc, "palette.group.recent"), recent))
		}
		for _, group := range page.Palette.Groups {
			h.render(paletteGroup(page, group.ID, T(page.Loc, group.HeadingKey), group.Items))
		}
		h.raw(`<p class="palette-empty" data-palette-empty hidden>`)
		h.text(T(page.Loc, "palette.empty"))
		h.raw(`</p></div><footer class="palette-footer">`)
		h.text(T(page.Loc, "palette.shortcut"))
		h.raw(` <kbd data-mod-key>Ctrl</kbd>K</footer></dialog>`)
	})
}

func paletteGroup(page PageContext, id, heading string, items []palette.Item) templ.Component {
	return component(func(h *html) {
		h.raw(`<section class="palette-group"`)
		h.attr("data-group", id)
		h.raw(">")
		h.element("h3", "", heading)
		for _, item := range items {
			label := Label(page.Loc, item.LabelKey, item.Label)
			h.raw(`<button type="button" role="option" class="palette-item" data-action="palette-run"`)
			h.attr("data-item", item.ID)
			h.attr("data-label", label)
			h.raw(">")
			h.element("span", "", label)
			if item.Shortcut != "" {
				h.element("kbd", "shortcut", item.Shortcut)
			}
			h.raw("</button>")
		}
		h.raw("</section>")
	})
}
