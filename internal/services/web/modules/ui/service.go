package ui

import (
	"strings"

	"github.com/louisbranch/pageshell/internal/services/web/palette"
	apperrors "github.com/louisbranch/pageshell/internal/services/web/platform/errors"
	"github.com/louisbranch/pageshell/internal/services/web/uistate"
)

type service struct {
	catalog palette.Catalog
}

func newService(catalog palette.Catalog) service {
	return service{catalog: catalog}
}

// runItem executes a palette item against store: the item's label goes to
// the front of the history, the palette closes, and the item's action runs.
// It returns the resulting state and the href to navigate to.
func (s service) runItem(store *uistate.Store, id string) (uistate.State, string, error) {
	item, ok := s.catalog.Item(strings.TrimSpace(id))
	if !ok {
		return store.State(), "", apperrors.EK(apperrors.KindNotFound, "palette.empty", "palette item not found")
	}
	store.AddToHistory(item.Label)
	state := store.CloseCommandPalette()
	switch item.Action {
	case palette.ActionOpenFeedback:
		state = store.OpenFeedbackModal()
		return state, "", nil
	default:
		return state, item.Href, nil
	}
}

func parseTheme(value string) (uistate.Theme, error) {
	theme, ok := uistate.ParseTheme(value)
	if !ok {
		return "", apperrors.E(apperrors.KindInvalidInput, "theme must be one of light, dark, system")
	}
	return theme, nil
}

func parseCommand(value string) (string, error) {
	command := strings.TrimSpace(value)
	if command == "" {
		return "", apperrors.E(apperrors.KindInvalidInput, "command is required")
	}
	return command, nil
}
