package uistate

// Action is one UI state transition. The set is closed; Reduce handles every
// implementation.
type Action interface {
	isAction()
}

type (
	SetCommandPaletteOpen struct{ Open bool }
	OpenCommandPalette    struct{}
	CloseCommandPalette   struct{}
	ToggleCommandPalette  struct{}
	AddCommandHistory     struct{ Command string }
	ClearCommandHistory   struct{}

	SetFeedbackModalOpen struct{ Open bool }
	OpenFeedbackModal    struct{}
	CloseFeedbackModal   struct{}
	SetFeedbackSuccess   struct{ Success bool }
	SetFeedbackError     struct{ Error bool }
	ResetFeedbackModal   struct{}

	SetTheme struct{ Theme Theme }

	SetSidebarOpen  struct{ Open bool }
	ToggleSidebar   struct{}
	SetSidebarWidth struct{ Width int }

	// Hydrate overlays a persisted subset onto the current state.
	Hydrate struct{ Preferences Preferences }
)

func (SetCommandPaletteOpen) isAction() {}
func (OpenCommandPalette) isAction()    {}
func (CloseCommandPalette) isAction()   {}
func (ToggleCommandPalette) isAction()  {}
func (AddCommandHistory) isAction()     {}
func (ClearCommandHistory) isAction()   {}
func (SetFeedbackModalOpen) isAction()  {}
func (OpenFeedbackModal) isAction()     {}
func (CloseFeedbackModal) isAction()    {}
func (SetFeedbackSuccess) isAction()    {}
func (SetFeedbackError) isAction()      {}
func (ResetFeedbackModal) isAction()    {}
func (SetTheme) isAction()              {}
func (SetSidebarOpen) isAction()        {}
func (ToggleSidebar) isAction()         {}
func (SetSidebarWidth) isAction()       {}
func (Hydrate) isAction()               {}
