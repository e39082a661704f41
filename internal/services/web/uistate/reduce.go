package uistate

// Reduce applies action to state and returns the next state. It never mutates
// state and never fails; unknown actions return a copy of state.
func Reduce(state State, action Action) State {
	next := state.Clone()
	switch a := action.(type) {
	case SetCommandPaletteOpen:
		next.CommandPalette.Open = a.Open
	case OpenCommandPalette:
		next.CommandPalette.Open = true
	case CloseCommandPalette:
		next.CommandPalette.Open = false
	case ToggleCommandPalette:
		next.CommandPalette.Open = !next.CommandPalette.Open
	case AddCommandHistory:
		next.CommandPalette.History = PushHistory(next.CommandPalette.History, a.Command)
	case ClearCommandHistory:
		next.CommandPalette.History = []string{}

	case SetFeedbackModalOpen:
		next.FeedbackModal.Open = a.Open
	case OpenFeedbackModal:
		next.FeedbackModal.Open = true
	case CloseFeedbackModal:
		next.FeedbackModal.Open = false
	case SetFeedbackSuccess:
		next.FeedbackModal.Status = setStatus(next.FeedbackModal.Status, FeedbackSuccess, a.Success)
	case SetFeedbackError:
		next.FeedbackModal.Status = setStatus(next.FeedbackModal.Status, FeedbackError, a.Error)
	case ResetFeedbackModal:
		next.FeedbackModal = FeedbackModal{}

	case SetTheme:
		if theme, ok := ParseTheme(string(a.Theme)); ok {
			next.Theme = theme
		}

	case SetSidebarOpen:
		next.Layout.SidebarOpen = a.Open
	case ToggleSidebar:
		next.Layout.SidebarOpen = !next.Layout.SidebarOpen
	case SetSidebarWidth:
		next.Layout.SidebarWidth = ClampSidebarWidth(a.Width)

	case Hydrate:
		next = a.Preferences.Normalize().Overlay(next)
	}
	return next
}

// setStatus turns target on, or off when it is the current status.
func setStatus(current, target FeedbackStatus, on bool) FeedbackStatus {
	if on {
		return target
	}
	if current == target {
		return FeedbackIdle
	}
	return current
}
