// Package uistate holds the per-client UI state container: command palette,
// feedback modal, theme preference and sidebar layout.
//
// State changes only through Actions applied by Reduce. A Store owns one
// State, applies actions in call order and notifies subscribers after each
// one, which is how the persisted subset reaches durable storage.
package uistate

import (
	"encoding/json"
	"slices"
	"strings"
)

const (
	// MaxCommandHistory bounds the command palette history.
	MaxCommandHistory = 10
	// DefaultSidebarWidth is the initial sidebar width in pixels.
	DefaultSidebarWidth = 256
	// MinSidebarWidth and MaxSidebarWidth bound every stored sidebar width.
	MinSidebarWidth = 160
	MaxSidebarWidth = 480
)

// Theme is the user's color scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Themes lists every valid theme in display order.
func Themes() []Theme {
	return []Theme{ThemeLight, ThemeDark, ThemeSystem}
}

// ParseTheme reports whether value names a theme.
func ParseTheme(value string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(value))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	case ThemeSystem:
		return ThemeSystem, true
	default:
		return ThemeSystem, false
	}
}

// FeedbackStatus is the outcome shown by the feedback modal.
//
// Success and error are exclusive: setting one clears the other.
type FeedbackStatus uint8

const (
	FeedbackIdle FeedbackStatus = iota
	FeedbackSuccess
	FeedbackError
)

func (s FeedbackStatus) String() string {
	switch s {
	case FeedbackSuccess:
		return "success"
	case FeedbackError:
		return "error"
	default:
		return "idle"
	}
}

// CommandPalette is the palette slice. History is most-recent-first, unique
// and at most MaxCommandHistory long.
type CommandPalette struct {
	Open    bool     `json:"open"`
	History []string `json:"history"`
}

// FeedbackModal is the feedback popover slice.
type FeedbackModal struct {
	Open   bool
	Status FeedbackStatus
}

// Success reports whether the modal shows the thank-you view.
func (m FeedbackModal) Success() bool { return m.Status == FeedbackSuccess }

// Error reports whether the modal shows the failure view.
func (m FeedbackModal) Error() bool { return m.Status == FeedbackError }

type feedbackModalJSON struct {
	Open    bool `json:"open"`
	Success bool `json:"success"`
	Error   bool `json:"error"`
}

// MarshalJSON renders the modal as the three booleans clients expect.
func (m FeedbackModal) MarshalJSON() ([]byte, error) {
	return json.Marshal(feedbackModalJSON{Open: m.Open, Success: m.Success(), Error: m.Error()})
}

// UnmarshalJSON accepts the boolean form. Error wins when both are set.
func (m *FeedbackModal) UnmarshalJSON(data []byte) error {
	var raw feedbackModalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Open = raw.Open
	switch {
	case raw.Error:
		m.Status = FeedbackError
	case raw.Success:
		m.Status = FeedbackSuccess
	default:
		m.Status = FeedbackIdle
	}
	return nil
}

// Layout is the sidebar slice.
type Layout struct {
	SidebarOpen  bool `json:"sidebarOpen"`
	SidebarWidth int  `json:"sidebarWidth"`
}

// State is the whole UI aggregate.
type State struct {
	CommandPalette CommandPalette `json:"commandPalette"`
	FeedbackModal  FeedbackModal  `json:"feedbackModal"`
	Theme          Theme          `json:"theme"`
	Layout         Layout         `json:"layout"`
}

// Defaults returns the initial state of every new client.
func Defaults() State {
	return State{
		CommandPalette: CommandPalette{Open: false, History: []string{}},
		FeedbackModal:  FeedbackModal{Open: false, Status: FeedbackIdle},
		Theme:          ThemeSystem,
		Layout:         Layout{SidebarOpen: true, SidebarWidth: DefaultSidebarWidth},
	}
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	out := s
	out.CommandPalette.History = slices.Clone(s.CommandPalette.History)
	if out.CommandPalette.History == nil {
		out.CommandPalette.History = []string{}
	}
	return out
}

// ClampSidebarWidth bounds px to [MinSidebarWidth, MaxSidebarWidth].
func ClampSidebarWidth(px int) int {
	return min(max(px, MinSidebarWidth), MaxSidebarWidth)
}

// PushHistory returns history with cmd moved to the front, capped at
// MaxCommandHistory. Blank commands leave history unchanged. The input slice
// is never modified.
func PushHistory(history []string, cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return slices.Clone(history)
	}
	out := make([]string, 0, min(len(history)+1, MaxCommandHistory))
	out = append(out, cmd)
	for _, existing := range history {
		if existing == cmd {
			continue
		}
		if len(out) == MaxCommandHistory {
			break
		}
		out = append(out, existing)
	}
	return out
}
