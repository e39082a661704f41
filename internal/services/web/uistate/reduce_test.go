package uistate

import (
	"math/rand"
	"slices"
	"strconv"
	"testing"
)

func TestDefaults(t *testing.T) {
	got := Defaults()
	if got.CommandPalette.Open || len(got.CommandPalette.History) != 0 {
		t.Fatalf("command palette = %+v, want closed and empty", got.CommandPalette)
	}
	if got.FeedbackModal.Open || got.FeedbackModal.Success() || got.FeedbackModal.Error() {
		t.Fatalf("feedback modal = %+v, want closed idle", got.FeedbackModal)
	}
	if got.Theme != ThemeSystem {
		t.Fatalf("theme = %q, want %q", got.Theme, ThemeSystem)
	}
	if !got.Layout.SidebarOpen || got.Layout.SidebarWidth != 256 {
		t.Fatalf("layout = %+v, want open/256", got.Layout)
	}
}

func TestAddCommandHistoryMovesToFront(t *testing.T) {
	state := Defaults()
	for _, cmd := range []string{"a", "b", "a"} {
		state = Reduce(state, AddCommandHistory{Command: cmd})
	}
	if want := []string{"a", "b"}; !slices.Equal(state.CommandPalette.History, want) {
		t.Fatalf("history = %v, want %v", state.CommandPalette.History, want)
	}
}

func TestAddCommandHistoryEvictsOldest(t *testing.T) {
	state := Defaults()
	for i := 0; i < 12; i++ {
		state = Reduce(state, AddCommandHistory{Command: "cmd-" + strconv.Itoa(i)})
	}
	history := state.CommandPalette.History
	if len(history) != MaxCommandHistory {
		t.Fatalf("history length = %d, want %d", len(history), MaxCommandHistory)
	}
	if history[0] != "cmd-11" || history[len(history)-1] != "cmd-2" {
		t.Fatalf("history = %v", history)
	}
}

func TestAddCommandHistoryIgnoresBlank(t *testing.T) {
	state := Reduce(Defaults(), AddCommandHistory{Command: "  "})
	if len(state.CommandPalette.History) != 0 {
		t.Fatalf("history = %v, want empty", state.CommandPalette.History)
	}
}

func TestHistoryPropertiesHoldForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 200; run++ {
		state := Defaults()
		var last string
		for step := 0; step < 40; step++ {
			last = "c" + strconv.Itoa(rng.Intn(15))
			state = Reduce(state, AddCommandHistory{Command: last})
		}
		history := state.CommandPalette.History
		if len(history) > MaxCommandHistory {
			t.Fatalf("run %d: history length %d", run, len(history))
		}
		if history[0] != last {
			t.Fatalf("run %d: history[0] = %q, want most recent %q", run, history[0], last)
		}
		seen := map[string]bool{}
		for _, cmd := range history {
			if seen[cmd] {
				t.Fatalf("run %d: duplicate %q in %v", run, cmd, history)
			}
			seen[cmd] = true
		}
	}
}

func TestClearCommandHistory(t *testing.T) {
	state := Reduce(Reduce(Defaults(), AddCommandHistory{Command: "a"}), ClearCommandHistory{})
	if state.CommandPalette.History == nil || len(state.CommandPalette.History) != 0 {
		t.Fatalf("history = %#v, want empty non-nil", state.CommandPalette.History)
	}
}

func TestToggleCommandPaletteIsInvolution(t *testing.T) {
	state := Defaults()
	once := Reduce(state, ToggleCommandPalette{})
	if !once.CommandPalette.Open {
		t.Fatal("expected palette open after one toggle")
	}
	twice := Reduce(once, ToggleCommandPalette{})
	if twice.CommandPalette.Open {
		t.Fatal("expected palette closed after two toggles")
	}
}

func TestCommandPaletteOpenActions(t *testing.T) {
	tests := []struct {
		name   string
		start  bool
		action Action
		want   bool
	}{
		{name: "open", start: false, action: OpenCommandPalette{}, want: true},
		{name: "open is idempotent", start: true, action: OpenCommandPalette{}, want: true},
		{name: "close", start: true, action: CloseCommandPalette{}, want: false},
		{name: "set open", start: false, action: SetCommandPaletteOpen{Open: true}, want: true},
		{name: "set closed", start: true, action: SetCommandPaletteOpen{Open: false}, want: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			state := Defaults()
			state.CommandPalette.Open = tc.start
			if got := Reduce(state, tc.action).CommandPalette.Open; got != tc.want {
				t.Fatalf("open = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResetFeedbackModalAlwaysClears(t *testing.T) {
	starts := []FeedbackModal{
		{},
		{Open: true},
		{Open: true, Status: FeedbackSuccess},
		{Open: false, Status: FeedbackError},
	}
	for _, start := range starts {
		state := Defaults()
		state.FeedbackModal = start
		got := Reduce(state, ResetFeedbackModal{}).FeedbackModal
		if got.Open || got.Success() || got.Error() {
			t.Fatalf("reset from %+v = %+v", start, got)
		}
	}
}

func TestFeedbackSuccessAndErrorAreExclusive(t *testing.T) {
	state := Reduce(Defaults(), SetFeedbackSuccess{Success: true})
	if !state.FeedbackModal.Success() {
		t.Fatal("expected success")
	}
	state = Reduce(state, SetFeedbackError{Error: true})
	if state.FeedbackModal.Success() || !state.FeedbackModal.Error() {
		t.Fatalf("modal = %+v, want error only", state.FeedbackModal)
	}
	state = Reduce(state, SetFeedbackSuccess{Success: false})
	if !state.FeedbackModal.Error() {
		t.Fatal("clearing success must not clear error")
	}
	state = Reduce(state, SetFeedbackError{Error: false})
	if state.FeedbackModal.Status != FeedbackIdle {
		t.Fatalf("status = %s, want idle", state.FeedbackModal.Status)
	}
}

func TestFeedbackModalOpenActions(t *testing.T) {
	state := Reduce(Defaults(), OpenFeedbackModal{})
	if !state.FeedbackModal.Open {
		t.Fatal("expected open")
	}
	state = Reduce(state, SetFeedbackModalOpen{Open: false})
	if state.FeedbackModal.Open {
		t.Fatal("expected closed")
	}
	state = Reduce(Reduce(state, SetFeedbackModalOpen{Open: true}), CloseFeedbackModal{})
	if state.FeedbackModal.Open {
		t.Fatal("expected closed after close")
	}
}

func TestSetTheme(t *testing.T) {
	state := Reduce(Defaults(), SetTheme{Theme: ThemeDark})
	if state.Theme != ThemeDark {
		t.Fatalf("theme = %q, want dark", state.Theme)
	}
	state = Reduce(state, SetTheme{Theme: "purple"})
	if state.Theme != ThemeDark {
		t.Fatalf("unknown theme changed state to %q", state.Theme)
	}
}

func TestLayoutActions(t *testing.T) {
	state := Reduce(Defaults(), ToggleSidebar{})
	if state.Layout.SidebarOpen {
		t.Fatal("expected sidebar closed after toggle")
	}
	state = Reduce(state, SetSidebarOpen{Open: true})
	if !state.Layout.SidebarOpen {
		t.Fatal("expected sidebar open")
	}

	widths := []struct {
		in, want int
	}{
		{in: 320, want: 320},
		{in: 10, want: MinSidebarWidth},
		{in: -5, want: MinSidebarWidth},
		{in: 9000, want: MaxSidebarWidth},
	}
	for _, tc := range widths {
		got := Reduce(state, SetSidebarWidth{Width: tc.in}).Layout.SidebarWidth
		if got != tc.want {
			t.Fatalf("SetSidebarWidth(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	state := Reduce(Defaults(), AddCommandHistory{Command: "a"})
	before := state.Clone()
	_ = Reduce(state, AddCommandHistory{Command: "b"})
	_ = Reduce(state, ClearCommandHistory{})
	if !slices.Equal(state.CommandPalette.History, before.CommandPalette.History) {
		t.Fatalf("input history mutated: %v", state.CommandPalette.History)
	}
}

func TestHydrateKeepsEphemeralFields(t *testing.T) {
	state := Defaults()
	state.CommandPalette.Open = true
	state.FeedbackModal = FeedbackModal{Open: true, Status: FeedbackSuccess}

	got := Reduce(state, Hydrate{Preferences: Preferences{
		Theme:          ThemeLight,
		Layout:         Layout{SidebarOpen: false, SidebarWidth: 300},
		CommandPalette: PersistedPalette{History: []string{"x", "x", "y"}},
	}})
	if !got.CommandPalette.Open || !got.FeedbackModal.Open {
		t.Fatalf("ephemeral fields lost: %+v", got)
	}
	if got.Theme != ThemeLight || got.Layout.SidebarWidth != 300 || got.Layout.SidebarOpen {
		t.Fatalf("persisted fields not applied: %+v", got)
	}
	if want := []string{"x", "y"}; !slices.Equal(got.CommandPalette.History, want) {
		t.Fatalf("history = %v, want %v", got.CommandPalette.History, want)
	}
}

func TestParseTheme(t *testing.T) {
	for _, theme := range Themes() {
		got, ok := ParseTheme(" " + string(theme) + " ")
		if !ok || got != theme {
			t.Fatalf("ParseTheme(%q) = %q, %v", theme, got, ok)
		}
	}
	if _, ok := ParseTheme("sepia"); ok {
		t.Fatal("expected sepia to be rejected")
	}
}
