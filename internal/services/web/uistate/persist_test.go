package uistate

import (
	"context"
	"encoding/json"
	"slices"
	"testing"
)

func TestPersistedSubsetSurvivesReload(t *testing.T) {
	prefs := newFakePreferenceStore()
	ctx := context.Background()

	first := NewStore()
	stop := NewPersister(first, prefs, "client-1").Start()
	first.SetTheme(ThemeDark)
	first.SetSidebarWidth(320)
	first.AddToHistory("Go to Stats")
	first.OpenCommandPalette()
	first.OpenFeedbackModal()
	stop()

	reloaded := NewStore()
	if err := NewPersister(reloaded, prefs, "client-1").Rehydrate(ctx); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	state := reloaded.State()
	if state.Theme != ThemeDark {
		t.Fatalf("theme = %q, want dark", state.Theme)
	}
	if state.Layout.SidebarWidth != 320 {
		t.Fatalf("sidebar width = %d, want 320", state.Layout.SidebarWidth)
	}
	if !slices.Equal(state.CommandPalette.History, []string{"Go to Stats"}) {
		t.Fatalf("history = %v", state.CommandPalette.History)
	}
	if state.CommandPalette.Open {
		t.Fatal("palette open state must not persist")
	}
	if state.FeedbackModal.Open {
		t.Fatal("feedback modal state must not persist")
	}
}

func TestPersisterSkipsEphemeralChanges(t *testing.T) {
	prefs := newFakePreferenceStore()
	store := NewStore()
	stop := NewPersister(store, prefs, "client-1").Start()
	defer stop()

	store.ToggleCommandPalette()
	store.OpenFeedbackModal()
	store.SetFeedbackSuccess(true)
	if got := prefs.putCount(); got != 0 {
		t.Fatalf("puts = %d, want 0", got)
	}

	store.ToggleSidebar()
	if got := prefs.putCount(); got != 1 {
		t.Fatalf("puts = %d, want 1", got)
	}
}

func TestPersisterDocumentShape(t *testing.T) {
	prefs := newFakePreferenceStore()
	store := NewStore()
	stop := NewPersister(store, prefs, "client-1").Start()
	defer stop()
	store.SetTheme(ThemeLight)

	data, ok := prefs.docs["client-1/"+PersistKey]
	if !ok {
		t.Fatal("expected preference document")
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"theme", "layout", "commandPalette"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("document missing %q: %s", key, data)
		}
	}
	if _, ok := doc["feedbackModal"]; ok {
		t.Fatalf("document must not contain feedbackModal: %s", data)
	}
}

func TestSaveFailureDoesNotFailAction(t *testing.T) {
	prefs := newFakePreferenceStore()
	prefs.putErr = errFakeStorage
	store := NewStore()
	stop := NewPersister(store, prefs, "client-1").Start()
	defer stop()

	if got := store.SetTheme(ThemeDark).Theme; got != ThemeDark {
		t.Fatalf("theme = %q, want dark", got)
	}
}

func TestRehydrateIgnoresMalformedDocument(t *testing.T) {
	prefs := newFakePreferenceStore()
	prefs.docs["client-1/"+PersistKey] = []byte("{not json")
	store := NewStore()
	if err := NewPersister(store, prefs, "client-1").Rehydrate(context.Background()); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if got := store.State().Theme; got != ThemeSystem {
		t.Fatalf("theme = %q, want system", got)
	}
}

func TestRehydrateReturnsStorageErrors(t *testing.T) {
	prefs := newFakePreferenceStore()
	prefs.getErr = errFakeStorage
	if err := NewPersister(NewStore(), prefs, "client-1").Rehydrate(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDecodePreferencesIsLenient(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Preferences
	}{
		{
			name: "partial document keeps defaults",
			doc:  `{"theme":"dark"}`,
			want: Preferences{Theme: ThemeDark, Layout: Layout{SidebarOpen: true, SidebarWidth: 256}, CommandPalette: PersistedPalette{History: []string{}}},
		},
		{
			name: "unknown theme falls back to system",
			doc:  `{"theme":"neon","layout":{"sidebarOpen":false,"sidebarWidth":5000}}`,
			want: Preferences{Theme: ThemeSystem, Layout: Layout{SidebarOpen: false, SidebarWidth: MaxSidebarWidth}, CommandPalette: PersistedPalette{History: []string{}}},
		},
		{
			name: "history is normalized",
			doc:  `{"commandPalette":{"history":[" a ","","a","b","c","d","e","f","g","h","i","j","k"]}}`,
			want: Preferences{Theme: ThemeSystem, Layout: Layout{SidebarOpen: true, SidebarWidth: 256}, CommandPalette: PersistedPalette{History: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}}},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodePreferences([]byte(tc.doc))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Theme != tc.want.Theme || got.Layout != tc.want.Layout {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
			if !slices.Equal(got.CommandPalette.History, tc.want.CommandPalette.History) {
				t.Fatalf("history = %v, want %v", got.CommandPalette.History, tc.want.CommandPalette.History)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Preferences{
		Theme:          ThemeDark,
		Layout:         Layout{SidebarOpen: false, SidebarWidth: 320},
		CommandPalette: PersistedPalette{History: []string{"b", "a"}},
	}
	data, err := EncodePreferences(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodePreferences(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Theme != in.Theme || out.Layout != in.Layout || !slices.Equal(out.CommandPalette.History, in.CommandPalette.History) {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}
