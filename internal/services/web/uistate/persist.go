package uistate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/pageshell/internal/platform/timeouts"
	"github.com/louisbranch/pageshell/internal/services/web/storage"
)

// PersistKey names the preference document holding the persisted subset.
const PersistKey = "ui-preferences"

// PersistedPalette is the durable part of the command palette.
type PersistedPalette struct {
	History []string `json:"history"`
}

// Preferences is the persisted subset of State: theme, full layout and
// palette history. Open flags and feedback status are never stored.
type Preferences struct {
	Theme          Theme            `json:"theme"`
	Layout         Layout           `json:"layout"`
	CommandPalette PersistedPalette `json:"commandPalette"`
}

// PreferencesOf extracts the persisted subset of state.
func PreferencesOf(state State) Preferences {
	return Preferences{
		Theme:          state.Theme,
		Layout:         state.Layout,
		CommandPalette: PersistedPalette{History: slices.Clone(state.CommandPalette.History)},
	}
}

// Normalize coerces p into values State accepts.
func (p Preferences) Normalize() Preferences {
	theme, ok := ParseTheme(string(p.Theme))
	if !ok {
		theme = ThemeSystem
	}
	history := make([]string, 0, min(len(p.CommandPalette.History), MaxCommandHistory))
	for _, cmd := range p.CommandPalette.History {
		cmd = strings.TrimSpace(cmd)
		if cmd == "" || slices.Contains(history, cmd) {
			continue
		}
		history = append(history, cmd)
		if len(history) == MaxCommandHistory {
			break
		}
	}
	return Preferences{
		Theme: theme,
		Layout: Layout{
			SidebarOpen:  p.Layout.SidebarOpen,
			SidebarWidth: ClampSidebarWidth(p.Layout.SidebarWidth),
		},
		CommandPalette: PersistedPalette{History: history},
	}
}

// Overlay copies p onto state, leaving ephemeral fields alone.
func (p Preferences) Overlay(state State) State {
	out := state.Clone()
	out.Theme = p.Theme
	out.Layout = p.Layout
	out.CommandPalette.History = slices.Clone(p.CommandPalette.History)
	if out.CommandPalette.History == nil {
		out.CommandPalette.History = []string{}
	}
	return out
}

// EncodePreferences renders p as its stored JSON document.
func EncodePreferences(p Preferences) ([]byte, error) {
	p = p.Normalize()
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode ui preferences: %w", err)
	}
	return data, nil
}

type storedPreferences struct {
	Theme  *string `json:"theme"`
	Layout *struct {
		SidebarOpen  *bool `json:"sidebarOpen"`
		SidebarWidth *int  `json:"sidebarWidth"`
	} `json:"layout"`
	CommandPalette *struct {
		History []string `json:"history"`
	} `json:"commandPalette"`
}

// DecodePreferences parses a stored document. Missing fields take their
// default values and the result is normalized.
func DecodePreferences(data []byte) (Preferences, error) {
	prefs := PreferencesOf(Defaults())
	var raw storedPreferences
	if err := json.Unmarshal(data, &raw); err != nil {
		return prefs, fmt.Errorf("decode ui preferences: %w", err)
	}
	if raw.Theme != nil {
		prefs.Theme = Theme(*raw.Theme)
	}
	if raw.Layout != nil {
		if raw.Layout.SidebarOpen != nil {
			prefs.Layout.SidebarOpen = *raw.Layout.SidebarOpen
		}
		if raw.Layout.SidebarWidth != nil {
			prefs.Layout.SidebarWidth = *raw.Layout.SidebarWidth
		}
	}
	if raw.CommandPalette != nil {
		prefs.CommandPalette.History = raw.CommandPalette.History
	}
	return prefs.Normalize(), nil
}

// Persister keeps one client's persisted subset in a PreferenceStore.
type Persister struct {
	store    *Store
	prefs    storage.PreferenceStore
	clientID string
	timeout  time.Duration

	mu   sync.Mutex
	last []byte
}

// NewPersister binds store to the preference document of clientID.
func NewPersister(store *Store, prefs storage.PreferenceStore, clientID string) *Persister {
	return &Persister{
		store:    store,
		prefs:    prefs,
		clientID: strings.TrimSpace(clientID),
		timeout:  timeouts.PreferenceWrite,
	}
}

// Rehydrate overlays the stored subset onto the store. A missing or malformed
// document leaves defaults in place; only storage failures are returned.
func (p *Persister) Rehydrate(ctx context.Context) error {
	if p == nil || p.store == nil || p.prefs == nil {
		return nil
	}
	data, found, err := p.prefs.GetPreference(ctx, p.clientID, PersistKey)
	if err != nil {
		return fmt.Errorf("load ui preferences: %w", err)
	}
	if !found {
		return nil
	}
	prefs, err := DecodePreferences(data)
	if err != nil {
		log.Printf("ui preferences ignored client=%s: %v", p.clientID, err)
		return nil
	}
	p.mu.Lock()
	p.last, _ = EncodePreferences(prefs)
	p.mu.Unlock()
	p.store.Dispatch(Hydrate{Preferences: prefs})
	return nil
}

// Start subscribes to the store and saves every change of the persisted
// subset before Dispatch returns. The returned func stops saving.
func (p *Persister) Start() func() {
	if p == nil || p.store == nil || p.prefs == nil {
		return func() {}
	}
	return p.store.Subscribe(func(next, prev State) {
		if !persistedChanged(next, prev) {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.Save(ctx, PreferencesOf(next)); err != nil {
			log.Printf("ui preferences save client=%s: %v", p.clientID, err)
		}
	})
}

// Save writes prefs unless they match the last document written or read.
func (p *Persister) Save(ctx context.Context, prefs Preferences) error {
	data, err := EncodePreferences(prefs)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if bytes.Equal(data, p.last) {
		return nil
	}
	if err := p.prefs.PutPreference(ctx, p.clientID, PersistKey, data); err != nil {
		return fmt.Errorf("store ui preferences: %w", err)
	}
	p.last = data
	return nil
}

func persistedChanged(next, prev State) bool {
	return next.Theme != prev.Theme ||
		next.Layout != prev.Layout ||
		!slices.Equal(next.CommandPalette.History, prev.CommandPalette.History)
}
