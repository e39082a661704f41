package uistate

import "sync"

// Listener observes one applied action. Both states are private copies.
// Listeners run synchronously inside Dispatch and must not dispatch.
type Listener func(next, prev State)

// Option configures a Store.
type Option func(*Store)

// WithInitialState starts the store from state instead of Defaults.
func WithInitialState(state State) Option {
	return func(s *Store) {
		s.state = state.Clone()
	}
}

type subscription struct {
	id       uint64
	listener Listener
}

// Store owns one client's State. Actions apply in call order even when
// dispatched from several goroutines, and subscribers observe them in that
// same order.
type Store struct {
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     State
	listeners []subscription
	nextID    uint64
}

// NewStore builds an isolated store.
func NewStore(opts ...Option) *Store {
	s := &Store{state: Defaults()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Dispatch applies action, notifies listeners and returns the new state.
func (s *Store) Dispatch(action Action) State {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, action)
	s.state = next
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.listener(next.Clone(), prev.Clone())
	}
	return next.Clone()
}

// Subscribe registers listener and returns a func that removes it.
func (s *Store) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, listener: listener})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) OpenCommandPalette() State  { return s.Dispatch(OpenCommandPalette{}) }
func (s *Store) CloseCommandPalette() State { return s.Dispatch(CloseCommandPalette{}) }
func (s *Store) SetCommandPaletteOpen(open bool) State {
	return s.Dispatch(SetCommandPaletteOpen{Open: open})
}
func (s *Store) ToggleCommandPalette() State { return s.Dispatch(ToggleCommandPalette{}) }
func (s *Store) AddToHistory(command string) State {
	return s.Dispatch(AddCommandHistory{Command: command})
}
func (s *Store) ClearHistory() State { return s.Dispatch(ClearCommandHistory{}) }

func (s *Store) OpenFeedbackModal() State  { return s.Dispatch(OpenFeedbackModal{}) }
func (s *Store) CloseFeedbackModal() State { return s.Dispatch(CloseFeedbackModal{}) }
func (s *Store) SetFeedbackModalOpen(open bool) State {
	return s.Dispatch(SetFeedbackModalOpen{Open: open})
}
func (s *Store) SetFeedbackSuccess(success bool) State {
	return s.Dispatch(SetFeedbackSuccess{Success: success})
}
func (s *Store) SetFeedbackError(failed bool) State {
	return s.Dispatch(SetFeedbackError{Error: failed})
}
func (s *Store) ResetFeedbackModal() State { return s.Dispatch(ResetFeedbackModal{}) }

func (s *Store) SetTheme(theme Theme) State { return s.Dispatch(SetTheme{Theme: theme}) }

func (s *Store) SetSidebarOpen(open bool) State { return s.Dispatch(SetSidebarOpen{Open: open}) }
func (s *Store) ToggleSidebar() State           { return s.Dispatch(ToggleSidebar{}) }
func (s *Store) SetSidebarWidth(px int) State {
	return s.Dispatch(SetSidebarWidth{Width: px})
}
