// Package session holds the application state shared by every view: the
// theme, whether the user has logged in, and notifications waiting to be
// shown. There is one State per process; nothing is persisted.
package session

import (
	"sync"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

type Level string

const (
	Success Level = "success"
	Error   Level = "error"
	Info    Level = "info"
)

// Notification is a transient message for the toast area.
type Notification struct {
	Message string
	Level   Level
}

type State struct {
	mu            sync.RWMutex
	theme         Theme
	authenticated bool
	pending       []Notification
}

// New returns logged-out state with the light theme.
func New() *State {
	return &State{theme: Light}
}

func (s *State) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// ToggleTheme flips the theme and returns the new one.
func (s *State) ToggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == Dark {
		s.theme = Light
	} else {
		s.theme = Dark
	}
	return s.theme
}

func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *State) SignIn() {
	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
}

// SignOut clears the authenticated flag. Theme and queued notifications stay.
func (s *State) SignOut() {
	s.mu.Lock()
	s.authenticated = false
	s.mu.Unlock()
}

// Notify queues a message to be shown on the next full page render.
func (s *State) Notify(level Level, msg string) {
	s.mu.Lock()
	s.pending = append(s.pending, Notification{Message: msg, Level: level})
	s.mu.Unlock()
}

// TakeNotifications returns and clears queued messages.
func (s *State) TakeNotifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}
