// Package state holds the per-instance interface record shared by the
// dispatch loop, the refresh cycle and shutdown.
package state

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/skinrt/pkg/skins/host"
	"github.com/BrandonKowalski/skinrt/pkg/skins/theme"
)

// Status is the close-request flag.
type Status int32

const (
	Running Status = iota
	EndRequested
	Error
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case EndRequested:
		return "end_requested"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// State is the interface record. The mutex guards the theme, input and
// playlist fields; the status is readable without it.
type State struct {
	mu sync.Mutex

	theme    *theme.Theme
	input    host.Input
	playlist host.Playlist
	status   *atomic.Int32
	released bool
}

// New returns a running State with nothing bound.
func New() *State {
	return &State{status: atomic.NewInt32(int32(Running))}
}

// Lock takes the state-wide lock.
func (s *State) Lock() { s.mu.Lock() }

// Unlock releases the state-wide lock.
func (s *State) Unlock() { s.mu.Unlock() }

// Status returns the close-request flag.
func (s *State) Status() Status {
	return Status(s.status.Load())
}

// SetStatus sets the close-request flag.
func (s *State) SetStatus(st Status) {
	s.status.Store(int32(st))
}

// RequestEnd moves a running state to EndRequested. An Error status is kept.
func (s *State) RequestEnd() {
	s.status.CompareAndSwap(int32(Running), int32(EndRequested))
}

// Theme returns the active theme. Callers hold the lock.
func (s *State) Theme() *theme.Theme { return s.theme }

// Input returns the bound input, or nil. Callers hold the lock.
func (s *State) Input() host.Input { return s.input }

// Playlist returns the bound playlist, or nil. Callers hold the lock.
func (s *State) Playlist() host.Playlist { return s.playlist }

// SetInput replaces the bound input. Callers hold the lock; the previous
// input is not released.
func (s *State) SetInput(in host.Input) { s.input = in }

// SetPlaylist replaces the bound playlist. Callers hold the lock.
func (s *State) SetPlaylist(pl host.Playlist) { s.playlist = pl }

// InstallTheme makes t the active theme and closes the previous one. Callers
// hold the lock.
func (s *State) InstallTheme(t *theme.Theme) {
	if s.theme != nil && s.theme != t {
		s.theme.Close()
	}
	s.theme = t
}

// Release drops every bound reference in teardown order: input, playlist,
// then the theme. It tolerates a partially initialized state and is safe to
// call twice.
func (s *State) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true

	if s.input != nil {
		s.input.Release()
		s.input = nil
	}
	if s.playlist != nil {
		s.playlist.Release()
		s.playlist = nil
	}
	if s.theme != nil {
		s.theme.Close()
		s.theme = nil
	}
}
