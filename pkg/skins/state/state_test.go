package state

import (
	"testing"

	"github.com/BrandonKowalski/skinrt/pkg/skins/host/sim"
)

func TestStatusTransitions(t *testing.T) {
	s := New()
	if s.Status() != Running {
		t.Fatalf("Expected running, got %v", s.Status())
	}

	s.RequestEnd()
	if s.Status() != EndRequested {
		t.Errorf("Expected end_requested, got %v", s.Status())
	}

	s.SetStatus(Error)
	s.RequestEnd()
	if s.Status() != Error {
		t.Errorf("RequestEnd must not overwrite an error, got %v", s.Status())
	}
}

func TestReleaseOrderAndIdempotence(t *testing.T) {
	engine := sim.New()
	engine.Start(100, 10, true)

	s := New()
	s.Lock()
	s.SetInput(engine.FindInput())
	s.SetPlaylist(engine.FindPlaylist())
	s.Unlock()

	s.Release()
	s.Release()

	if engine.InputRefs.Load() != 0 || engine.PlaylistRefs.Load() != 0 {
		t.Errorf("Expected all references released, input=%d playlist=%d",
			engine.InputRefs.Load(), engine.PlaylistRefs.Load())
	}
}

func TestReleaseEmptyState(t *testing.T) {
	New().Release()
}
