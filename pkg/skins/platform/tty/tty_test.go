package tty

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/paint"
)

func openBackend(t *testing.T) (*Backend, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	b := New(screen)
	if _, err := b.Open(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b, screen
}

// nextEvent skips the repaints tcell produces for resizes.
func nextEvent(t *testing.T, b *Backend) platform.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	for {
		evt, err := b.NextEvent(ctx)
		if err != nil {
			t.Fatalf("NextEvent: %v", err)
		}
		if evt.Code != platform.CtrlRepaint {
			return evt
		}
	}
}

func TestPaintLaysOutCells(t *testing.T) {
	b, screen := openBackend(t)
	h, err := b.CreateWindow(platform.WindowSpec{Name: "main", Width: 32, Height: 32, Visible: true})
	if err != nil {
		t.Fatal(err)
	}

	b.Paint(h, platform.Scene{Items: []platform.Drawable{
		{Kind: platform.DrawSlider, Rect: platform.Rect{W: 32, H: 16}, Value: constants.SliderRange},
		{Kind: platform.DrawText, Rect: platform.Rect{Y: 16, W: 32, H: 16}, Text: "hi!!!"},
	}})

	_, _, style, _ := screen.GetContent(0, 0)
	if _, bg, _ := style.Decompose(); bg != toColor(paint.Accent) {
		t.Errorf("Full slider cell should be accent, got %v", bg)
	}

	for col, want := range "hi!!" {
		if r, _, _, _ := screen.GetContent(col, 1); r != want {
			t.Errorf("Cell %d = %q, want %q", col, r, want)
		}
	}
	if r, _, _, _ := screen.GetContent(4, 1); r == '!' {
		t.Error("Text must be clipped to the control width")
	}

	b.ShowWindow(h, false)
	_, _, style, _ = screen.GetContent(0, 0)
	if _, bg, _ := style.Decompose(); bg == toColor(paint.Accent) {
		t.Error("Hidden window is still drawn")
	}
}

func TestPostMessageWakesNextEvent(t *testing.T) {
	b, _ := openBackend(t)

	want := platform.Message(platform.MsgSeek, 1, 2)
	if err := b.PostMessage(want); err != nil {
		t.Fatal(err)
	}
	if got := nextEvent(t, b); got != want {
		t.Errorf("Got %+v, want %+v", got, want)
	}
}

func TestMouseAndKeys(t *testing.T) {
	b, screen := openBackend(t)
	h, err := b.CreateWindow(platform.WindowSpec{Name: "main", X: 16, Y: 16, Width: 32, Height: 32, Visible: true})
	if err != nil {
		t.Fatal(err)
	}

	post := func(ev tcell.Event) {
		t.Helper()
		if err := screen.PostEvent(ev); err != nil {
			t.Fatal(err)
		}
	}

	post(tcell.NewEventMouse(3, 1, tcell.Button1, 0))
	if got := nextEvent(t, b); got.Code != platform.EventMouseDown || got.Target != h || got.Param1 != 12 || got.Param2 != 8 {
		t.Errorf("Unexpected press %+v", got)
	}

	// Outside the window but still grabbed.
	post(tcell.NewEventMouse(10, 5, tcell.Button1, 0))
	if got := nextEvent(t, b); got.Code != platform.EventMouseMove || got.Target != h || got.Param1 != 68 || got.Param2 != 72 {
		t.Errorf("Unexpected drag %+v", got)
	}

	post(tcell.NewEventMouse(10, 5, tcell.ButtonNone, 0))
	if got := nextEvent(t, b); got.Code != platform.EventMouseUp || got.Target != h {
		t.Errorf("Unexpected release %+v", got)
	}

	// Nothing under the pointer: dropped.
	post(tcell.NewEventMouse(60, 20, tcell.ButtonNone, 0))
	post(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModAlt))
	got := nextEvent(t, b)
	if got.Code != platform.EventKeyDown || got.Target != h || got.Param1 != 'p' || platform.Modifier(got.Param2) != platform.ModAlt {
		t.Errorf("Unexpected key %+v", got)
	}
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want int
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 'x'},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), '\r'},
		{tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone), 0x1b},
	}
	for _, tt := range tests {
		got, ok := keyCode(tt.ev)
		if !ok || got != tt.want {
			t.Errorf("keyCode(%v) = %d, %v; want %d", tt.ev.Name(), got, ok, tt.want)
		}
	}

	if _, ok := keyCode(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)); ok {
		t.Error("Function keys have no shortcut code")
	}
}

func TestCloseEndsNextEvent(t *testing.T) {
	b, _ := openBackend(t)
	_ = b.Close()

	if _, err := b.NextEvent(t.Context()); err != platform.ErrClosed {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if err := b.PostMessage(platform.Message(platform.MsgPlay, 0, 0)); err != platform.ErrClosed {
		t.Errorf("Expected ErrClosed on post, got %v", err)
	}
}
