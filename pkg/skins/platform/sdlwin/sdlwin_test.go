package sdlwin

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

type fakeTexture struct {
	destroyed *[]string
	name      string
}

func (f fakeTexture) Destroy() error {
	*f.destroyed = append(*f.destroyed, f.name)
	return nil
}

func TestTextureCacheEvictsLeastRecentlyUsed(t *testing.T) {
	var destroyed []string
	tex := func(name string) fakeTexture { return fakeTexture{destroyed: &destroyed, name: name} }

	c := newTextureCache[fakeTexture](2)
	c.set("a", tex("a"))
	c.set("b", tex("b"))
	if _, ok := c.get("a"); !ok {
		t.Fatal("Expected a cached")
	}
	c.set("c", tex("c"))

	if _, ok := c.get("b"); ok {
		t.Error("b was least recently used and should be evicted")
	}
	if len(destroyed) != 1 || destroyed[0] != "b" {
		t.Errorf("Expected b destroyed, got %v", destroyed)
	}

	c.set("a", tex("a2"))
	if len(destroyed) != 2 || destroyed[1] != "a" {
		t.Errorf("Replacing a key must destroy the old texture, got %v", destroyed)
	}
	if c.len() != 2 {
		t.Errorf("Expected 2 entries, got %d", c.len())
	}

	c.destroy()
	if c.len() != 0 || len(destroyed) != 4 {
		t.Errorf("destroy left %d entries, destroyed %v", c.len(), destroyed)
	}
}

func TestTranslate(t *testing.T) {
	lookup := func(id uint32) (platform.Handle, bool) {
		if id == 0 || id > 3 {
			return 0, false
		}
		return platform.Handle(id * 10), true
	}

	tests := []struct {
		name string
		in   sdl.Event
		want platform.Event
		ok   bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, platform.Event{Code: platform.EventQuit}, true},
		{
			"ctrl key",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, WindowID: 1, Keysym: sdl.Keysym{Sym: 'q', Mod: uint16(sdl.KMOD_LCTRL)}},
			platform.Event{Code: platform.EventKeyDown, Target: 10, Param1: 'q', Param2: int64(platform.ModCtrl)},
			true,
		},
		{
			"key up",
			&sdl.KeyboardEvent{Type: sdl.KEYUP, WindowID: 2, Keysym: sdl.Keysym{Sym: 'p'}},
			platform.Event{Code: platform.EventKeyUp, Target: 20, Param1: 'p'},
			true,
		},
		{
			"left click",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, WindowID: 1, Button: sdl.BUTTON_LEFT, X: 4, Y: 6},
			platform.Event{Code: platform.EventMouseDown, Target: 10, Param1: 4, Param2: 6},
			true,
		},
		{
			"right click ignored",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, WindowID: 1, Button: sdl.BUTTON_RIGHT},
			platform.Event{},
			false,
		},
		{
			"motion",
			&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, WindowID: 3, X: 7, Y: 8},
			platform.Event{Code: platform.EventMouseMove, Target: 30, Param1: 7, Param2: 8},
			true,
		},
		{
			"close",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, WindowID: 1, Event: sdl.WINDOWEVENT_CLOSE},
			platform.Event{Code: platform.EventClose, Target: 10},
			true,
		},
		{
			"click on unknown window dropped",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, WindowID: 99, Button: sdl.BUTTON_LEFT, X: 4, Y: 6},
			platform.Event{},
			false,
		},
		{
			"key on unknown window dropped",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, WindowID: 99, Keysym: sdl.Keysym{Sym: 'p'}},
			platform.Event{},
			false,
		},
		{
			"expose on unknown window dropped",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, WindowID: 99, Event: sdl.WINDOWEVENT_EXPOSED},
			platform.Event{},
			false,
		},
		{
			"resize ignored",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, WindowID: 1, Event: sdl.WINDOWEVENT_RESIZED},
			platform.Event{},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.in, lookup)
			if ok != tt.ok || got != tt.want {
				t.Errorf("translate() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestOptionsFlags(t *testing.T) {
	opts := Options{Borderless: true}
	flags := opts.flags(false)
	if flags&sdl.WINDOW_HIDDEN == 0 || flags&sdl.WINDOW_SHOWN != 0 {
		t.Errorf("Hidden window flags wrong: %#x", flags)
	}
	if flags&sdl.WINDOW_BORDERLESS == 0 {
		t.Error("Expected borderless flag")
	}
	if (Options{}).flags(true)&sdl.WINDOW_SHOWN == 0 {
		t.Error("Expected shown flag")
	}
}
