package sdlwin

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

// handleLookup maps an SDL window id to the runtime handle. Unknown ids,
// such as windows destroyed while their events were queued, report false.
type handleLookup func(windowID uint32) (platform.Handle, bool)

func modifiers(mod uint16) platform.Modifier {
	var m platform.Modifier
	if mod&uint16(sdl.KMOD_ALT) != 0 {
		m |= platform.ModAlt
	}
	if mod&uint16(sdl.KMOD_CTRL) != 0 {
		m |= platform.ModCtrl
	}
	if mod&uint16(sdl.KMOD_SHIFT) != 0 {
		m |= platform.ModShift
	}
	return m
}

// translate converts a native SDL event. Events the runtime has no use for,
// and window events for windows it does not know, report false.
func translate(ev sdl.Event, lookup handleLookup) (platform.Event, bool) {
	evt, windowID, ok := convert(ev)
	if !ok {
		return platform.Event{}, false
	}
	if windowID == nil {
		return evt, true
	}
	h, known := lookup(*windowID)
	if !known {
		return platform.Event{}, false
	}
	evt.Target = h
	return evt, true
}

// convert maps the event without resolving its window. windowID is nil for
// application-wide events.
func convert(ev sdl.Event) (platform.Event, *uint32, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return platform.Event{Code: platform.EventQuit}, nil, true

	case *sdl.KeyboardEvent:
		code := platform.EventKeyDown
		if e.Type == sdl.KEYUP {
			code = platform.EventKeyUp
		}
		return platform.Event{
			Code:   code,
			Param1: int64(e.Keysym.Sym),
			Param2: int64(modifiers(e.Keysym.Mod)),
		}, &e.WindowID, true

	case *sdl.MouseButtonEvent:
		if e.Button != sdl.BUTTON_LEFT {
			return platform.Event{}, nil, false
		}
		code := platform.EventMouseDown
		if e.Type == sdl.MOUSEBUTTONUP {
			code = platform.EventMouseUp
		}
		return platform.Event{Code: code, Param1: int64(e.X), Param2: int64(e.Y)}, &e.WindowID, true

	case *sdl.MouseMotionEvent:
		return platform.Event{Code: platform.EventMouseMove, Param1: int64(e.X), Param2: int64(e.Y)}, &e.WindowID, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_EXPOSED:
			return platform.Event{Code: platform.EventExpose}, &e.WindowID, true
		case sdl.WINDOWEVENT_CLOSE:
			return platform.Event{Code: platform.EventClose}, &e.WindowID, true
		}
	}
	return platform.Event{}, nil, false
}
