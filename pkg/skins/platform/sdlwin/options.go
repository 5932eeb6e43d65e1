package sdlwin

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
)

// Options controls how skin windows are created.
type Options struct {
	Borderless  bool // skins draw their own chrome
	AlwaysOnTop bool
	CacheSize   int // textures kept per window
}

// DefaultOptions returns borderless windows with a small texture cache.
// Development mode keeps the decorations so windows can be moved by the
// window manager while debugging.
func DefaultOptions() Options {
	return Options{
		Borderless: !constants.IsDevMode(),
		CacheSize:  defaultMaxCacheSize,
	}
}

func (o Options) flags(visible bool) uint32 {
	var flags uint32

	if visible {
		flags |= sdl.WINDOW_SHOWN
	} else {
		flags |= sdl.WINDOW_HIDDEN
	}

	if o.Borderless {
		flags |= sdl.WINDOW_BORDERLESS
	}

	if o.AlwaysOnTop {
		flags |= sdl.WINDOW_ALWAYS_ON_TOP
	}

	return flags
}
