package main

import (
	"fmt"

	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/headless"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/sdlwin"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/tty"
)

func newBackend(name, evdevPath string) (platform.Backend, error) {
	var backend platform.Backend
	switch name {
	case "", "sdl":
		backend = sdlwin.New(sdlwin.DefaultOptions())
	case "tty":
		backend = tty.New(nil)
	case "headless":
		backend = headless.New()
	default:
		return nil, fmt.Errorf("unknown backend %q (want sdl, tty or headless)", name)
	}

	if evdevPath != "" {
		return withKeyboard(backend, evdevPath)
	}
	return backend, nil
}
