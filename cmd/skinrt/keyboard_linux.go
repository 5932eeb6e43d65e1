//go:build linux

package main

import (
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/evdevkbd"
)

func withKeyboard(backend platform.Backend, path string) (platform.Backend, error) {
	return evdevkbd.New(backend, path), nil
}
