//go:build !linux

package main

import (
	"errors"

	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

func withKeyboard(platform.Backend, string) (platform.Backend, error) {
	return nil, errors.New("--evdev is only supported on Linux")
}
