//go:build linux

// Package evdevkbd feeds keys read from a Linux input device into any
// platform backend. It is used on devices where the window system never sees
// the keyboard, so skin shortcuts still work.
package evdevkbd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/holoplot/go-evdev"

	"github.com/BrandonKowalski/skinrt/pkg/skins/internal"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

const (
	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

// Device is the part of an evdev input device the keyboard reads from.
type Device interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Keyboard decorates a Backend. Key presses from the device are posted to
// the wrapped backend as broadcast key-down events.
type Keyboard struct {
	platform.Backend

	path string
	open func(string) (Device, error)

	mu   sync.Mutex
	dev  Device
	mods platform.Modifier
	wg   sync.WaitGroup
}

// New wraps backend with a reader for the device at path.
func New(backend platform.Backend, path string) *Keyboard {
	return &Keyboard{
		Backend: backend,
		path:    path,
		open: func(p string) (Device, error) {
			return evdev.Open(p)
		},
	}
}

// Open opens the wrapped backend, then the input device. A missing device
// leaves the backend usable without it.
func (k *Keyboard) Open() (platform.Capabilities, error) {
	caps, err := k.Backend.Open()
	if err != nil {
		return caps, err
	}

	dev, err := k.open(k.path)
	if err != nil {
		internal.GetInternalLogger().Warn("Input device unavailable", "path", k.path, "error", err)
		return caps, nil
	}

	k.mu.Lock()
	k.dev = dev
	k.mu.Unlock()

	k.wg.Add(1)
	go k.read(dev)
	return caps, nil
}

func (k *Keyboard) read(dev Device) {
	defer k.wg.Done()
	logger := internal.GetInternalLogger()

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				logger.Debug("Input device read ended", "path", k.path, "error", err)
			}
			return
		}

		evt, ok := k.handle(ev)
		if !ok {
			continue
		}
		if err := k.Backend.PostMessage(evt); errors.Is(err, platform.ErrClosed) {
			return
		} else if err != nil {
			logger.Warn("Dropped key from input device", "key", evt.Param1, "error", err)
		}
	}
}

// handle tracks modifier state and turns presses into key events.
func (k *Keyboard) handle(ev *evdev.InputEvent) (platform.Event, bool) {
	if ev.Type != evdev.EV_KEY {
		return platform.Event{}, false
	}

	if mod, ok := modifierKeys[ev.Code]; ok {
		k.mu.Lock()
		if ev.Value == keyRelease {
			k.mods &^= mod
		} else {
			k.mods |= mod
		}
		k.mu.Unlock()
		return platform.Event{}, false
	}

	if ev.Value != keyPress && ev.Value != keyRepeat {
		return platform.Event{}, false
	}
	code, ok := keyCodes[ev.Code]
	if !ok {
		return platform.Event{}, false
	}

	k.mu.Lock()
	mods := k.mods
	k.mu.Unlock()
	return platform.KeyDown(0, code, mods), true
}

// Close stops the reader and closes the wrapped backend.
func (k *Keyboard) Close() error {
	k.mu.Lock()
	dev := k.dev
	k.dev = nil
	k.mu.Unlock()

	var devErr error
	if dev != nil {
		if err := dev.Close(); err != nil {
			devErr = fmt.Errorf("close input device: %w", err)
		}
		k.wg.Wait()
	}
	return errors.Join(k.Backend.Close(), devErr)
}
