// Package theme holds a loaded skin: its windows, its event bank and its
// bitmaps, plus the loader that builds one from a theme.toml file.
package theme

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BrandonKowalski/skinrt/pkg/skins/bank"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

// ErrInvalidSkin reports a skin file that decoded but cannot be built.
var ErrInvalidSkin = errors.New("invalid skin")

// LoadError wraps any failure to load the skin at Path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load skin %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Theme is one fully loaded skin. Windows are kept in creation order, which
// is also the order broadcast events are offered in.
type Theme struct {
	Name string
	Path string

	windows []SkinWindow
	events  *bank.EventBank
	bitmaps *bank.BitmapBank
	closed  bool
}

func newTheme(name, path string, poster platform.Poster) *Theme {
	return &Theme{
		Name:    name,
		Path:    path,
		events:  bank.NewEventBank(poster),
		bitmaps: bank.NewBitmapBank(),
	}
}

// EventBank returns the theme's named event registry.
func (t *Theme) EventBank() *bank.EventBank {
	return t.events
}

// Bitmaps returns the theme's decoded images.
func (t *Theme) Bitmaps() *bank.BitmapBank {
	return t.bitmaps
}

// Windows returns the window registry in creation order.
func (t *Theme) Windows() []SkinWindow {
	return t.windows
}

// Window looks a window up by name.
func (t *Theme) Window(name string) (SkinWindow, bool) {
	for _, w := range t.windows {
		if w.Name() == name {
			return w, true
		}
	}
	return nil, false
}

func (t *Theme) addWindow(w SkinWindow) {
	t.windows = append(t.windows, w)
}

// Route offers a native event to the registry: broadcast when it carries no
// target handle, delivered to the owning window otherwise.
func (t *Theme) Route(evt platform.Event) bool {
	if evt.Target == 0 {
		return t.Broadcast(evt)
	}
	return t.Deliver(evt)
}

// Broadcast offers evt to every window in registry order and stops at the
// first one that consumes it.
func (t *Theme) Broadcast(evt platform.Event) bool {
	for _, w := range t.windows {
		if w.ProcessEvent(evt) {
			return true
		}
	}
	return false
}

// Deliver hands evt to the window owning evt.Target. Events for unknown
// handles are dropped.
func (t *Theme) Deliver(evt platform.Event) bool {
	for _, w := range t.windows {
		if w.Handle() == evt.Target {
			return w.ProcessEvent(evt)
		}
	}
	return false
}

// ShowAll shows every window.
func (t *Theme) ShowAll() {
	for _, w := range t.windows {
		w.Show()
	}
}

// HideAll hides every window.
func (t *Theme) HideAll() {
	for _, w := range t.windows {
		w.Hide()
	}
}

// Refresh repaints the windows whose controls changed, or all of them when
// force is set.
func (t *Theme) Refresh(force bool) {
	for _, w := range t.windows {
		w.Refresh(force)
	}
}

// Layout encodes the window positions as "name=x,y;name=x,y".
func (t *Theme) Layout() string {
	parts := make([]string, 0, len(t.windows))
	for _, w := range t.windows {
		x, y := w.Position()
		parts = append(parts, fmt.Sprintf("%s=%d,%d", w.Name(), x, y))
	}
	return strings.Join(parts, ";")
}

// ApplyLayout moves windows to the positions stored by Layout. Unknown
// windows are skipped; a malformed entry aborts with an error after the
// entries before it were applied.
func (t *Theme) ApplyLayout(blob string) error {
	if blob == "" {
		return nil
	}
	for _, entry := range strings.Split(blob, ";") {
		name, pos, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("layout entry %q: missing '='", entry)
		}
		xs, ys, ok := strings.Cut(pos, ",")
		if !ok {
			return fmt.Errorf("layout entry %q: missing ','", entry)
		}
		x, err := strconv.Atoi(xs)
		if err != nil {
			return fmt.Errorf("layout entry %q: %w", entry, err)
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			return fmt.Errorf("layout entry %q: %w", entry, err)
		}
		if w, found := t.Window(name); found {
			w.Move(x, y)
		}
	}
	return nil
}

// Close releases every window, the event bank and the bitmaps. Safe to call
// more than once.
func (t *Theme) Close() {
	if t == nil || t.closed {
		return
	}
	t.closed = true
	for _, w := range t.windows {
		w.Close()
	}
	t.windows = nil
	t.events.Close()
	t.bitmaps.Close()
}
