// Package bank holds the named registries a loaded skin owns: the EventBank
// of bindable control events with its shortcut table, and the BitmapBank of
// decoded window and control images.
package bank

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BrandonKowalski/skinrt/pkg/skins/internal"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

var (
	// ErrNotFound indicates a name the loaded skin never declared.
	ErrNotFound = errors.New("bank: name not declared by skin")

	// ErrDuplicate indicates a name declared twice.
	ErrDuplicate = errors.New("bank: name already declared")
)

// Modifier is the single modifier state a shortcut is matched against.
type Modifier int

const (
	ModNone Modifier = iota
	ModAlt
	ModCtrl
)

func (m Modifier) String() string {
	switch m {
	case ModAlt:
		return "alt"
	case ModCtrl:
		return "ctrl"
	default:
		return "none"
	}
}

// ParseModifier maps a skin definition modifier name.
func ParseModifier(s string) (Modifier, error) {
	switch s {
	case "", "none":
		return ModNone, nil
	case "alt":
		return ModAlt, nil
	case "ctrl", "control":
		return ModCtrl, nil
	default:
		return ModNone, fmt.Errorf("unknown modifier %q", s)
	}
}

// ResolveModifier reduces a platform modifier mask to one Modifier. Alt wins
// over Ctrl, so Alt+Ctrl resolves to ModAlt.
func ResolveModifier(mask platform.Modifier) Modifier {
	switch {
	case mask&platform.ModAlt != 0:
		return ModAlt
	case mask&platform.ModCtrl != 0:
		return ModCtrl
	default:
		return ModNone
	}
}

// NormalizeKey folds lowercase ASCII letters to uppercase.
func NormalizeKey(key int) int {
	if key >= 'a' && key <= 'z' {
		return key - ('a' - 'A')
	}
	return key
}

type shortcut struct {
	key int
	mod Modifier
}

// EventBank maps skin-declared names to ControlEvents and holds the
// shortcut table.
type EventBank struct {
	events    map[string]*ControlEvent
	shortcuts map[shortcut]string
	poster    platform.Poster
}

// NewEventBank creates an empty bank whose action events post through poster.
func NewEventBank(poster platform.Poster) *EventBank {
	return &EventBank{
		events:    make(map[string]*ControlEvent),
		shortcuts: make(map[shortcut]string),
		poster:    poster,
	}
}

// Add registers a pure signal event with no action.
func (b *EventBank) Add(name string) (*ControlEvent, error) {
	return b.add(name, platform.Event{}, false)
}

// AddAction registers an event that posts msg when triggered.
func (b *EventBank) AddAction(name string, msg platform.Event) (*ControlEvent, error) {
	return b.add(name, msg, true)
}

func (b *EventBank) add(name string, msg platform.Event, action bool) (*ControlEvent, error) {
	if name == "" {
		return nil, fmt.Errorf("bank: empty event name")
	}
	if _, exists := b.events[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	evt := &ControlEvent{name: name, message: msg, action: action, poster: b.poster}
	b.events[name] = evt
	return evt, nil
}

// Get returns the event registered under name, or an error wrapping
// ErrNotFound. Callers treat ErrNotFound as "control absent from this skin".
func (b *EventBank) Get(name string) (*ControlEvent, error) {
	evt, ok := b.events[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return evt, nil
}

// Names returns all registered names in sorted order.
func (b *EventBank) Names() []string {
	names := make([]string, 0, len(b.events))
	for name := range b.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered events.
func (b *EventBank) Len() int {
	return len(b.events)
}

// BindShortcut maps (key, mod) to a registered event.
func (b *EventBank) BindShortcut(key int, mod Modifier, name string) error {
	if _, err := b.Get(name); err != nil {
		return err
	}
	sc := shortcut{key: NormalizeKey(key), mod: mod}
	if prev, exists := b.shortcuts[sc]; exists {
		return fmt.Errorf("%w: shortcut %s+%c already bound to %q", ErrDuplicate, mod, rune(sc.key), prev)
	}
	b.shortcuts[sc] = name
	return nil
}

// TestShortcut looks up the shortcut for a key press and triggers its event.
// It returns the matched event, or false when nothing is bound.
func (b *EventBank) TestShortcut(keyCode int, mask platform.Modifier) (*ControlEvent, bool) {
	sc := shortcut{key: NormalizeKey(keyCode), mod: ResolveModifier(mask)}
	name, ok := b.shortcuts[sc]
	if !ok {
		return nil, false
	}
	evt := b.events[name]
	if err := evt.Trigger(); err != nil {
		internal.GetInternalLogger().Warn("Shortcut action could not be posted", "event", name, "error", err)
	}
	return evt, true
}

// Close detaches every widget from every event.
func (b *EventBank) Close() {
	for _, evt := range b.events {
		evt.unbindAll()
	}
}
