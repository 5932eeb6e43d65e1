package theme

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Definition is the decoded form of a theme.toml skin file.
type Definition struct {
	Name      string        `toml:"name"`
	Author    string        `toml:"author"`
	Bitmaps   []BitmapDef   `toml:"bitmap"`
	Events    []EventDef    `toml:"event"`
	Shortcuts []ShortcutDef `toml:"shortcut"`
	Windows   []WindowDef   `toml:"window"`
}

// BitmapDef declares an image file relative to the skin directory.
type BitmapDef struct {
	ID     string `toml:"id"`
	File   string `toml:"file"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// EventDef declares a named control event. Action, when set, names the
// semantic message posted when the event is triggered.
type EventDef struct {
	Name   string `toml:"name"`
	Action string `toml:"action"`
	Param1 int64  `toml:"param1"`
	Param2 int64  `toml:"param2"`
}

// ShortcutDef binds a key and an optional modifier to an event.
type ShortcutDef struct {
	Key      string `toml:"key"`
	Modifier string `toml:"modifier"`
	Event    string `toml:"event"`
}

// WindowDef declares one skin window and its controls.
type WindowDef struct {
	Name     string       `toml:"name"`
	X        int          `toml:"x"`
	Y        int          `toml:"y"`
	Width    int          `toml:"width"`
	Height   int          `toml:"height"`
	Alpha    *int         `toml:"alpha"`
	Visible  *bool        `toml:"visible"`
	Bitmap   string       `toml:"bitmap"`
	Controls []ControlDef `toml:"control"`
}

// ControlDef declares one control. Event is triggered by the control; Refresh
// names the event whose posted values and texts the control displays.
type ControlDef struct {
	Type    string `toml:"type"`
	ID      string `toml:"id"`
	X       int    `toml:"x"`
	Y       int    `toml:"y"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Bitmap  string `toml:"bitmap"`
	Event   string `toml:"event"`
	Refresh string `toml:"refresh"`
	Text    string `toml:"text"`
}

// Control type names accepted in skin files.
const (
	ControlImage  = "image"
	ControlButton = "button"
	ControlSlider = "slider"
	ControlText   = "text"
)

var namedKeys = map[string]int{
	"space":     ' ',
	"enter":     '\r',
	"return":    '\r',
	"tab":       '\t',
	"escape":    0x1b,
	"esc":       0x1b,
	"backspace": 0x08,
	"delete":    0x7f,
}

// ParseKey converts a shortcut key name to a key code: a single character,
// or one of a few named keys such as "space" or "escape".
func ParseKey(s string) (int, error) {
	if code, ok := namedKeys[strings.ToLower(s)]; ok {
		return code, nil
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return int(r), nil
	}
	return 0, fmt.Errorf("unknown key %q", s)
}

// Validate checks the structural rules that do not need any file access.
func (d *Definition) Validate() error {
	if len(d.Windows) == 0 {
		return fmt.Errorf("%w: no window declared", ErrInvalidSkin)
	}

	windows := make(map[string]bool, len(d.Windows))
	for i, w := range d.Windows {
		if w.Name == "" {
			return fmt.Errorf("%w: window %d has no name", ErrInvalidSkin, i)
		}
		if windows[w.Name] {
			return fmt.Errorf("%w: duplicate window %q", ErrInvalidSkin, w.Name)
		}
		windows[w.Name] = true
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("%w: window %q has no size", ErrInvalidSkin, w.Name)
		}
		for _, c := range w.Controls {
			switch c.Type {
			case ControlImage, ControlButton, ControlSlider, ControlText:
			default:
				return fmt.Errorf("%w: window %q: unknown control type %q", ErrInvalidSkin, w.Name, c.Type)
			}
		}
	}
	return nil
}
