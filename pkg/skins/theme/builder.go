package theme

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/BrandonKowalski/skinrt/pkg/skins/bank"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

// Builder is the narrow set of operations a skin parser needs to turn a
// definition into live objects.
type Builder interface {
	AddBitmap(def BitmapDef) error
	AddEvent(def EventDef) error
	AddShortcut(def ShortcutDef) error
	AddWindow(def WindowDef) error
	AddControl(window string, def ControlDef) error
}

type themeBuilder struct {
	backend platform.Backend
	dir     string
	theme   *Theme
	windows map[string]*Window
}

func newBuilder(backend platform.Backend, dir string, t *Theme) *themeBuilder {
	return &themeBuilder{
		backend: backend,
		dir:     dir,
		theme:   t,
		windows: make(map[string]*Window),
	}
}

func (b *themeBuilder) AddBitmap(def BitmapDef) error {
	if def.ID == "" {
		return fmt.Errorf("%w: bitmap without id", ErrInvalidSkin)
	}
	path := def.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.dir, path)
	}
	return b.theme.bitmaps.Load(def.ID, path, def.Width, def.Height)
}

func (b *themeBuilder) AddEvent(def EventDef) error {
	if def.Name == "" {
		return fmt.Errorf("%w: event without name", ErrInvalidSkin)
	}
	if def.Action == "" {
		_, err := b.theme.events.Add(def.Name)
		return err
	}

	code, ok := platform.MessageByName(def.Action)
	if !ok {
		return fmt.Errorf("%w: event %q: unknown action %q", ErrInvalidSkin, def.Name, def.Action)
	}
	_, err := b.theme.events.AddAction(def.Name, platform.Message(code, def.Param1, def.Param2))
	return err
}

func (b *themeBuilder) AddShortcut(def ShortcutDef) error {
	key, err := ParseKey(def.Key)
	if err != nil {
		return fmt.Errorf("%w: shortcut: %v", ErrInvalidSkin, err)
	}
	mod, err := bank.ParseModifier(def.Modifier)
	if err != nil {
		return fmt.Errorf("%w: shortcut %q: %v", ErrInvalidSkin, def.Key, err)
	}
	return b.theme.events.BindShortcut(key, mod, def.Event)
}

func (b *themeBuilder) AddWindow(def WindowDef) error {
	spec := platform.WindowSpec{
		Name:    def.Name,
		X:       def.X,
		Y:       def.Y,
		Width:   def.Width,
		Height:  def.Height,
		Alpha:   255,
		Visible: true,
	}
	if def.Alpha != nil {
		spec.Alpha = uint8(clamp(*def.Alpha, 0, 255))
	}
	if def.Visible != nil {
		spec.Visible = *def.Visible
	}

	var bg *image.RGBA
	if def.Bitmap != "" {
		img, err := b.theme.bitmaps.Get(def.Bitmap)
		if err != nil {
			return fmt.Errorf("window %q: %w", def.Name, err)
		}
		bg = img
	}

	w, err := newWindow(b.backend, spec, bg)
	if err != nil {
		return fmt.Errorf("create window %q: %w", def.Name, err)
	}
	b.windows[def.Name] = w
	b.theme.addWindow(w)
	return nil
}

func (b *themeBuilder) AddControl(window string, def ControlDef) error {
	w, ok := b.windows[window]
	if !ok {
		return fmt.Errorf("%w: control %q: unknown window %q", ErrInvalidSkin, def.ID, window)
	}

	base := baseControl{
		id:    def.ID,
		rect:  platform.Rect{X: def.X, Y: def.Y, W: def.Width, H: def.Height},
		dirty: true,
	}
	if def.Bitmap != "" {
		img, err := b.theme.bitmaps.Get(def.Bitmap)
		if err != nil {
			return fmt.Errorf("control %q: %w", def.ID, err)
		}
		base.image = img
		if base.rect.W == 0 && base.rect.H == 0 {
			base.rect.W, base.rect.H = img.Bounds().Dx(), img.Bounds().Dy()
		}
	}

	action, err := b.lookup(def.Event)
	if err != nil {
		return fmt.Errorf("control %q: %w", def.ID, err)
	}

	var c Control
	switch def.Type {
	case ControlImage:
		c = &Image{baseControl: base}
	case ControlButton:
		c = &Button{baseControl: base, action: action}
	case ControlSlider:
		c = &Slider{baseControl: base, action: action}
	case ControlText:
		c = &Text{baseControl: base, text: def.Text}
	default:
		return fmt.Errorf("%w: unknown control type %q", ErrInvalidSkin, def.Type)
	}

	if def.Refresh != "" {
		evt, err := b.theme.events.Get(def.Refresh)
		if err != nil {
			return fmt.Errorf("control %q: %w", def.ID, err)
		}
		evt.Bind(c)
	}

	w.addControl(c)
	return nil
}

func (b *themeBuilder) lookup(name string) (*bank.ControlEvent, error) {
	if name == "" {
		return nil, nil
	}
	return b.theme.events.Get(name)
}

// abort releases everything created so far.
func (b *themeBuilder) abort() {
	b.theme.Close()
}

// Build drives bd with every declaration of def in dependency order.
func Build(def *Definition, bd Builder) error {
	for _, bm := range def.Bitmaps {
		if err := bd.AddBitmap(bm); err != nil {
			return err
		}
	}
	for _, ev := range def.Events {
		if err := bd.AddEvent(ev); err != nil {
			return err
		}
	}
	for _, sc := range def.Shortcuts {
		if err := bd.AddShortcut(sc); err != nil {
			return err
		}
	}
	for _, w := range def.Windows {
		if err := bd.AddWindow(w); err != nil {
			return err
		}
		for _, c := range w.Controls {
			if err := bd.AddControl(w.Name, c); err != nil {
				return err
			}
		}
	}
	return nil
}
