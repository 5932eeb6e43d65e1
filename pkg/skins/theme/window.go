package theme

import (
	"image"
	"log/slog"

	"github.com/BrandonKowalski/skinrt/pkg/skins/internal"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

func logger() *slog.Logger {
	return internal.GetInternalLogger()
}

// SkinWindow is one on-screen panel of a theme. It owns no business logic:
// it receives routed input events, reports whether it consumed them, and
// repaints itself through the backend.
type SkinWindow interface {
	Name() string
	Handle() platform.Handle
	ProcessEvent(evt platform.Event) bool

	Show()
	Hide()
	Visible() bool
	Refresh(force bool)

	Position() (x, y int)
	Move(x, y int)

	Close()
}

// Window is the standard SkinWindow: a background bitmap with controls on
// top, draggable by its background.
type Window struct {
	name       string
	handle     platform.Handle
	backend    platform.Backend
	background *image.RGBA
	controls   []Control

	x, y, width, height int
	visible             bool
	closed              bool

	capture      Control
	dragging     bool
	dragX, dragY int
}

func newWindow(backend platform.Backend, spec platform.WindowSpec, bg *image.RGBA) (*Window, error) {
	h, err := backend.CreateWindow(spec)
	if err != nil {
		return nil, err
	}
	return &Window{
		name:       spec.Name,
		handle:     h,
		backend:    backend,
		background: bg,
		x:          spec.X,
		y:          spec.Y,
		width:      spec.Width,
		height:     spec.Height,
		visible:    spec.Visible,
	}, nil
}

func (w *Window) Name() string            { return w.name }
func (w *Window) Handle() platform.Handle { return w.handle }
func (w *Window) Visible() bool           { return w.visible }
func (w *Window) Position() (int, int)    { return w.x, w.y }

// Controls returns the window's controls in declaration order.
func (w *Window) Controls() []Control {
	return w.controls
}

func (w *Window) addControl(c Control) {
	w.controls = append(w.controls, c)
}

// ProcessEvent handles one routed event and reports whether it was consumed.
func (w *Window) ProcessEvent(evt platform.Event) bool {
	if w.closed {
		return false
	}

	x, y := int(evt.Param1), int(evt.Param2)
	switch evt.Code {
	case platform.EventMouseDown:
		for i := len(w.controls) - 1; i >= 0; i-- {
			if w.controls[i].MouseDown(x, y) {
				w.capture = w.controls[i]
				w.Refresh(false)
				return true
			}
		}
		w.dragging, w.dragX, w.dragY = true, x, y
		return true

	case platform.EventMouseMove:
		if w.capture != nil {
			w.capture.MouseMove(x, y)
			w.Refresh(false)
			return true
		}
		if w.dragging {
			w.Move(w.x+x-w.dragX, w.y+y-w.dragY)
			return true
		}
		return false

	case platform.EventMouseUp:
		if w.capture != nil {
			w.capture.MouseUp(x, y)
			w.capture = nil
			w.Refresh(false)
			return true
		}
		if w.dragging {
			w.dragging = false
			return true
		}
		return false

	case platform.EventExpose:
		w.Refresh(true)
		return true

	case platform.EventClose:
		w.Hide()
		return true

	case platform.CtrlRepaint:
		// Broadcast to every window: repaint but never consume.
		w.Refresh(evt.Param2 != 0)
		return false
	}

	return false
}

func (w *Window) Show() {
	if w.closed || w.visible {
		return
	}
	w.visible = true
	w.backend.ShowWindow(w.handle, true)
	w.Refresh(true)
}

func (w *Window) Hide() {
	if w.closed || !w.visible {
		return
	}
	w.visible = false
	w.backend.ShowWindow(w.handle, false)
}

func (w *Window) Move(x, y int) {
	if w.closed {
		return
	}
	w.x, w.y = x, y
	w.backend.MoveWindow(w.handle, x, y)
}

// Refresh repaints the window when forced or when a control changed. Hidden
// windows only clear their dirty flags.
func (w *Window) Refresh(force bool) {
	if w.closed {
		return
	}
	dirty := force
	for _, c := range w.controls {
		if d, ok := c.(dirtier); ok && d.takeDirty() {
			dirty = true
		}
	}
	if !dirty || !w.visible {
		return
	}

	scene := platform.Scene{Background: w.background, Items: make([]platform.Drawable, 0, len(w.controls))}
	for _, c := range w.controls {
		scene.Items = append(scene.Items, c.Drawable())
	}
	w.backend.Paint(w.handle, scene)
}

// Close destroys the native window. Safe to call twice.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.controls = nil
	w.capture = nil
	w.backend.DestroyWindow(w.handle)
}
