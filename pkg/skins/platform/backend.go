// Package platform defines the boundary between the skin runtime and a
// windowing backend. The runtime's dispatch and refresh logic is written once
// against Backend; each target (SDL2, terminal, headless) provides its own
// implementation in a sub-package.
package platform

import (
	"context"
	"errors"
	"image"
)

// ErrClosed is returned by NextEvent and PostMessage once the backend is closed.
var ErrClosed = errors.New("platform: backend closed")

// Handle identifies a native window. The zero Handle means "no window" and is
// used as the target of broadcast events.
type Handle uint64

// Capabilities records optional platform features probed once when the
// backend opens. Missing capabilities degrade drawing, never startup.
type Capabilities struct {
	TransparentBlit bool // color-keyed blitting of window bitmaps
	LayeredWindows  bool // per-window alpha
	RenderTarget    bool // off-screen composition before present
}

// WindowSpec describes a window the backend should create.
type WindowSpec struct {
	Name    string
	X, Y    int
	Width   int
	Height  int
	Alpha   uint8
	Visible bool
}

// Rect is a control rectangle in window coordinates.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// DrawKind selects how a Drawable is rendered.
type DrawKind int

const (
	DrawImage DrawKind = iota
	DrawSlider
	DrawText
	DrawButton
)

// Drawable is one element of a window scene. Backends render what they can
// and ignore the rest.
type Drawable struct {
	Kind    DrawKind
	ID      string
	Rect    Rect
	Image   *image.RGBA
	Value   int // slider position in [0, SliderRange]
	Text    string
	Pressed bool
}

// Scene is the full content of one window for a single paint.
type Scene struct {
	Background *image.RGBA
	Items      []Drawable
}

// Backend abstracts the native windowing system.
//
// NextEvent is only called from the dispatch goroutine. PostMessage may be
// called from any goroutine and must wake a blocked NextEvent.
type Backend interface {
	Open() (Capabilities, error)
	NextEvent(ctx context.Context) (Event, error)
	PostMessage(evt Event) error

	CreateWindow(spec WindowSpec) (Handle, error)
	DestroyWindow(h Handle)
	ShowWindow(h Handle, visible bool)
	MoveWindow(h Handle, x, y int)
	Paint(h Handle, scene Scene)

	Close() error
}

// Poster is the narrow view of a Backend needed to post messages.
type Poster interface {
	PostMessage(evt Event) error
}
