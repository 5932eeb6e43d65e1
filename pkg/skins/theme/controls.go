package theme

import (
	"image"

	"github.com/BrandonKowalski/skinrt/pkg/skins/bank"
	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

// Control is one widget inside a skin window. Controls are bound to
// EventBank entries by name at load time and never hold a reference to the
// interface state.
type Control interface {
	bank.Target
	ID() string
	Bounds() platform.Rect
	Drawable() platform.Drawable

	MouseDown(x, y int) bool
	MouseMove(x, y int) bool
	MouseUp(x, y int) bool
}

type baseControl struct {
	id    string
	rect  platform.Rect
	image *image.RGBA
	dirty bool
}

func (c *baseControl) ID() string              { return c.id }
func (c *baseControl) Bounds() platform.Rect   { return c.rect }
func (c *baseControl) SetValue(int)            {}
func (c *baseControl) SetText(string)          {}
func (c *baseControl) MouseDown(_, _ int) bool { return false }
func (c *baseControl) MouseMove(_, _ int) bool { return false }
func (c *baseControl) MouseUp(_, _ int) bool   { return false }

func (c *baseControl) takeDirty() bool {
	d := c.dirty
	c.dirty = false
	return d
}

type dirtier interface {
	takeDirty() bool
}

// Image is a static bitmap.
type Image struct {
	baseControl
}

func (c *Image) Drawable() platform.Drawable {
	return platform.Drawable{Kind: platform.DrawImage, ID: c.id, Rect: c.rect, Image: c.image}
}

// Button triggers its action event on a click released inside its bounds.
type Button struct {
	baseControl
	action  *bank.ControlEvent
	pressed bool
}

func (c *Button) Drawable() platform.Drawable {
	return platform.Drawable{Kind: platform.DrawButton, ID: c.id, Rect: c.rect, Image: c.image, Pressed: c.pressed}
}

func (c *Button) MouseDown(x, y int) bool {
	if !c.rect.Contains(x, y) {
		return false
	}
	c.pressed, c.dirty = true, true
	return true
}

func (c *Button) MouseMove(x, y int) bool {
	return c.pressed
}

func (c *Button) MouseUp(x, y int) bool {
	if !c.pressed {
		return false
	}
	c.pressed, c.dirty = false, true
	if c.rect.Contains(x, y) && c.action != nil {
		if err := c.action.Trigger(); err != nil {
			logger().Warn("Button action could not be posted", "control", c.id, "error", err)
		}
	}
	return true
}

// Slider shows a position in [0, SliderRange]. Dragging it posts its action
// event with the new position; refresh pushes are ignored while dragging so
// the host does not fight the user.
type Slider struct {
	baseControl
	action   *bank.ControlEvent
	value    int
	dragging bool
}

func (c *Slider) Value() int { return c.value }

func (c *Slider) SetValue(v int) {
	if c.dragging {
		return
	}
	v = clamp(v, 0, constants.SliderRange)
	if v != c.value {
		c.value, c.dirty = v, true
	}
}

func (c *Slider) Drawable() platform.Drawable {
	return platform.Drawable{Kind: platform.DrawSlider, ID: c.id, Rect: c.rect, Image: c.image, Value: c.value}
}

func (c *Slider) valueAt(x int) int {
	span := c.rect.W - 1
	if span <= 0 {
		return 0
	}
	return clamp((x-c.rect.X)*constants.SliderRange/span, 0, constants.SliderRange)
}

func (c *Slider) MouseDown(x, y int) bool {
	if !c.rect.Contains(x, y) {
		return false
	}
	c.dragging = true
	c.value, c.dirty = c.valueAt(x), true
	return true
}

func (c *Slider) MouseMove(x, y int) bool {
	if !c.dragging {
		return false
	}
	c.value, c.dirty = c.valueAt(x), true
	return true
}

func (c *Slider) MouseUp(x, y int) bool {
	if !c.dragging {
		return false
	}
	c.dragging = false
	c.value, c.dirty = c.valueAt(x), true
	if c.action != nil {
		if err := c.action.TriggerWith(int64(c.value)); err != nil {
			logger().Warn("Slider action could not be posted", "control", c.id, "error", err)
		}
	}
	return true
}

// Text displays the last text pushed to its bound event.
type Text struct {
	baseControl
	text string
}

func (c *Text) Text() string { return c.text }

func (c *Text) SetText(s string) {
	if s != c.text {
		c.text, c.dirty = s, true
	}
}

func (c *Text) Drawable() platform.Drawable {
	return platform.Drawable{Kind: platform.DrawText, ID: c.id, Rect: c.rect, Image: c.image, Text: c.text}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
