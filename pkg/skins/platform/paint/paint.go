// Package paint renders window scenes into RGBA images. Backends that
// cannot draw a primitive natively (text, in particular) use it, and the
// headless backend composes every paint with it.
package paint

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

// Default colors for primitives without a bitmap.
var (
	Backdrop   = color.RGBA{R: 0x18, G: 0x18, B: 0x18, A: 0xff}
	Track      = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
	Accent     = color.RGBA{R: 0x4a, G: 0x9e, B: 0xff, A: 0xff}
	Foreground = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	PressShade = color.RGBA{A: 0x60}
)

var face = basicfont.Face7x13

// SliderFill returns the part of a slider rectangle covered by value.
func SliderFill(r platform.Rect, value int) platform.Rect {
	if value < 0 {
		value = 0
	}
	if value > constants.SliderRange {
		value = constants.SliderRange
	}
	r.W = r.W * value / constants.SliderRange
	return r
}

// Rect converts a control rectangle.
func Rect(r platform.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// TextSize returns the pixel size of s in the built-in face.
func TextSize(s string) (int, int) {
	w := font.MeasureString(face, s).Ceil()
	return w, face.Metrics().Height.Ceil()
}

// Text renders s on a transparent background, sized to fit.
func Text(s string, c color.Color) *image.RGBA {
	w, h := TextSize(s)
	if w == 0 {
		w = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	drawText(dst, dst.Bounds(), s, c)
	return dst
}

func drawText(dst draw.Image, r image.Rectangle, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(r.Min.X, r.Min.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// Compose renders scene into a new width x height image.
func Compose(width, height int, scene platform.Scene) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Backdrop), image.Point{}, draw.Src)
	if scene.Background != nil {
		draw.Draw(dst, dst.Bounds(), scene.Background, scene.Background.Bounds().Min, draw.Over)
	}

	for _, item := range scene.Items {
		r := Rect(item.Rect).Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}

		switch item.Kind {
		case platform.DrawImage, platform.DrawButton:
			if item.Image != nil {
				draw.Draw(dst, r, item.Image, item.Image.Bounds().Min, draw.Over)
			}
			if item.Pressed {
				draw.Draw(dst, r, image.NewUniform(PressShade), image.Point{}, draw.Over)
			}

		case platform.DrawSlider:
			if item.Image != nil {
				draw.Draw(dst, r, item.Image, item.Image.Bounds().Min, draw.Over)
			} else {
				draw.Draw(dst, r, image.NewUniform(Track), image.Point{}, draw.Src)
			}
			fill := Rect(SliderFill(item.Rect, item.Value)).Intersect(dst.Bounds())
			draw.Draw(dst, fill, image.NewUniform(Accent), image.Point{}, draw.Src)

		case platform.DrawText:
			if item.Image != nil {
				draw.Draw(dst, r, item.Image, item.Image.Bounds().Min, draw.Over)
			}
			clip, _ := dst.SubImage(r).(*image.RGBA)
			drawText(clip, r, item.Text, Foreground)
		}
	}
	return dst
}
