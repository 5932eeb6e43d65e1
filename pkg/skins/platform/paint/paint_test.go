package paint

import (
	"image"
	"image/color"
	"testing"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

func TestSliderFill(t *testing.T) {
	r := platform.Rect{X: 10, Y: 5, W: 200, H: 8}
	tests := []struct {
		value int
		want  int
	}{
		{0, 0},
		{constants.SliderRange / 2, 100},
		{constants.SliderRange, 200},
		{-1, 0},
		{constants.SliderRange * 2, 200},
	}
	for _, tt := range tests {
		got := SliderFill(r, tt.value)
		if got.W != tt.want || got.X != r.X || got.H != r.H {
			t.Errorf("SliderFill(%d) = %+v, want width %d", tt.value, got, tt.want)
		}
	}
}

func TestComposeSlider(t *testing.T) {
	scene := platform.Scene{Items: []platform.Drawable{{
		Kind:  platform.DrawSlider,
		Rect:  platform.Rect{X: 0, Y: 0, W: 100, H: 4},
		Value: constants.SliderRange / 2,
	}}}

	img := Compose(100, 10, scene)
	if got := img.RGBAAt(10, 1); got != Accent {
		t.Errorf("Filled part should use accent color, got %v", got)
	}
	if got := img.RGBAAt(90, 1); got != Track {
		t.Errorf("Unfilled part should use track color, got %v", got)
	}
	if got := img.RGBAAt(50, 8); got != Backdrop {
		t.Errorf("Outside controls should be backdrop, got %v", got)
	}
}

func TestComposeButtonPressedAndText(t *testing.T) {
	white := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := range white.Pix {
		white.Pix[i] = 0xff
	}

	scene := platform.Scene{Items: []platform.Drawable{
		{Kind: platform.DrawButton, Rect: platform.Rect{W: 10, H: 10}, Image: white, Pressed: true},
		{Kind: platform.DrawText, Rect: platform.Rect{X: 20, W: 60, H: 13}, Text: "0:01:00"},
	}}
	img := Compose(100, 20, scene)

	if got := img.RGBAAt(5, 5); got.R == 0xff || got.R == 0 {
		t.Errorf("Pressed button should be shaded, got %v", got)
	}

	var lit bool
	for x := 20; x < 80 && !lit; x++ {
		for y := 0; y < 13; y++ {
			if img.RGBAAt(x, y) != Backdrop {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("Expected text pixels inside the text rectangle")
	}
	if img.RGBAAt(90, 5) != Backdrop {
		t.Error("Text must be clipped to its rectangle")
	}
}

func TestText(t *testing.T) {
	img := Text("abc", color.White)
	w, h := TextSize("abc")
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Errorf("Text image %v does not match measured %dx%d", img.Bounds(), w, h)
	}
	if w != 21 {
		t.Errorf("Expected 7px per glyph, got width %d", w)
	}
}
