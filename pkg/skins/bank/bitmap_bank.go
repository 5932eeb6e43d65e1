package bank

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// BitmapBank holds the decoded images a skin declares, keyed by id. Every
// image is stored at the size the skin declared for it.
type BitmapBank struct {
	bitmaps map[string]*image.RGBA
}

// NewBitmapBank creates an empty bank.
func NewBitmapBank() *BitmapBank {
	return &BitmapBank{bitmaps: make(map[string]*image.RGBA)}
}

// Load decodes the file at path and registers it under id. SVG files are
// rasterized at width x height; raster formats are scaled to it when both are
// positive and kept at their natural size otherwise.
func (b *BitmapBank) Load(id, path string, width, height int) error {
	if _, exists := b.bitmaps[id]; exists {
		return fmt.Errorf("%w: bitmap %q", ErrDuplicate, id)
	}

	var (
		img *image.RGBA
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		img, err = rasterizeSVG(path, width, height)
	case ".bmp":
		img, err = decodeRaster(path, width, height, bmp.Decode)
	default:
		img, err = decodeRaster(path, width, height, func(r io.Reader) (image.Image, error) {
			decoded, _, err := image.Decode(r)
			return decoded, err
		})
	}
	if err != nil {
		return fmt.Errorf("bitmap %q: %w", id, err)
	}

	b.bitmaps[id] = img
	return nil
}

// Put registers an already decoded image.
func (b *BitmapBank) Put(id string, img *image.RGBA) {
	b.bitmaps[id] = img
}

// Get returns the bitmap registered under id.
func (b *BitmapBank) Get(id string) (*image.RGBA, error) {
	img, ok := b.bitmaps[id]
	if !ok {
		return nil, fmt.Errorf("%w: bitmap %q", ErrNotFound, id)
	}
	return img, nil
}

// Len returns the number of loaded bitmaps.
func (b *BitmapBank) Len() int {
	return len(b.bitmaps)
}

// Close drops every bitmap.
func (b *BitmapBank) Close() {
	b.bitmaps = make(map[string]*image.RGBA)
}

func rasterizeSVG(path string, width, height int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	if width <= 0 || height <= 0 {
		width, height = int(icon.ViewBox.W), int(icon.ViewBox.H)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("svg has no size and none was declared")
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return rgba, nil
}

func decodeRaster(path string, width, height int, decode func(io.Reader) (image.Image, error)) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	bounds := src.Bounds()
	if width <= 0 || height <= 0 {
		width, height = bounds.Dx(), bounds.Dy()
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	}
	return dst, nil
}
