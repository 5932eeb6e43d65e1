// Package sdlwin is the SDL2 platform backend. Each skin window is a native
// SDL window with its own renderer; posted messages travel through the SDL
// event queue as user events so a blocked NextEvent wakes up.
//
// SDL requires window and render calls on the thread that initialized it.
// Callers lock the dispatch goroutine to the main OS thread.
package sdlwin

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/BrandonKowalski/skinrt/pkg/skins/internal"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/paint"
)

type window struct {
	spec     platform.WindowSpec
	native   *sdl.Window
	renderer *sdl.Renderer
	id       uint32
	textures *textureCache[*sdl.Texture]
}

func (w *window) destroy() {
	w.textures.destroy()
	_ = w.renderer.Destroy()
	_ = w.native.Destroy()
}

// Backend implements platform.Backend on SDL2.
type Backend struct {
	opts Options
	caps platform.Capabilities

	userType uint32
	closed   *atomic.Bool

	// Posted messages waiting for their user event to come back out of the
	// SDL queue, keyed by the sequence carried in UserEvent.Code.
	pendingMu sync.Mutex
	pending   map[int32]platform.Event
	seq       int32

	next    platform.Handle
	windows map[platform.Handle]*window
	byID    map[uint32]platform.Handle
}

func New(opts Options) *Backend {
	return &Backend{
		opts:    opts,
		closed:  atomic.NewBool(false),
		pending: make(map[int32]platform.Event),
		windows: make(map[platform.Handle]*window),
		byID:    make(map[uint32]platform.Handle),
	}
}

func (b *Backend) Open() (platform.Capabilities, error) {
	if b.closed.Load() {
		return platform.Capabilities{}, platform.ErrClosed
	}
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return platform.Capabilities{}, fmt.Errorf("sdl init: %w", err)
	}

	b.userType = sdl.RegisterEvents(1)
	if b.userType == ^uint32(0) {
		sdl.Quit()
		return platform.Capabilities{}, errors.New("sdl: no user event type available")
	}

	b.caps = probe()
	return b.caps, nil
}

// probe checks the optional features on a hidden scratch window. A failed
// probe only clears the capability.
func probe() platform.Capabilities {
	var caps platform.Capabilities
	logger := internal.GetInternalLogger()

	win, err := sdl.CreateWindow("probe", 0, 0, 1, 1, sdl.WINDOW_HIDDEN)
	if err != nil {
		logger.Debug("Capability probe window failed", "error", err)
		return caps
	}
	defer win.Destroy()

	caps.LayeredWindows = win.SetWindowOpacity(1) == nil

	renderer, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_TARGETTEXTURE)
	if err != nil {
		logger.Debug("Capability probe renderer failed", "error", err)
		return caps
	}
	defer renderer.Destroy()

	if info, err := renderer.GetInfo(); err == nil {
		caps.RenderTarget = info.Flags&sdl.RENDERER_TARGETTEXTURE != 0
	}

	tex, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), sdl.TEXTUREACCESS_STATIC, 1, 1)
	if err == nil {
		caps.TransparentBlit = tex.SetBlendMode(sdl.BLENDMODE_BLEND) == nil
		_ = tex.Destroy()
	}
	return caps
}

func (b *Backend) NextEvent(ctx context.Context) (platform.Event, error) {
	wait := int(constants.DefaultEventWait / time.Millisecond)
	for {
		if b.closed.Load() {
			return platform.Event{}, platform.ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return platform.Event{}, err
		}

		ev := sdl.WaitEventTimeout(wait)
		if ev == nil {
			continue
		}

		if user, ok := ev.(*sdl.UserEvent); ok && user.Type == b.userType {
			if evt, ok := b.takePending(user.Code); ok {
				return evt, nil
			}
			continue
		}

		if evt, ok := translate(ev, b.lookup); ok {
			return evt, nil
		}
	}
}

// PostMessage is safe from any goroutine.
func (b *Backend) PostMessage(evt platform.Event) error {
	if b.closed.Load() {
		return platform.ErrClosed
	}

	b.pendingMu.Lock()
	b.seq++
	seq := b.seq
	b.pending[seq] = evt
	b.pendingMu.Unlock()

	if _, err := sdl.PushEvent(&sdl.UserEvent{Type: b.userType, Code: seq}); err != nil {
		b.takePending(seq)
		return fmt.Errorf("sdl push event: %w", err)
	}
	return nil
}

func (b *Backend) takePending(seq int32) (platform.Event, bool) {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	evt, ok := b.pending[seq]
	delete(b.pending, seq)
	return evt, ok
}

func (b *Backend) lookup(id uint32) (platform.Handle, bool) {
	h, ok := b.byID[id]
	return h, ok
}

func (b *Backend) CreateWindow(spec platform.WindowSpec) (platform.Handle, error) {
	if b.closed.Load() {
		return 0, platform.ErrClosed
	}

	native, err := sdl.CreateWindow(spec.Name, int32(spec.X), int32(spec.Y), int32(spec.Width), int32(spec.Height), b.opts.flags(spec.Visible))
	if err != nil {
		return 0, fmt.Errorf("create window %q: %w", spec.Name, err)
	}

	renderer, err := sdl.CreateRenderer(native, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC|sdl.RENDERER_TARGETTEXTURE)
	if err != nil {
		renderer, err = sdl.CreateRenderer(native, -1, sdl.RENDERER_SOFTWARE)
	}
	if err != nil {
		_ = native.Destroy()
		return 0, fmt.Errorf("create renderer %q: %w", spec.Name, err)
	}

	id, err := native.GetID()
	if err != nil {
		_ = renderer.Destroy()
		_ = native.Destroy()
		return 0, fmt.Errorf("window id %q: %w", spec.Name, err)
	}

	if b.caps.LayeredWindows && spec.Alpha < 255 {
		if err := native.SetWindowOpacity(float32(spec.Alpha) / 255); err != nil {
			internal.GetInternalLogger().Debug("Window opacity not applied", "window", spec.Name, "error", err)
		}
	}

	b.next++
	b.windows[b.next] = &window{
		spec:     spec,
		native:   native,
		renderer: renderer,
		id:       id,
		textures: newTextureCache[*sdl.Texture](b.opts.CacheSize),
	}
	b.byID[id] = b.next
	return b.next, nil
}

func (b *Backend) DestroyWindow(h platform.Handle) {
	w, ok := b.windows[h]
	if !ok {
		return
	}
	delete(b.windows, h)
	delete(b.byID, w.id)
	w.destroy()
}

func (b *Backend) ShowWindow(h platform.Handle, visible bool) {
	if w, ok := b.windows[h]; ok {
		if visible {
			w.native.Show()
		} else {
			w.native.Hide()
		}
	}
}

func (b *Backend) MoveWindow(h platform.Handle, x, y int) {
	if w, ok := b.windows[h]; ok {
		w.native.SetPosition(int32(x), int32(y))
	}
}

// Paint draws scene and presents it. Without render-target support the
// scene is composed in software and blitted as a single texture.
func (b *Backend) Paint(h platform.Handle, scene platform.Scene) {
	w, ok := b.windows[h]
	if !ok {
		return
	}

	r := w.renderer
	_ = r.SetDrawColor(paint.Backdrop.R, paint.Backdrop.G, paint.Backdrop.B, paint.Backdrop.A)
	_ = r.Clear()

	if !b.caps.RenderTarget {
		frame := paint.Compose(w.spec.Width, w.spec.Height, scene)
		if tex, err := b.upload(w, frame); err == nil {
			_ = r.Copy(tex, nil, nil)
			_ = tex.Destroy()
		}
		r.Present()
		return
	}

	if scene.Background != nil {
		b.blit(w, "bg", scene.Background, platform.Rect{W: w.spec.Width, H: w.spec.Height})
	}

	for _, item := range scene.Items {
		switch item.Kind {
		case platform.DrawImage, platform.DrawButton:
			if item.Image != nil {
				b.blit(w, item.ID, item.Image, item.Rect)
			}
			if item.Pressed {
				_ = r.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
				_ = r.SetDrawColor(paint.PressShade.R, paint.PressShade.G, paint.PressShade.B, paint.PressShade.A)
				_ = r.FillRect(sdlRect(item.Rect))
			}

		case platform.DrawSlider:
			if item.Image != nil {
				b.blit(w, item.ID, item.Image, item.Rect)
			} else {
				_ = r.SetDrawColor(paint.Track.R, paint.Track.G, paint.Track.B, paint.Track.A)
				_ = r.FillRect(sdlRect(item.Rect))
			}
			_ = r.SetDrawColor(paint.Accent.R, paint.Accent.G, paint.Accent.B, paint.Accent.A)
			_ = r.FillRect(sdlRect(paint.SliderFill(item.Rect, item.Value)))

		case platform.DrawText:
			if item.Image != nil {
				b.blit(w, item.ID, item.Image, item.Rect)
			}
			b.text(w, item)
		}
	}
	r.Present()
}

// blit copies img, uploading it once per image per window.
func (b *Backend) blit(w *window, id string, img *image.RGBA, dst platform.Rect) {
	key := fmt.Sprintf("%s@%p", id, img)
	tex, ok := w.textures.get(key)
	if !ok {
		var err error
		if tex, err = b.upload(w, img); err != nil {
			internal.GetInternalLogger().Debug("Texture upload failed", "window", w.spec.Name, "id", id, "error", err)
			return
		}
		w.textures.set(key, tex)
	}
	_ = w.renderer.Copy(tex, nil, sdlRect(dst))
}

func (b *Backend) text(w *window, item platform.Drawable) {
	if item.Text == "" {
		return
	}
	key := "text:" + item.Text
	tex, ok := w.textures.get(key)
	if !ok {
		var err error
		if tex, err = b.upload(w, paint.Text(item.Text, paint.Foreground)); err != nil {
			return
		}
		w.textures.set(key, tex)
	}

	tw, th := paint.TextSize(item.Text)
	src := platform.Rect{W: min(tw, item.Rect.W), H: min(th, item.Rect.H)}
	dst := platform.Rect{X: item.Rect.X, Y: item.Rect.Y, W: src.W, H: src.H}
	_ = w.renderer.Copy(tex, sdlRect(src), sdlRect(dst))
}

func (b *Backend) upload(w *window, img *image.RGBA) (*sdl.Texture, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("empty image")
	}

	// ABGR8888 is R, G, B, A in memory on little-endian hosts, matching image.RGBA.
	surface, err := sdl.CreateRGBSurfaceWithFormatFrom(
		unsafe.Pointer(&img.Pix[0]),
		int32(bounds.Dx()), int32(bounds.Dy()), 32, int32(img.Stride),
		uint32(sdl.PIXELFORMAT_ABGR8888),
	)
	if err != nil {
		return nil, err
	}
	defer surface.Free()

	tex, err := w.renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return nil, err
	}

	var mode sdl.BlendMode = sdl.BLENDMODE_NONE
	if b.caps.TransparentBlit {
		mode = sdl.BLENDMODE_BLEND
	}
	_ = tex.SetBlendMode(mode)
	return tex, nil
}

func sdlRect(r platform.Rect) *sdl.Rect {
	return &sdl.Rect{X: int32(r.X), Y: int32(r.Y), W: int32(r.W), H: int32(r.H)}
}

// Close destroys every window and shuts SDL down. Safe to call twice.
func (b *Backend) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	for h := range b.windows {
		b.DestroyWindow(h)
	}
	if b.userType != 0 {
		sdl.Quit()
	}
	return nil
}
