// Package tty renders skin windows inside a terminal with tcell. Window
// geometry stays in pixels; each terminal cell covers CellWidth x CellHeight
// pixels and takes the average color of the composed scene underneath.
package tty

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/skinrt/pkg/skins/internal"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/paint"
)

// Pixel size of one terminal cell.
const (
	CellWidth  = 8
	CellHeight = 16
)

type cell struct {
	r     rune
	style tcell.Style
}

type panel struct {
	spec    platform.WindowSpec
	x, y    int
	visible bool
	cols    int
	rows    int
	cells   []cell
}

// Backend implements platform.Backend on a tcell screen.
type Backend struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}
	closed *atomic.Bool

	mu      sync.Mutex
	next    platform.Handle
	order   []platform.Handle
	panels  map[platform.Handle]*panel
	buttons tcell.ButtonMask
	grab    platform.Handle
	focus   platform.Handle
}

// New wraps screen. A nil screen opens the controlling terminal.
func New(screen tcell.Screen) *Backend {
	return &Backend{
		screen: screen,
		events: make(chan tcell.Event, 64),
		done:   make(chan struct{}),
		closed: atomic.NewBool(false),
		panels: make(map[platform.Handle]*panel),
	}
}

func (b *Backend) Open() (platform.Capabilities, error) {
	if b.closed.Load() {
		return platform.Capabilities{}, platform.ErrClosed
	}
	if b.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return platform.Capabilities{}, fmt.Errorf("tty screen: %w", err)
		}
		b.screen = screen
	}
	if err := b.screen.Init(); err != nil {
		return platform.Capabilities{}, fmt.Errorf("tty init: %w", err)
	}
	b.screen.EnableMouse()
	b.screen.HideCursor()
	b.screen.Clear()

	go b.poll()

	return platform.Capabilities{
		TransparentBlit: b.screen.Colors() > 256,
		RenderTarget:    true,
	}, nil
}

func (b *Backend) poll() {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case b.events <- ev:
		case <-b.done:
			return
		}
	}
}

func (b *Backend) NextEvent(ctx context.Context) (platform.Event, error) {
	for {
		if b.closed.Load() {
			return platform.Event{}, platform.ErrClosed
		}
		select {
		case ev := <-b.events:
			if evt, ok := b.translate(ev); ok {
				return evt, nil
			}
		case <-b.done:
			return platform.Event{}, platform.ErrClosed
		case <-ctx.Done():
			return platform.Event{}, ctx.Err()
		}
	}
}

// PostMessage wakes NextEvent through a tcell interrupt carrying evt.
func (b *Backend) PostMessage(evt platform.Event) error {
	if b.closed.Load() {
		return platform.ErrClosed
	}
	return b.screen.PostEvent(tcell.NewEventInterrupt(evt))
}

func (b *Backend) translate(ev tcell.Event) (platform.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventInterrupt:
		evt, ok := e.Data().(platform.Event)
		return evt, ok

	case *tcell.EventKey:
		key, ok := keyCode(e)
		if !ok {
			return platform.Event{}, false
		}
		b.mu.Lock()
		target := b.focus
		b.mu.Unlock()
		return platform.KeyDown(target, key, modifiers(e.Modifiers())), true

	case *tcell.EventMouse:
		x, y := e.Position()
		return b.mouse(x, y, e.Buttons())

	case *tcell.EventResize:
		b.screen.Sync()
		return platform.Event{Code: platform.CtrlRepaint, Param2: 1}, true
	}
	return platform.Event{}, false
}

func modifiers(m tcell.ModMask) platform.Modifier {
	var mods platform.Modifier
	if m&tcell.ModAlt != 0 {
		mods |= platform.ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		mods |= platform.ModCtrl
	}
	if m&tcell.ModShift != 0 {
		mods |= platform.ModShift
	}
	return mods
}

// keyCode maps a tcell key onto the codes skin shortcuts are written with.
func keyCode(e *tcell.EventKey) (int, bool) {
	switch k := e.Key(); {
	case k == tcell.KeyRune:
		return int(e.Rune()), true
	case k == tcell.KeyEnter:
		return '\r', true
	case k == tcell.KeyTab:
		return '\t', true
	case k == tcell.KeyEsc:
		return 0x1b, true
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return 0x08, true
	case k == tcell.KeyDelete:
		return 0x7f, true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return 'A' + int(k-tcell.KeyCtrlA), true
	}
	return 0, false
}

// mouse converts a cell position into window-relative pixels. A window
// pressed on keeps receiving events until every button is released.
func (b *Backend) mouse(col, row int, buttons tcell.ButtonMask) (platform.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	px, py := col*CellWidth+CellWidth/2, row*CellHeight+CellHeight/2
	pressed := buttons&tcell.Button1 != 0
	wasPressed := b.buttons&tcell.Button1 != 0
	b.buttons = buttons

	target := b.grab
	if target == 0 {
		target = b.hit(px, py)
	}
	if target == 0 {
		return platform.Event{}, false
	}
	p := b.panels[target]
	evt := platform.Event{Target: target, Param1: int64(px - p.x), Param2: int64(py - p.y)}

	switch {
	case pressed && !wasPressed:
		evt.Code = platform.EventMouseDown
		b.grab, b.focus = target, target
	case !pressed && wasPressed:
		evt.Code = platform.EventMouseUp
		b.grab = 0
	default:
		evt.Code = platform.EventMouseMove
	}
	return evt, true
}

// hit returns the topmost visible window under the pixel.
func (b *Backend) hit(x, y int) platform.Handle {
	for i := len(b.order) - 1; i >= 0; i-- {
		p := b.panels[b.order[i]]
		r := platform.Rect{X: p.x, Y: p.y, W: p.spec.Width, H: p.spec.Height}
		if p.visible && r.Contains(x, y) {
			return b.order[i]
		}
	}
	return 0
}

func (b *Backend) CreateWindow(spec platform.WindowSpec) (platform.Handle, error) {
	if b.closed.Load() {
		return 0, platform.ErrClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	b.panels[b.next] = &panel{
		spec:    spec,
		x:       spec.X,
		y:       spec.Y,
		visible: spec.Visible,
		cols:    (spec.Width + CellWidth - 1) / CellWidth,
		rows:    (spec.Height + CellHeight - 1) / CellHeight,
	}
	b.order = append(b.order, b.next)
	if b.focus == 0 {
		b.focus = b.next
	}
	return b.next, nil
}

func (b *Backend) DestroyWindow(h platform.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.panels[h]; !ok {
		return
	}
	delete(b.panels, h)
	for i, o := range b.order {
		if o == h {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	if b.focus == h {
		b.focus = 0
	}
	if b.grab == h {
		b.grab = 0
	}
	b.redraw()
}

func (b *Backend) ShowWindow(h platform.Handle, visible bool) {
	b.update(h, func(p *panel) { p.visible = visible })
}

func (b *Backend) MoveWindow(h platform.Handle, x, y int) {
	b.update(h, func(p *panel) { p.x, p.y = x, y })
}

func (b *Backend) Paint(h platform.Handle, scene platform.Scene) {
	b.update(h, func(p *panel) { p.cells = rasterize(p, scene) })
}

func (b *Backend) update(h platform.Handle, fn func(*panel)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.panels[h]; ok {
		fn(p)
		b.redraw()
	}
}

// rasterize composes the scene without its text and lays text out on the
// cell grid afterwards so labels stay readable.
func rasterize(p *panel, scene platform.Scene) []cell {
	plain := platform.Scene{Background: scene.Background, Items: make([]platform.Drawable, len(scene.Items))}
	copy(plain.Items, scene.Items)
	for i := range plain.Items {
		plain.Items[i].Text = ""
	}
	img := paint.Compose(p.spec.Width, p.spec.Height, plain)

	cells := make([]cell, p.cols*p.rows)
	for row := 0; row < p.rows; row++ {
		for col := 0; col < p.cols; col++ {
			bg := average(img, image.Rect(col*CellWidth, row*CellHeight, (col+1)*CellWidth, (row+1)*CellHeight))
			cells[row*p.cols+col] = cell{r: ' ', style: tcell.StyleDefault.Background(bg)}
		}
	}

	fg := toColor(paint.Foreground)
	for _, item := range scene.Items {
		if item.Kind != platform.DrawText || item.Text == "" {
			continue
		}
		row := item.Rect.Y / CellHeight
		col := item.Rect.X / CellWidth
		width := item.Rect.W / CellWidth
		if row < 0 || row >= p.rows {
			continue
		}
		for i, r := range []rune(item.Text) {
			c := col + i
			if i >= width || c < 0 || c >= p.cols {
				break
			}
			idx := row*p.cols + c
			cells[idx] = cell{r: r, style: cells[idx].style.Foreground(fg)}
		}
	}
	return cells
}

func average(img *image.RGBA, r image.Rectangle) tcell.Color {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return toColor(paint.Backdrop)
	}
	var sr, sg, sb, n int
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.RGBAAt(x, y)
			sr += int(c.R)
			sg += int(c.G)
			sb += int(c.B)
			n++
		}
	}
	return tcell.NewRGBColor(int32(sr/n), int32(sg/n), int32(sb/n))
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// redraw repaints every visible panel in creation order. Callers hold mu.
func (b *Backend) redraw() {
	if b.closed.Load() {
		return
	}
	b.screen.Clear()
	for _, h := range b.order {
		p := b.panels[h]
		if !p.visible || p.cells == nil {
			continue
		}
		ox, oy := p.x/CellWidth, p.y/CellHeight
		for row := 0; row < p.rows; row++ {
			for col := 0; col < p.cols; col++ {
				c := p.cells[row*p.cols+col]
				b.screen.SetContent(ox+col, oy+row, c.r, nil, c.style)
			}
		}
	}
	b.screen.Show()
}

// Close restores the terminal. Safe to call twice.
func (b *Backend) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(b.done)
	if b.screen != nil {
		b.screen.Fini()
	}
	internal.GetInternalLogger().Debug("Terminal backend closed")
	return nil
}
