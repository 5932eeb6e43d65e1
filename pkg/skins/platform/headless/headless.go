// Package headless is an in-memory platform backend. Windows are plain
// records and paints are counted, which makes it the backend used by tests
// and by runs without a display.
package headless

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/paint"
)

// ErrQueueFull is returned by PostMessage when the event queue is saturated.
var ErrQueueFull = errors.New("headless: event queue full")

// Window is the recorded state of one headless window.
type Window struct {
	Spec      platform.WindowSpec
	X, Y      int
	Visible   bool
	Paints    int
	LastScene platform.Scene
	Frame     *image.RGBA
	Destroyed bool
}

type Option func(*Backend)

// WithCapabilities sets what Open reports.
func WithCapabilities(c platform.Capabilities) Option {
	return func(b *Backend) { b.caps = c }
}

// WithQueueSize sets the event queue capacity.
func WithQueueSize(n int) Option {
	return func(b *Backend) { b.queueSize = n }
}

// WithCreateLimit makes CreateWindow fail once n windows exist, to exercise
// failure paths.
func WithCreateLimit(n int) Option {
	return func(b *Backend) { b.createLimit = n }
}

// Backend implements platform.Backend in memory.
type Backend struct {
	caps        platform.Capabilities
	queueSize   int
	createLimit int

	queue  chan platform.Event
	done   chan struct{}
	closed *atomic.Bool

	mu      sync.Mutex
	next    platform.Handle
	windows map[platform.Handle]*Window
	live    int
}

// New creates a headless backend. All capabilities are reported present
// unless overridden.
func New(opts ...Option) *Backend {
	b := &Backend{
		caps:      platform.Capabilities{TransparentBlit: true, LayeredWindows: true, RenderTarget: true},
		queueSize: 256,
		done:      make(chan struct{}),
		closed:    atomic.NewBool(false),
		windows:   make(map[platform.Handle]*Window),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.queue = make(chan platform.Event, b.queueSize)
	return b
}

func (b *Backend) Open() (platform.Capabilities, error) {
	if b.closed.Load() {
		return platform.Capabilities{}, platform.ErrClosed
	}
	return b.caps, nil
}

func (b *Backend) NextEvent(ctx context.Context) (platform.Event, error) {
	select {
	case evt := <-b.queue:
		return evt, nil
	default:
	}

	select {
	case evt := <-b.queue:
		return evt, nil
	case <-b.done:
		return platform.Event{}, platform.ErrClosed
	case <-ctx.Done():
		return platform.Event{}, ctx.Err()
	}
}

// PostMessage queues evt without blocking.
func (b *Backend) PostMessage(evt platform.Event) error {
	if b.closed.Load() {
		return platform.ErrClosed
	}
	select {
	case b.queue <- evt:
		return nil
	default:
		return ErrQueueFull
	}
}

// Inject queues a native event as if the platform produced it.
func (b *Backend) Inject(evt platform.Event) error {
	return b.PostMessage(evt)
}

// Pending returns the number of queued events.
func (b *Backend) Pending() int {
	return len(b.queue)
}

func (b *Backend) CreateWindow(spec platform.WindowSpec) (platform.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.createLimit > 0 && b.live >= b.createLimit {
		return 0, fmt.Errorf("headless: window limit %d reached", b.createLimit)
	}
	b.next++
	b.windows[b.next] = &Window{Spec: spec, X: spec.X, Y: spec.Y, Visible: spec.Visible}
	b.live++
	return b.next, nil
}

func (b *Backend) DestroyWindow(h platform.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w, ok := b.windows[h]; ok && !w.Destroyed {
		w.Destroyed = true
		w.Visible = false
		b.live--
	}
}

func (b *Backend) ShowWindow(h platform.Handle, visible bool) {
	b.update(h, func(w *Window) { w.Visible = visible })
}

func (b *Backend) MoveWindow(h platform.Handle, x, y int) {
	b.update(h, func(w *Window) { w.X, w.Y = x, y })
}

func (b *Backend) Paint(h platform.Handle, scene platform.Scene) {
	b.update(h, func(w *Window) {
		w.Paints++
		w.LastScene = scene
		w.Frame = paint.Compose(w.Spec.Width, w.Spec.Height, scene)
	})
}

func (b *Backend) update(h platform.Handle, fn func(*Window)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w, ok := b.windows[h]; ok && !w.Destroyed {
		fn(w)
	}
}

// Window returns a copy of the recorded window state.
func (b *Backend) Window(h platform.Handle) (Window, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[h]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// LiveWindows returns the number of windows created and not destroyed.
func (b *Backend) LiveWindows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

// Close wakes any blocked NextEvent. Safe to call twice.
func (b *Backend) Close() error {
	if b.closed.CompareAndSwap(false, true) {
		close(b.done)
	}
	return nil
}
