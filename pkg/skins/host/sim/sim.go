// Package sim is a simulated host engine. It plays a fake stream that
// advances with wall time and keeps reference counts so tests can check that
// every acquired input and playlist is released.
package sim

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/BrandonKowalski/skinrt/pkg/skins/host"
)

// Engine implements host.Engine.
type Engine struct {
	mu     sync.Mutex
	input  *Input
	volume int

	playlist *Playlist
	dying    *atomic.Bool

	// InputRefs and PlaylistRefs count outstanding references.
	InputRefs    *atomic.Int32
	PlaylistRefs *atomic.Int32
}

// New returns an engine with no input and volume at a quarter of the range.
func New() *Engine {
	e := &Engine{
		volume:       constants.VolumeMax / 4,
		dying:        atomic.NewBool(false),
		InputRefs:    atomic.NewInt32(0),
		PlaylistRefs: atomic.NewInt32(0),
	}
	e.playlist = &Playlist{engine: e}
	return e
}

// Start begins playing a fake stream of size bytes at byteRate bytes per
// second. A seekable stream accepts Seek.
func (e *Engine) Start(size, byteRate int64, seekable bool) *Input {
	in := &Input{
		engine:   e,
		size:     size,
		byteRate: byteRate,
		seekable: seekable,
		started:  time.Now(),
		now:      time.Now,
		dead:     atomic.NewBool(false),
	}
	e.mu.Lock()
	e.input = in
	e.mu.Unlock()
	return in
}

// StopInput marks the current input dead and detaches it.
func (e *Engine) StopInput() {
	e.mu.Lock()
	in := e.input
	e.input = nil
	e.mu.Unlock()
	if in != nil {
		in.dead.Store(true)
	}
}

// RequestDie asks every attached interface to close.
func (e *Engine) RequestDie() {
	e.dying.Store(true)
}

func (e *Engine) Dying() bool {
	return e.dying.Load()
}

func (e *Engine) FindInput() host.Input {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.input == nil || e.input.dead.Load() {
		return nil
	}
	e.InputRefs.Inc()
	return e.input
}

func (e *Engine) FindPlaylist() host.Playlist {
	e.PlaylistRefs.Inc()
	return e.playlist
}

func (e *Engine) Volume() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *Engine) SetVolume(v int) {
	if v < 0 {
		v = 0
	}
	if v > constants.VolumeMax {
		v = constants.VolumeMax
	}
	e.mu.Lock()
	e.volume = v
	e.mu.Unlock()
}

// Commands returns the transport commands received so far.
func (e *Engine) Commands() []string {
	return e.playlist.history()
}

// Input is a fake stream position derived from elapsed time.
type Input struct {
	engine *Engine
	mu     sync.Mutex

	size     int64
	byteRate int64
	seekable bool
	started  time.Time
	offset   int64
	paused   bool
	pausedAt int64
	now      func() time.Time

	dead *atomic.Bool
}

func (in *Input) Lock()   { in.mu.Lock() }
func (in *Input) Unlock() { in.mu.Unlock() }

func (in *Input) Dead() bool {
	return in.dead.Load()
}

func (in *Input) Release() {
	in.engine.InputRefs.Dec()
}

// Stream must be called with the input locked.
func (in *Input) Stream() host.Stream {
	return host.Stream{
		Tell:     in.tell(),
		Size:     in.size,
		Seekable: in.seekable,
		ByteRate: in.byteRate,
	}
}

// Seek must be called with the input locked.
func (in *Input) Seek(offset int64) {
	if !in.seekable {
		return
	}
	if offset < 0 {
		offset = 0
	}
	if in.size > 0 && offset > in.size {
		offset = in.size
	}
	in.offset = offset
	in.pausedAt = offset
	in.started = in.now()
}

func (in *Input) tell() int64 {
	if in.paused {
		return in.pausedAt
	}
	t := in.offset + int64(in.now().Sub(in.started).Seconds()*float64(in.byteRate))
	if in.size > 0 && t > in.size {
		t = in.size
	}
	return t
}

// SetClock replaces the time source, for tests.
func (in *Input) SetClock(now func() time.Time) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.now = now
	in.started = now()
}

func (in *Input) setPaused(p bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if p == in.paused {
		return
	}
	if p {
		in.pausedAt = in.tell()
	} else {
		in.offset = in.pausedAt
		in.started = in.now()
	}
	in.paused = p
}

// Playlist records the commands it receives and applies pause and stop to the
// current input.
type Playlist struct {
	engine *Engine
	mu     sync.Mutex
	log    []string
}

func (p *Playlist) record(cmd string) {
	p.mu.Lock()
	p.log = append(p.log, cmd)
	p.mu.Unlock()
}

func (p *Playlist) history() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.log))
	copy(out, p.log)
	return out
}

func (p *Playlist) current() *Input {
	p.engine.mu.Lock()
	defer p.engine.mu.Unlock()
	return p.engine.input
}

func (p *Playlist) Play() {
	p.record("play")
	if in := p.current(); in != nil {
		in.setPaused(false)
	}
}

func (p *Playlist) Pause() {
	p.record("pause")
	if in := p.current(); in != nil {
		in.setPaused(true)
	}
}

func (p *Playlist) Stop() {
	p.record("stop")
	p.engine.StopInput()
}

func (p *Playlist) Next() { p.record("next") }
func (p *Playlist) Prev() { p.record("prev") }

func (p *Playlist) Release() {
	p.engine.PlaylistRefs.Dec()
}
