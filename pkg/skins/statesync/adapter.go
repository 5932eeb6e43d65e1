// Package statesync bridges host playback state into the loaded skin. It
// runs the refresh cycle that pushes volume and position into named control
// events, and it handles every semantic message posted by controls,
// shortcuts and the host.
package statesync

import (
	"log/slog"

	"github.com/BrandonKowalski/skinrt/pkg/skins/bank"
	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/BrandonKowalski/skinrt/pkg/skins/host"
	"github.com/BrandonKowalski/skinrt/pkg/skins/internal"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
	"github.com/BrandonKowalski/skinrt/pkg/skins/state"
)

const volumeStep = constants.VolumeMax / 32

// Hooks are the runtime operations some messages need. Any of them may be
// left nil by callers that do not support them.
type Hooks struct {
	LoadSkin      func(path string) error
	ToggleTray    func()
	ToggleTaskbar func()
}

// Adapter owns no state of its own beyond the mute memory; everything else
// lives in the shared interface record.
type Adapter struct {
	state  *state.State
	engine host.Engine
	poster platform.Poster
	hooks  Hooks
	log    *slog.Logger

	mutedVolume int
	muted       bool
}

// New creates an adapter over the interface record and host engine. Quit
// requests caused by a dying host are posted to poster.
func New(st *state.State, engine host.Engine, poster platform.Poster, hooks Hooks) *Adapter {
	return &Adapter{
		state:  st,
		engine: engine,
		poster: poster,
		hooks:  hooks,
		log:    internal.GetInternalLogger(),
	}
}

// Refresh runs one refresh cycle. It never fails: controls the skin does not
// declare are skipped and a dead input is silently unbound.
func (a *Adapter) Refresh() {
	a.state.Lock()
	defer a.state.Unlock()

	if a.state.Status() != state.Running {
		return
	}

	a.rebindInput()

	t := a.state.Theme()
	if t == nil {
		return
	}
	events := t.EventBank()

	if evt, ok := lookup(events, constants.ControlVolume); ok {
		evt.PostValue(VolumeValue(a.engine.Volume()))
	}

	if in := a.state.Input(); in != nil && !in.Dead() {
		in.Lock()
		s := in.Stream()
		in.Unlock()

		if s.Seekable {
			a.pushPosition(events, s)
		}
	}

	t.Refresh(false)
}

// rebindInput acquires an input when none is bound and drops a dead one.
// Callers hold the state lock.
func (a *Adapter) rebindInput() {
	in := a.state.Input()
	switch {
	case in == nil:
		if found := a.engine.FindInput(); found != nil {
			a.state.SetInput(found)
			a.log.Debug("Input bound")
		}
	case in.Dead():
		in.Release()
		a.state.SetInput(nil)
		a.log.Debug("Dead input released")
	}
}

func (a *Adapter) pushPosition(events *bank.EventBank, s host.Stream) {
	timeEvt, hasTime := lookup(events, constants.ControlTime)
	if hasTime {
		timeEvt.PostValue(PositionValue(s.Tell, s.Size, constants.SliderRange))
		timeEvt.PostText(FormatOffset(s.Tell, s.ByteRate))
	}
	if evt, ok := lookup(events, constants.ControlLeftTime); ok {
		evt.PostText("-" + FormatOffset(s.Size-s.Tell, s.ByteRate))
	}
	if evt, ok := lookup(events, constants.ControlTotalTime); ok {
		evt.PostText(FormatOffset(s.Size, s.ByteRate))
	}
}

func lookup(events *bank.EventBank, name string) (*bank.ControlEvent, bool) {
	evt, err := events.Get(name)
	return evt, err == nil
}

// CheckClosing requests shutdown when the host is dying. It reports whether
// a shutdown was requested by this call.
func (a *Adapter) CheckClosing() bool {
	if !a.engine.Dying() || a.state.Status() != state.Running {
		return false
	}
	a.state.RequestEnd()
	if a.poster != nil {
		if err := a.poster.PostMessage(platform.Message(platform.MsgQuit, 0, 0)); err != nil {
			a.log.Warn("Could not post quit", "error", err)
		}
	}
	return true
}

// EventProc handles one semantic message. It returns false when the dispatch
// loop should terminate.
func (a *Adapter) EventProc(evt platform.Event) bool {
	switch evt.Code {
	case platform.MsgQuit:
		a.state.RequestEnd()
		a.withTheme(func(t themeOps) { t.HideAll() })
		return false

	case platform.MsgShow:
		a.withTheme(func(t themeOps) {
			t.ShowAll()
			t.Refresh(true)
		})

	case platform.MsgHide:
		a.withTheme(func(t themeOps) { t.HideAll() })

	case platform.MsgIntfRefresh:
		force := evt.Param2 != 0
		a.withTheme(func(t themeOps) { t.Refresh(force) })

	case platform.MsgTimer:
		a.Refresh()
		a.CheckClosing()

	case platform.MsgPlay, platform.MsgPause, platform.MsgStop, platform.MsgNext, platform.MsgPrev:
		a.transport(evt.Code)

	case platform.MsgVolume:
		a.volume(evt.Param1, evt.Param2)
		a.Refresh()

	case platform.MsgSeek:
		a.seek(int(evt.Param2))

	case platform.MsgLoadSkin:
		path, _ := evt.Payload.(string)
		if a.hooks.LoadSkin == nil || path == "" {
			a.log.Warn("Skin load request ignored", "path", path)
			break
		}
		if err := a.hooks.LoadSkin(path); err != nil {
			a.log.Error("Skin load failed", "path", path, "error", err)
		}

	case platform.MsgChangeTray:
		if a.hooks.ToggleTray != nil {
			a.hooks.ToggleTray()
		}

	case platform.MsgChangeTaskbar:
		if a.hooks.ToggleTaskbar != nil {
			a.hooks.ToggleTaskbar()
		}

	default:
		a.log.Debug("Unhandled message", "code", evt.Code.String())
	}

	return a.state.Status() == state.Running
}

type themeOps interface {
	ShowAll()
	HideAll()
	Refresh(force bool)
}

func (a *Adapter) withTheme(fn func(themeOps)) {
	a.state.Lock()
	defer a.state.Unlock()
	if t := a.state.Theme(); t != nil {
		fn(t)
	}
}

func (a *Adapter) transport(code platform.Code) {
	a.state.Lock()
	defer a.state.Unlock()

	pl := a.state.Playlist()
	if pl == nil {
		pl = a.engine.FindPlaylist()
		if pl == nil {
			a.log.Debug("No playlist for transport command", "code", code.String())
			return
		}
		a.state.SetPlaylist(pl)
	}

	switch code {
	case platform.MsgPlay:
		pl.Play()
	case platform.MsgPause:
		pl.Pause()
	case platform.MsgStop:
		pl.Stop()
	case platform.MsgNext:
		pl.Next()
	case platform.MsgPrev:
		pl.Prev()
	}
}

func (a *Adapter) volume(cmd, value int64) {
	cur := a.engine.Volume()
	switch cmd {
	case platform.VolumeSet:
		a.engine.SetVolume(VolumeFromSlider(int(value)))
		a.muted = false
	case platform.VolumeUp:
		a.engine.SetVolume(cur + volumeStep)
		a.muted = false
	case platform.VolumeDown:
		a.engine.SetVolume(cur - volumeStep)
		a.muted = false
	case platform.VolumeMute:
		if a.muted {
			a.engine.SetVolume(a.mutedVolume)
			a.muted = false
		} else {
			a.mutedVolume = cur
			a.engine.SetVolume(0)
			a.muted = true
		}
	default:
		a.log.Warn("Unknown volume command", "command", cmd)
	}
}

func (a *Adapter) seek(value int) {
	a.state.Lock()
	defer a.state.Unlock()

	in := a.state.Input()
	if in == nil || in.Dead() {
		return
	}
	in.Lock()
	defer in.Unlock()
	s := in.Stream()
	if !s.Seekable {
		return
	}
	in.Seek(SeekOffset(value, s.Size))
}
