// Package skins is a skinnable interface runtime for a media player. A
// declarative skin (windows, controls, named events, shortcuts) drives the
// on-screen interface while a periodic refresh cycle keeps its sliders and
// time labels in sync with the host engine's playback state.
//
// The runtime is written once against platform.Backend; pick the SDL2,
// terminal or headless backend at startup.
package skins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/BrandonKowalski/skinrt/pkg/skins/host"
	"github.com/BrandonKowalski/skinrt/pkg/skins/internal"
	"github.com/BrandonKowalski/skinrt/pkg/skins/lifecycle"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
	"github.com/BrandonKowalski/skinrt/pkg/skins/state"
	"github.com/BrandonKowalski/skinrt/pkg/skins/statesync"
	"github.com/BrandonKowalski/skinrt/pkg/skins/theme"
)

// Config is a snapshot of the persisted settings.
type Config = internal.Config

// DiagnosticMessage is one log record delivered to diagnostics subscribers.
type DiagnosticMessage = internal.DiagnosticMessage

// PromptFunc asks the user for a skin path once the persisted and bundled
// skins both failed. Return ErrCancelled when the user gives up.
type PromptFunc func(ctx context.Context, lastErr error) (string, error)

// Options configures a Runtime.
type Options struct {
	Backend    platform.Backend // Windowing backend (required)
	Engine     host.Engine      // Host playback engine (required)
	ConfigPath string           // Config file; empty uses the XDG default
	LogPath    string           // Optional log file including filename
	LogLevel   string           // Overrides the configured log level when set
	Skin       string           // Tried before the persisted skin when set
	Prompt     PromptFunc       // Third fallback step; nil skips it
}

// Runtime is one skinned interface instance attached to a host engine.
type Runtime struct {
	opts    Options
	backend platform.Backend
	engine  host.Engine
	config  *internal.ConfigStore
	state   *state.State
	adapter *statesync.Adapter
	loader  *theme.Loader
	machine *lifecycle.Machine
	diag    *internal.Subscription
	caps    platform.Capabilities
	log     *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New builds the interface state and reads configuration. Nothing is shown
// until Run.
func New(opts Options) (*Runtime, error) {
	if opts.Backend == nil {
		return nil, NewInfrastructureError("new_runtime", errors.New("no backend"))
	}
	if opts.Engine == nil {
		return nil, NewInfrastructureError("new_runtime", errors.New("no host engine"))
	}

	if opts.LogPath != "" {
		internal.SetLogPath(opts.LogPath)
	}

	path := opts.ConfigPath
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, NewInfrastructureError("load_config", err)
	}

	level := cfg.Get().LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	internal.SetRawLogLevel(level)
	internal.SetLanguage(cfg.Get().Language)

	r := &Runtime{
		opts:    opts,
		backend: opts.Backend,
		engine:  opts.Engine,
		config:  cfg,
		state:   state.New(),
		loader:  theme.NewLoader(opts.Backend),
		log:     internal.GetInternalLogger(),
	}
	r.adapter = statesync.New(r.state, r.engine, r.backend, statesync.Hooks{
		LoadSkin:      r.LoadSkin,
		ToggleTray:    func() { r.toggle(constants.KeyShowInTray) },
		ToggleTaskbar: func() { r.toggle(constants.KeyShowInTaskbar) },
	})
	r.machine = r.newMachine()
	return r, nil
}

func (r *Runtime) newMachine() *lifecycle.Machine {
	return lifecycle.New().
		Register(lifecycle.Loading, r.open).
		Register(lifecycle.Ready, r.dispatch).
		Register(lifecycle.ShuttingDown, func(context.Context) error {
			return r.Close()
		}).
		OnTransition(func(from lifecycle.State, err error) lifecycle.State {
			if from == lifecycle.Loading && err == nil {
				return lifecycle.Ready
			}
			if from == lifecycle.ShuttingDown {
				return lifecycle.Terminated
			}
			return lifecycle.ShuttingDown
		}).
		Observe(func(from, to lifecycle.State) {
			r.log.Debug("Lifecycle transition", "from", from.String(), "to", to.String())
		})
}

// Run opens the backend, loads a skin through the fallback chain, runs the
// dispatch loop until quit, and tears everything down. It returns ErrNoSkin
// when no skin could be loaded.
func (r *Runtime) Run(ctx context.Context) error {
	return r.machine.Run(ctx, lifecycle.Loading)
}

// Lifecycle returns the current lifecycle state.
func (r *Runtime) Lifecycle() lifecycle.State {
	return r.machine.Current()
}

// Capabilities returns the optional platform features found when the backend
// opened.
func (r *Runtime) Capabilities() platform.Capabilities {
	return r.caps
}

// Config returns a snapshot of the current configuration.
func (r *Runtime) Config() Config {
	return r.config.Get()
}

// Diagnostics returns the log records published since the runtime opened.
// The channel is closed on shutdown.
func (r *Runtime) Diagnostics() <-chan DiagnosticMessage {
	if r.diag == nil {
		return nil
	}
	return r.diag.C
}

// Stop asks a running dispatch loop to exit. Safe from any goroutine.
func (r *Runtime) Stop() {
	r.state.RequestEnd()
	if err := r.backend.PostMessage(platform.Message(platform.MsgQuit, 0, 0)); err != nil && !errors.Is(err, platform.ErrClosed) {
		r.log.Warn("Could not post quit", "error", err)
	}
}

func (r *Runtime) open(ctx context.Context) error {
	r.diag = internal.Subscribe(64)

	caps, err := r.backend.Open()
	if err != nil {
		r.state.SetStatus(state.Error)
		return NewInfrastructureError("open_backend", err)
	}
	r.caps = caps
	if !caps.TransparentBlit {
		r.log.Debug("Transparent blitting unavailable, drawing opaque bitmaps")
	}
	if !caps.LayeredWindows {
		r.log.Debug("Layered windows unavailable, window alpha ignored")
	}
	if !caps.RenderTarget {
		r.log.Debug("Render targets unavailable, drawing directly")
	}

	if pl := r.engine.FindPlaylist(); pl != nil {
		r.state.Lock()
		r.state.SetPlaylist(pl)
		r.state.Unlock()
	} else {
		r.log.Debug("No playlist yet, transport commands will look it up")
	}

	if err := r.loadInitialSkin(ctx); err != nil {
		r.state.SetStatus(state.Error)
		return err
	}

	r.config.Watch(r.configChanged)
	return nil
}

// loadInitialSkin walks the fallback chain: explicit skin, last used skin,
// bundled default, then the interactive prompt.
func (r *Runtime) loadInitialSkin(ctx context.Context) error {
	cfg := r.config.Get()

	var (
		tried   = make(map[string]bool)
		lastErr error
	)
	for _, path := range []string{r.opts.Skin, cfg.SkinLast, cfg.DefaultSkin} {
		if path == "" || tried[path] {
			continue
		}
		tried[path] = true
		if lastErr = r.LoadSkin(path); lastErr == nil {
			return nil
		}
		r.log.Warn("Skin failed to load", "path", path, "error", lastErr)
	}

	if r.opts.Prompt == nil {
		if lastErr == nil {
			return ErrNoSkin
		}
		return fmt.Errorf("%w: %w", ErrNoSkin, lastErr)
	}

	path, err := r.opts.Prompt(ctx, lastErr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoSkin, err)
	}
	if err := r.LoadSkin(path); err != nil {
		return fmt.Errorf("%w: %w", ErrNoSkin, err)
	}
	return nil
}

// LoadSkin loads the skin at path and installs it in place of the current
// one. On failure the current skin stays active. Must run on the dispatch
// goroutine once Run started.
func (r *Runtime) LoadSkin(path string) error {
	start := time.Now()

	t, err := r.loader.Load(path)
	if err != nil {
		return err
	}

	cfg := r.config.Get()
	if cfg.SkinLast == path && cfg.SkinConfig != "" {
		if err := t.ApplyLayout(cfg.SkinConfig); err != nil {
			r.log.Warn("Ignoring saved layout", "error", err)
		}
	}

	r.state.Lock()
	r.state.InstallTheme(t)
	r.state.Unlock()

	if cfg.SkinLast != path {
		if err := r.config.SetAndSave(constants.KeySkinLast, path); err != nil {
			r.log.Warn("Could not persist skin path", "error", err)
		}
	}

	r.adapter.Refresh()
	r.state.Lock()
	t.Refresh(true)
	r.state.Unlock()

	r.log.Info("Skin loaded", "name", t.Name, "path", path, "duration", time.Since(start))
	return nil
}

func (r *Runtime) configChanged(old, cur internal.Config) {
	if cur.LogLevel != old.LogLevel {
		internal.SetRawLogLevel(cur.LogLevel)
	}
	if cur.Language != old.Language {
		internal.SetLanguage(cur.Language)
	}
	if cur.SkinLast == old.SkinLast || cur.SkinLast == "" {
		return
	}

	r.log.Info("Skin path changed on disk", "path", cur.SkinLast)
	evt := platform.Message(platform.MsgLoadSkin, 0, 0)
	evt.Payload = cur.SkinLast
	if err := r.backend.PostMessage(evt); err != nil {
		r.log.Warn("Could not post skin reload", "error", err)
	}
}

func (r *Runtime) toggle(key string) {
	cfg := r.config.Get()
	var next bool
	switch key {
	case constants.KeyShowInTray:
		next = !cfg.ShowInTray
	case constants.KeyShowInTaskbar:
		next = !cfg.ShowInTaskbar
	default:
		return
	}
	if err := r.config.SetAndSave(key, next); err != nil {
		r.log.Warn("Could not persist setting", "key", key, "error", err)
	}
	r.log.Debug("Setting toggled", "key", key, "value", next)
}

// Close releases everything in order: input, playlist, theme, diagnostics
// subscription, interface state, then the backend. The layout of the active
// theme is persisted first. Safe to call more than once and on a runtime
// that never ran.
func (r *Runtime) Close() error {
	r.closeOnce.Do(func() {
		r.state.RequestEnd()

		r.config.StopWatch()

		r.state.Lock()
		var layout string
		t := r.state.Theme()
		if t != nil {
			layout = t.Layout()
		}
		r.state.Unlock()
		if t != nil {
			if err := r.config.SetAndSave(constants.KeySkinConfig, layout); err != nil {
				r.log.Warn("Could not persist layout", "error", err)
			}
		}

		r.state.Release()
		internal.Unsubscribe(r.diag)

		if err := r.backend.Close(); err != nil {
			r.closeErr = NewInfrastructureError("close_backend", err)
		}
		r.log.Debug("Runtime closed")
	})
	return r.closeErr
}

// SetLogPath sets the full path for the log file, including filename.
// Call before New to take effect.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// SetRawLogLevel sets the runtime log level from a string like "debug".
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}

// CloseLogger flushes and closes the log file.
func CloseLogger() {
	internal.CloseLogger()
}

// T returns the localized message for id.
func T(id string, data ...map[string]any) string {
	return internal.T(id, data...)
}

// SetLanguage selects the language used by T.
func SetLanguage(lang string) {
	internal.SetLanguage(lang)
}

// ReadConfig loads the persisted settings without starting a runtime. An
// empty path uses the XDG default location.
func ReadConfig(path string) (Config, error) {
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	store, err := internal.LoadConfig(path)
	if err != nil {
		return Config{}, err
	}
	return store.Get(), nil
}
