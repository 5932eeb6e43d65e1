package skins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/BrandonKowalski/skinrt/pkg/skins/host/sim"
	"github.com/BrandonKowalski/skinrt/pkg/skins/internal"
	"github.com/BrandonKowalski/skinrt/pkg/skins/lifecycle"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/headless"
	"github.com/BrandonKowalski/skinrt/pkg/skins/state"
)

const testSkin = `
name = "test"

[[event]]
name = "volume_refresh"

[[event]]
name = "time"

[[event]]
name = "play"
action = "play"

[[event]]
name = "quit"
action = "quit"

[[shortcut]]
key = "p"
event = "play"

[[shortcut]]
key = "q"
modifier = "ctrl"
event = "quit"

[[window]]
name = "main"
width = 120
height = 40

  [[window.control]]
  type = "slider"
  id = "volume"
  width = 100
  height = 10
  refresh = "volume_refresh"
`

func writeTestSkin(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "theme.toml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeConfig(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "refresh_ms = 10\nlog_level = \"error\"\n"
	for _, l := range lines {
		body += l + "\n"
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRuntime(t *testing.T, opts Options) (*Runtime, *headless.Backend, *sim.Engine) {
	t.Helper()
	backend := headless.New()
	engine := sim.New()
	opts.Backend = backend
	opts.Engine = engine
	r, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return r, backend, engine
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	if !IsInfrastructureError(err) {
		t.Errorf("Expected infrastructure error, got %v", err)
	}
	_, err = New(Options{Backend: headless.New()})
	if !IsInfrastructureError(err) {
		t.Errorf("Expected infrastructure error without engine, got %v", err)
	}
}

func TestFallbackToDefaultSkin(t *testing.T) {
	good := writeTestSkin(t, testSkin)
	cfgPath := writeConfig(t,
		fmt.Sprintf("skin_last = %q", filepath.Join(t.TempDir(), "missing")),
		fmt.Sprintf("default_skin = %q", good),
	)
	r, _, _ := newTestRuntime(t, Options{ConfigPath: cfgPath})
	defer r.Close()

	if err := r.open(context.Background()); err != nil {
		t.Fatalf("open returned error: %v", err)
	}

	r.state.Lock()
	th := r.state.Theme()
	r.state.Unlock()
	if th == nil || th.Name != "test" {
		t.Fatalf("Expected default skin installed, got %v", th)
	}
	if got := r.Config().SkinLast; got != good {
		t.Errorf("Expected skin_last persisted as %q, got %q", good, got)
	}

	reloaded, err := internal.LoadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Get().SkinLast != good {
		t.Errorf("Expected skin_last written to disk, got %q", reloaded.Get().SkinLast)
	}
}

func TestNoSkinShutsDownCleanly(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	cfgPath := writeConfig(t, fmt.Sprintf("default_skin = %q", missing))
	r, backend, _ := newTestRuntime(t, Options{ConfigPath: cfgPath})

	err := r.Run(context.Background())
	if !errors.Is(err, ErrNoSkin) {
		t.Fatalf("Expected ErrNoSkin, got %v", err)
	}
	if r.Lifecycle() != lifecycle.Terminated {
		t.Errorf("Expected terminated, got %s", r.Lifecycle())
	}
	if r.state.Status() != state.Error {
		t.Errorf("Expected error status, got %v", r.state.Status())
	}
	if backend.LiveWindows() != 0 {
		t.Errorf("No window may survive a failed startup, %d alive", backend.LiveWindows())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Second Close returned %v", err)
	}
}

func TestPromptFallback(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	good := writeTestSkin(t, testSkin)

	t.Run("selected", func(t *testing.T) {
		var gotErr error
		r, _, _ := newTestRuntime(t, Options{
			ConfigPath: writeConfig(t, fmt.Sprintf("default_skin = %q", missing)),
			Prompt: func(ctx context.Context, lastErr error) (string, error) {
				gotErr = lastErr
				return good, nil
			},
		})
		defer r.Close()

		if err := r.open(context.Background()); err != nil {
			t.Fatal(err)
		}
		if !errors.Is(gotErr, os.ErrNotExist) {
			t.Errorf("Prompt should receive the last load error, got %v", gotErr)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		r, _, _ := newTestRuntime(t, Options{
			ConfigPath: writeConfig(t, fmt.Sprintf("default_skin = %q", missing)),
			Prompt: func(context.Context, error) (string, error) {
				return "", ErrCancelled
			},
		})
		err := r.Run(context.Background())
		if !errors.Is(err, ErrNoSkin) || !IsCancelled(err) {
			t.Errorf("Expected ErrNoSkin wrapping ErrCancelled, got %v", err)
		}
	})
}

func TestRunEndToEnd(t *testing.T) {
	skin := writeTestSkin(t, testSkin)
	cfgPath := writeConfig(t, fmt.Sprintf("skin_last = %q", skin), `skin_config = "main=7,9"`)
	r, backend, engine := newTestRuntime(t, Options{ConfigPath: cfgPath})
	engine.SetVolume(constants.VolumeMax)
	engine.Start(1000, 10, true)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()
	waitFor(t, "ready", func() bool { return r.Lifecycle() == lifecycle.Ready })
	waitFor(t, "input bound", func() bool { return engine.InputRefs.Load() == 1 })

	if err := backend.Inject(platform.KeyDown(0, 'p', 0)); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "play command", func() bool {
		cmds := engine.Commands()
		return len(cmds) == 1 && cmds[0] == "play"
	})

	if err := backend.Inject(platform.KeyDown(0, 'Q', platform.ModCtrl|platform.ModShift)); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit shortcut")
	}

	if r.Lifecycle() != lifecycle.Terminated {
		t.Errorf("Expected terminated, got %s", r.Lifecycle())
	}
	if engine.InputRefs.Load() != 0 || engine.PlaylistRefs.Load() != 0 {
		t.Errorf("References leaked: input=%d playlist=%d", engine.InputRefs.Load(), engine.PlaylistRefs.Load())
	}
	if backend.LiveWindows() != 0 {
		t.Errorf("Expected windows destroyed, %d alive", backend.LiveWindows())
	}

	reloaded, err := internal.LoadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Get().SkinConfig; got != "main=7,9" {
		t.Errorf("Expected restored layout persisted, got %q", got)
	}

	// Closed on shutdown, so this drains and returns.
	for range r.Diagnostics() {
	}
}

func TestStopFromAnotherGoroutine(t *testing.T) {
	skin := writeTestSkin(t, testSkin)
	r, _, _ := newTestRuntime(t, Options{ConfigPath: writeConfig(t), Skin: skin})

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()
	waitFor(t, "ready", func() bool { return r.Lifecycle() == lifecycle.Ready })

	r.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestContextCancelEndsRun(t *testing.T) {
	skin := writeTestSkin(t, testSkin)
	r, _, _ := newTestRuntime(t, Options{ConfigPath: writeConfig(t), Skin: skin})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	waitFor(t, "ready", func() bool { return r.Lifecycle() == lifecycle.Ready })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRouteDropsUnmatchedTarget(t *testing.T) {
	skin := writeTestSkin(t, testSkin)
	r, backend, _ := newTestRuntime(t, Options{ConfigPath: writeConfig(t), Skin: skin})
	defer r.Close()
	if err := r.open(context.Background()); err != nil {
		t.Fatal(err)
	}

	r.state.Lock()
	main := r.state.Theme().Windows()[0]
	r.state.Unlock()
	before, _ := backend.Window(main.Handle())

	if !r.route(platform.Event{Code: platform.EventMouseDown, Target: main.Handle() + 100, Param1: 50, Param2: 30}) {
		t.Error("Dropped events must not stop the loop")
	}
	if !r.route(platform.Event{Code: platform.EventMouseMove, Target: main.Handle() + 100, Param1: 90, Param2: 30}) {
		t.Error("Dropped events must not stop the loop")
	}

	after, _ := backend.Window(main.Handle())
	if after.X != before.X || after.Y != before.Y {
		t.Error("Event for an unknown handle reached a window")
	}

	if r.route(platform.Event{Code: platform.EventQuit}) {
		t.Error("Native quit must stop the loop")
	}
}

func TestLoadSkinKeepsCurrentOnFailure(t *testing.T) {
	skin := writeTestSkin(t, testSkin)
	r, _, _ := newTestRuntime(t, Options{ConfigPath: writeConfig(t), Skin: skin})
	defer r.Close()
	if err := r.open(context.Background()); err != nil {
		t.Fatal(err)
	}

	r.state.Lock()
	before := r.state.Theme()
	r.state.Unlock()

	broken := writeTestSkin(t, "name = \"broken\"\n")
	if err := r.LoadSkin(broken); err == nil {
		t.Fatal("Expected broken skin to fail")
	}

	r.state.Lock()
	defer r.state.Unlock()
	if r.state.Theme() != before {
		t.Error("Failed load replaced the active theme")
	}
	if len(before.Windows()) != 1 {
		t.Error("Active theme must stay intact")
	}
}

func TestRouteTriggersShortcuts(t *testing.T) {
	skin := writeTestSkin(t, testSkin)
	r, backend, engine := newTestRuntime(t, Options{ConfigPath: writeConfig(t), Skin: skin})
	defer r.Close()
	if err := r.open(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !r.route(platform.KeyDown(0, 'P', 0)) {
		t.Fatal("Shortcut key must not stop the loop")
	}

	// The shortcut posts its message back to the loop.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		evt, err := backend.NextEvent(ctx)
		if err != nil {
			t.Fatalf("Shortcut message never posted: %v", err)
		}
		if evt.Code == platform.MsgPlay {
			r.route(evt)
			break
		}
	}
	if cmds := engine.Commands(); len(cmds) != 1 || cmds[0] != "play" {
		t.Fatalf("Expected play from the shortcut, got %v", cmds)
	}

	pending := backend.Pending()
	if !r.route(platform.KeyDown(0, 'z', platform.ModCtrl)) {
		t.Fatal("Unbound key must not stop the loop")
	}
	if backend.Pending() != pending {
		t.Error("Unbound key posted a message")
	}
}

func TestCloseDuringDrag(t *testing.T) {
	skin := writeTestSkin(t, testSkin)
	cfgPath := writeConfig(t)
	r, _, _ := newTestRuntime(t, Options{ConfigPath: cfgPath, Skin: skin})
	if err := r.open(context.Background()); err != nil {
		t.Fatal(err)
	}

	r.state.Lock()
	h := r.state.Theme().Windows()[0].Handle()
	r.state.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.route(platform.Event{Code: platform.EventMouseDown, Target: h, Param1: 50, Param2: 30})
		for i := 0; i < 200; i++ {
			r.route(platform.Event{Code: platform.EventMouseMove, Target: h, Param1: int64(50 + i%20), Param2: 30})
		}
	}()

	if err := r.Close(); err != nil {
		t.Errorf("Close returned %v", err)
	}
	wg.Wait()

	reloaded, err := internal.LoadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Get().SkinConfig; !strings.HasPrefix(got, "main=") {
		t.Errorf("Expected main window layout persisted, got %q", got)
	}
}
