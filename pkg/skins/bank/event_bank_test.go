package bank

import (
	"errors"
	"testing"

	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

type recordingPoster struct {
	posted []platform.Event
}

func (p *recordingPoster) PostMessage(evt platform.Event) error {
	p.posted = append(p.posted, evt)
	return nil
}

type recordingTarget struct {
	values []int
	texts  []string
}

func (r *recordingTarget) SetValue(v int)   { r.values = append(r.values, v) }
func (r *recordingTarget) SetText(s string) { r.texts = append(r.texts, s) }

func TestEventBankGetNotFound(t *testing.T) {
	b := NewEventBank(nil)
	if _, err := b.Add("volume_refresh"); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"time", "left_time", "total_time", ""} {
		t.Run(name, func(t *testing.T) {
			evt, err := b.Get(name)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(%q) error = %v, want ErrNotFound", name, err)
			}
			if evt != nil {
				t.Errorf("Get(%q) returned non-nil event", name)
			}
		})
	}

	if _, err := b.Get("volume_refresh"); err != nil {
		t.Errorf("Expected declared name to resolve, got %v", err)
	}
}

func TestEventBankDuplicate(t *testing.T) {
	b := NewEventBank(nil)
	if _, err := b.Add("play"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddAction("play", platform.Message(platform.MsgPlay, 0, 0)); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestNormalizeKey(t *testing.T) {
	for k := 'a'; k <= 'z'; k++ {
		if got := NormalizeKey(int(k)); got != int(k-'a'+'A') {
			t.Errorf("NormalizeKey(%c) = %c", k, rune(got))
		}
	}

	for _, k := range []int{'A', 'Z', '0', ' ', '[', 0x1b} {
		if got := NormalizeKey(k); got != k {
			t.Errorf("NormalizeKey(%#x) = %#x, want unchanged", k, got)
		}
	}
}

func TestResolveModifier(t *testing.T) {
	tests := []struct {
		name string
		mask platform.Modifier
		want Modifier
	}{
		{"none", 0, ModNone},
		{"shift only", platform.ModShift, ModNone},
		{"alt", platform.ModAlt, ModAlt},
		{"ctrl", platform.ModCtrl, ModCtrl},
		{"alt and ctrl", platform.ModAlt | platform.ModCtrl, ModAlt},
		{"all", platform.ModAlt | platform.ModCtrl | platform.ModShift, ModAlt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveModifier(tt.mask); got != tt.want {
				t.Errorf("ResolveModifier(%b) = %v, want %v", tt.mask, got, tt.want)
			}
		})
	}
}

func TestTestShortcut(t *testing.T) {
	poster := &recordingPoster{}
	b := NewEventBank(poster)

	if _, err := b.AddAction("play", platform.Message(platform.MsgPlay, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddAction("quit", platform.Message(platform.MsgQuit, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := b.BindShortcut('p', ModCtrl, "play"); err != nil {
		t.Fatal(err)
	}
	if err := b.BindShortcut('Q', ModAlt, "quit"); err != nil {
		t.Fatal(err)
	}

	if evt, ok := b.TestShortcut('P', platform.ModCtrl); !ok || evt.Name() != "play" {
		t.Fatalf("Expected ctrl+P to match play, got %v %v", evt, ok)
	}
	if evt, ok := b.TestShortcut('q', platform.ModAlt|platform.ModCtrl); !ok || evt.Name() != "quit" {
		t.Fatalf("Expected alt+ctrl+q to resolve as alt+Q, got %v %v", evt, ok)
	}
	if _, ok := b.TestShortcut('p', platform.ModAlt); ok {
		t.Error("alt+P is not bound and must not match")
	}
	if _, ok := b.TestShortcut('p', 0); ok {
		t.Error("unmodified P is not bound and must not match")
	}

	if len(poster.posted) != 2 {
		t.Fatalf("Expected 2 posted messages, got %d", len(poster.posted))
	}
	if poster.posted[0].Code != platform.MsgPlay || poster.posted[1].Code != platform.MsgQuit {
		t.Errorf("Unexpected posted codes %v, %v", poster.posted[0].Code, poster.posted[1].Code)
	}
}

func TestBindShortcutUnknownEvent(t *testing.T) {
	b := NewEventBank(nil)
	if err := b.BindShortcut('x', ModNone, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestControlEventPostWithoutTargets(t *testing.T) {
	b := NewEventBank(nil)
	evt, err := b.Add("time")
	if err != nil {
		t.Fatal(err)
	}

	evt.PostValue(42)
	evt.PostText("0:01:00")

	if v, ok := evt.LastValue(); !ok || v != 42 {
		t.Errorf("LastValue() = %d, %v", v, ok)
	}

	late := &recordingTarget{}
	evt.Bind(late)
	if len(late.values) != 1 || late.values[0] != 42 {
		t.Errorf("Late target should receive last value, got %v", late.values)
	}
	if len(late.texts) != 1 || late.texts[0] != "0:01:00" {
		t.Errorf("Late target should receive last text, got %v", late.texts)
	}

	b.Close()
	evt.PostValue(7)
	if len(late.values) != 1 {
		t.Error("Closed bank must not forward to detached targets")
	}
}

func TestTriggerWithoutActionIsNoop(t *testing.T) {
	poster := &recordingPoster{}
	b := NewEventBank(poster)
	evt, _ := b.Add("volume_refresh")

	if err := evt.TriggerWith(10); err != nil {
		t.Fatal(err)
	}
	if len(poster.posted) != 0 {
		t.Error("Signal-only event must not post")
	}
}
