package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BrandonKowalski/skinrt/pkg/skins/platform/headless"
)

const skinsDir = "../../share/skins"

func TestDiscoverSkins(t *testing.T) {
	found, err := discoverSkins(skinsDir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(skinsDir, "default")
	for _, f := range found {
		if f == want {
			return
		}
	}
	t.Errorf("Expected %s in %v", want, found)
}

func TestBundledSkinIsValid(t *testing.T) {
	name, err := validateSkin(filepath.Join(skinsDir, "default"))
	if err != nil {
		t.Fatalf("Bundled skin failed to load: %v", err)
	}
	if name != "default" {
		t.Errorf("Expected skin name default, got %q", name)
	}
}

func TestValidateCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"validate", filepath.Join(skinsDir, "default")})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "ok (default)") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestNewBackend(t *testing.T) {
	b, err := newBackend("headless", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(*headless.Backend); !ok {
		t.Errorf("Expected headless backend, got %T", b)
	}

	if _, err := newBackend("wayland", ""); err == nil {
		t.Error("Expected an error for an unknown backend")
	}
}
