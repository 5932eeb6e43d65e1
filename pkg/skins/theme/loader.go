package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

// DefinitionFile is the file looked up when a skin path names a directory.
const DefinitionFile = "theme.toml"

// Loader builds themes against one backend.
type Loader struct {
	backend platform.Backend
}

// NewLoader returns a loader creating windows on backend. Triggered events are
// posted to the same backend.
func NewLoader(backend platform.Backend) *Loader {
	return &Loader{backend: backend}
}

// Resolve turns a skin path into the definition file to read: directories
// resolve to their theme.toml.
func Resolve(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		path = filepath.Join(path, DefinitionFile)
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
	}
	return path, nil
}

// Load reads and builds the skin at path. On any failure every window created
// so far is destroyed and a *LoadError is returned, so a failed load never
// leaves a partial theme behind.
func (l *Loader) Load(path string) (*Theme, error) {
	start := time.Now()

	file, err := Resolve(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var def Definition
	md, err := toml.DecodeFile(file, &def)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidSkin, err)}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logger().Warn("Skin contains unknown keys", "path", file, "keys", fmt.Sprint(undecoded))
	}
	if err := def.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	name := def.Name
	if name == "" {
		name = filepath.Base(filepath.Dir(file))
	}

	t := newTheme(name, path, l.backend)
	b := newBuilder(l.backend, filepath.Dir(file), t)
	if err := Build(&def, b); err != nil {
		b.abort()
		return nil, &LoadError{Path: path, Err: err}
	}

	logger().Debug("Skin loaded",
		"name", name,
		"path", file,
		"windows", len(t.windows),
		"events", t.events.Len(),
		"bitmaps", t.bitmaps.Len(),
		"duration", time.Since(start))
	return t, nil
}
