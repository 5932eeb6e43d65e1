package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds the persisted interface settings.
type Config struct {
	SkinLast      string `mapstructure:"skin_last"`
	SkinConfig    string `mapstructure:"skin_config"`
	ShowInTray    bool   `mapstructure:"show_in_tray"`
	ShowInTaskbar bool   `mapstructure:"show_in_taskbar"`
	DefaultSkin   string `mapstructure:"default_skin"`
	RefreshMs     int    `mapstructure:"refresh_ms"`
	LogLevel      string `mapstructure:"log_level"`
	Language      string `mapstructure:"language"`
	Backend       string `mapstructure:"backend"`
}

// RefreshInterval returns the refresh cadence, falling back to the default
// for non-positive values.
func (c Config) RefreshInterval() time.Duration {
	if c.RefreshMs <= 0 {
		return constants.DefaultRefreshInterval
	}
	return time.Duration(c.RefreshMs) * time.Millisecond
}

// ConfigStore wraps a viper instance with thread-safe access to the decoded
// Config. Writes go through viper so they can be persisted.
type ConfigStore struct {
	// Guards cfg and every call into v, including reloads from the watcher.
	mu   sync.RWMutex
	v    *viper.Viper
	cfg  Config
	path string

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(constants.KeySkinLast, "")
	v.SetDefault(constants.KeySkinConfig, "")
	v.SetDefault(constants.KeyShowInTray, false)
	v.SetDefault(constants.KeyShowInTaskbar, true)
	v.SetDefault(constants.KeyDefaultSkin, constants.DefaultSkinFile)
	v.SetDefault(constants.KeyRefreshMs, int(constants.DefaultRefreshInterval/time.Millisecond))
	v.SetDefault(constants.KeyLogLevel, "info")
	v.SetDefault(constants.KeyLanguage, "en")
	v.SetDefault(constants.KeyBackend, "sdl")
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/skinrt/config.toml, falling back
// to ~/.config.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configHome, "skinrt", "config.toml")
}

// LoadConfig reads the configuration file at path. A missing file is not an
// error: defaults apply and the file is created on the first Save.
func LoadConfig(path string) (*ConfigStore, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.ConfigEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			GetInternalLogger().Debug("No config file, using defaults", "path", path)
		}
	}

	store := &ConfigStore{v: v, path: path}
	if err := store.decode(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *ConfigStore) decode() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decodeLocked()
}

func (s *ConfigStore) decodeLocked() error {
	var cfg Config
	if err := s.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	s.cfg = cfg
	return nil
}

// Get returns a copy of the current config.
func (s *ConfigStore) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Path returns the file backing this store, or "" for in-memory stores.
func (s *ConfigStore) Path() string {
	return s.path
}

// Set updates one key in memory.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, value)
	return s.decodeLocked()
}

// Save writes the current settings back to the config file.
func (s *ConfigStore) Save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	return nil
}

// SetAndSave updates one key and persists the file.
func (s *ConfigStore) SetAndSave(key string, value any) error {
	if err := s.Set(key, value); err != nil {
		return err
	}
	return s.Save()
}

// Watch re-reads the file when it changes on disk and calls fn with the old
// and new config. The directory is watched so editors that replace the file
// are noticed too. Only the first call starts a watcher.
func (s *ConfigStore) Watch(fn func(old, cur Config)) {
	if s.path == "" {
		return
	}

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watcher != nil {
		return
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		GetInternalLogger().Warn("Config watch unavailable", "path", s.path, "error", err)
		return
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		GetInternalLogger().Warn("Config watch unavailable", "path", s.path, "error", err)
		_ = w.Close()
		return
	}

	s.watcher = w
	s.done = make(chan struct{})
	go s.watch(w, s.done, fn)
}

func (s *ConfigStore) watch(w *fsnotify.Watcher, done chan struct{}, fn func(old, cur Config)) {
	defer close(done)
	target := filepath.Clean(s.path)

	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != target || !e.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			old, cur, err := s.reload()
			if err != nil {
				GetInternalLogger().Warn("Config reload failed", "path", e.Name, "error", err)
				continue
			}
			fn(old, cur)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			GetInternalLogger().Warn("Config watch error", "path", s.path, "error", err)
		}
	}
}

func (s *ConfigStore) reload() (Config, Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.cfg
	if err := s.v.ReadInConfig(); err != nil {
		return old, old, err
	}
	if err := s.decodeLocked(); err != nil {
		return old, old, err
	}
	return old, s.cfg, nil
}

// StopWatch ends a watcher started by Watch and waits for it to exit.
func (s *ConfigStore) StopWatch() {
	s.watchMu.Lock()
	w, done := s.watcher, s.done
	s.watcher, s.done = nil, nil
	s.watchMu.Unlock()

	if w == nil {
		return
	}
	_ = w.Close()
	<-done
}
