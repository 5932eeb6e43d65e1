// Package constants defines shared constants, configuration keys, and the
// reserved message ranges used throughout the skin runtime.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variables read by the runtime.
const (
	EnvironmentEnvVar = "ENVIRONMENT"
	SkinPathEnvVar    = "SKINRT_SKIN"
	ConfigEnvPrefix   = "SKINRT"
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv(EnvironmentEnvVar) == Development
}

// SliderRange is the fixed integer domain of every skin slider. Host ranges
// (volume, stream position) are rescaled linearly into [0, SliderRange].
const SliderRange = 10000

// VolumeMax is the top of the host engine's native volume range.
const VolumeMax = 1024

// Semantic host messages live strictly between MessageBase and WindowBase.
// Codes at or above WindowBase are window-level control messages; codes below
// MessageBase are native platform events.
const (
	MessageBase uint32 = 0x8000
	WindowBase  uint32 = MessageBase + 0x400
)

// Persisted configuration keys.
const (
	KeySkinLast      = "skin_last"
	KeySkinConfig    = "skin_config"
	KeyShowInTray    = "show_in_tray"
	KeyShowInTaskbar = "show_in_taskbar"
	KeyDefaultSkin   = "default_skin"
	KeyRefreshMs     = "refresh_ms"
	KeyLogLevel      = "log_level"
	KeyLanguage      = "language"
	KeyBackend       = "backend"
)

// Control identifiers written by the refresh cycle.
const (
	ControlVolume    = "volume_refresh"
	ControlTime      = "time"
	ControlLeftTime  = "left_time"
	ControlTotalTime = "total_time"
)

// DefaultSkinFile is the bundled skin, relative to the working directory.
const DefaultSkinFile = "./share/skins/default/theme.toml"

// Default timing constants.
const (
	DefaultRefreshInterval = 200 * time.Millisecond
	DefaultEventWait       = 100 * time.Millisecond
)
