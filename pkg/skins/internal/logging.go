package internal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	logFile *os.File
	logPath string

	setupOnce   sync.Once
	multiWriter io.Writer

	loggerOnce sync.Once
	logger     *slog.Logger
	levelVar   *slog.LevelVar

	internalLoggerOnce sync.Once
	internalLogger     *slog.Logger
	internalLevelVar   *slog.LevelVar

	diagnostics = &hub{subs: make(map[*Subscription]struct{})}
)

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories.
func SetLogPath(path string) {
	logPath = path
}

func setup() {
	setupOnce.Do(func() {
		if logPath == "" {
			multiWriter = os.Stdout
			return
		}

		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			multiWriter = os.Stdout
			return
		}

		var err error
		logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			// Can't open log file, fall back to console-only
			multiWriter = os.Stdout
			return
		}

		multiWriter = io.MultiWriter(os.Stdout, logFile)
	})
}

func newLogger(lv *slog.LevelVar) *slog.Logger {
	setup()
	handler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
		Level:     lv,
		AddSource: false,
	})
	return slog.New(&fanoutHandler{Handler: handler, hub: diagnostics})
}

// GetLogger returns the application logger.
func GetLogger() *slog.Logger {
	loggerOnce.Do(func() {
		levelVar = &slog.LevelVar{}
		logger = newLogger(levelVar)
	})
	return logger
}

// GetInternalLogger returns the logger used by the runtime itself.
func GetInternalLogger() *slog.Logger {
	internalLoggerOnce.Do(func() {
		internalLevelVar = &slog.LevelVar{}
		internalLogger = newLogger(internalLevelVar)
	})
	return internalLogger
}

func SetLogLevel(level slog.Level) {
	GetLogger()
	levelVar.Set(level)
}

func SetInternalLogLevel(level slog.Level) {
	GetInternalLogger()
	internalLevelVar.Set(level)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(rawLevel string) slog.Level {
	switch strings.ToLower(rawLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func SetRawLogLevel(rawLevel string) {
	SetLogLevel(ParseLevel(rawLevel))
	SetInternalLogLevel(ParseLevel(rawLevel))
}

func CloseLogger() {
	if logFile != nil {
		logFile.Close()
	}
}

// DiagnosticMessage is one log record delivered to a subscriber.
type DiagnosticMessage struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Subscription receives a copy of every record logged after Subscribe.
// Records are dropped when the subscriber falls behind.
type Subscription struct {
	C chan DiagnosticMessage
}

type hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// Subscribe registers a diagnostics subscriber with the given buffer size.
func Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 1
	}
	sub := &Subscription{C: make(chan DiagnosticMessage, buffer)}
	diagnostics.mu.Lock()
	diagnostics.subs[sub] = struct{}{}
	diagnostics.mu.Unlock()
	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call twice.
func Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	diagnostics.mu.Lock()
	defer diagnostics.mu.Unlock()
	if _, ok := diagnostics.subs[sub]; !ok {
		return
	}
	delete(diagnostics.subs, sub)
	close(sub.C)
}

func (h *hub) publish(msg DiagnosticMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.C <- msg:
		default:
		}
	}
}

type fanoutHandler struct {
	slog.Handler
	hub *hub
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	f.hub.publish(DiagnosticMessage{Time: r.Time, Level: r.Level, Message: r.Message})
	return f.Handler.Handle(ctx, r)
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &fanoutHandler{Handler: f.Handler.WithAttrs(attrs), hub: f.hub}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	return &fanoutHandler{Handler: f.Handler.WithGroup(name), hub: f.hub}
}
