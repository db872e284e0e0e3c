// Package log provides structured debug logging for sentinels.
// Logging is off unless SENTINELS_DEBUG is set; entries go to stderr or to
// the file named by SENTINELS_LOG_PATH.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/zjrosen/sentinels/internal/config"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatRegistry Category = "registry" // create path, validation
	CatCache    Category = "cache"    // weak cache hits, reclamation, pins
	CatCodec    Category = "codec"    // serialization round trips
	CatEvents   Category = "events"   // broker subscriptions and drops
)

// Logger provides structured logging.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	enabled  bool
	minLevel Level
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// get lazily initializes the default logger from the environment.
func get() *Logger {
	once.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Default()
		}
		defaultLogger = newLogger(cfg)
	})
	return defaultLogger
}

func newLogger(cfg config.Config) *Logger {
	l := &Logger{enabled: cfg.Debug, minLevel: LevelDebug}
	if !cfg.Debug {
		return l
	}
	if cfg.LogPath == "" {
		l.writer = os.Stderr
		return l
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		l.writer = os.Stderr
		return l
	}
	l.writer = f
	return l
}

// SetEnabled toggles logging on/off, overriding the environment.
func SetEnabled(enabled bool) {
	l := get()
	l.mu.Lock()
	l.enabled = enabled
	if enabled && l.writer == nil {
		l.writer = os.Stderr
	}
	l.mu.Unlock()
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	l := get()
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

// SetWriter redirects log output, mainly for tests.
func SetWriter(w io.Writer) {
	l := get()
	l.mu.Lock()
	l.writer = w
	l.mu.Unlock()
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields...)
}

func write(level Level, cat Category, msg string, fields ...any) {
	l := get()

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled || level < l.minLevel || l.writer == nil {
		return
	}

	// Format: 2025-12-06T10:45:00 [DEBUG] [registry] message key=value
	timestamp := time.Now().Format("2006-01-02T15:04:05")
	entry := fmt.Sprintf("%s [%s] [%s] %s", timestamp, level, cat, msg)

	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		entry += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}
	entry += "\n"

	_, _ = l.writer.Write([]byte(entry))
}
