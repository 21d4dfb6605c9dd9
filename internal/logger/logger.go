package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

const component = "CERTIFIRE"

var (
	mu            sync.RWMutex
	defaultLogger = zerolog.New(os.Stdout).With().Timestamp().Str("app", component).Logger()
)

// SetOutput redirects all log output, e.g. to stderr for CLI commands whose
// stdout is consumed by scripts.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	defaultLogger = defaultLogger.Output(w)
}

// SetLevel parses a textual level ("debug", "info", ...). Unknown values
// fall back to info.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))

	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()

	defaultLogger = defaultLogger.Level(parsed)
}

// Get returns the underlying structured logger.
// Safe to call while other goroutines log.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return defaultLogger
}

// With returns a child logger carrying the given component name.
func With(name string) zerolog.Logger {
	current := Get()
	return current.With().Str("component", name).Logger()
}

func event(level LogLevel) *zerolog.Event {
	current := Get()

	switch level {
	case DEBUG:
		return current.Debug()
	case INFO:
		return current.Info()
	case WARN:
		return current.Warn()
	case ERROR:
		return current.Error()
	case FATAL:
		return current.Fatal()
	}

	return current.Info()
}

func logf(level LogLevel, format string, args ...interface{}) {
	event(level).Msg(fmt.Sprintf(format, args...))
}

func Debug(format string, args ...interface{}) {
	logf(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	logf(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	logf(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	logf(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	logf(FATAL, format, args...)
}
