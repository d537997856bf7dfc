// ==============================================================================
// LOGGER PACKAGE - pkg/logger/logger.go
// ==============================================================================
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Logger interface {
	Info(message string, fields map[string]interface{})
	Error(message string, fields map[string]interface{})
	Warn(message string, fields map[string]interface{})
	Debug(message string, fields map[string]interface{})
	Fatal(message string, fields map[string]interface{})
}

type jsonLogger struct {
	logger zerolog.Logger
}

// New returns a JSON line logger on stdout at info level.
func New(serviceName string) Logger {
	return NewWithWriter(serviceName, "info", os.Stdout)
}

// NewWithWriter returns a JSON line logger writing to w. Unknown levels fall back to info.
func NewWithWriter(serviceName, level string, w io.Writer) Logger {
	zl := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
	return &jsonLogger{logger: zl}
}

// ParseLevel maps LOG_LEVEL values onto zerolog levels.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *jsonLogger) log(event *zerolog.Event, message string, fields map[string]interface{}) {
	if fields != nil {
		event = event.Fields(fields)
	}
	event.Msg(message)
}

func (l *jsonLogger) Info(message string, fields map[string]interface{}) {
	l.log(l.logger.Info(), message, fields)
}

func (l *jsonLogger) Error(message string, fields map[string]interface{}) {
	l.log(l.logger.Error(), message, fields)
}

func (l *jsonLogger) Warn(message string, fields map[string]interface{}) {
	l.log(l.logger.Warn(), message, fields)
}

func (l *jsonLogger) Debug(message string, fields map[string]interface{}) {
	l.log(l.logger.Debug(), message, fields)
}

func (l *jsonLogger) Fatal(message string, fields map[string]interface{}) {
	// zerolog's Fatal exits the process after writing.
	l.log(l.logger.Fatal(), message, fields)
}

func NewNop() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (l *nopLogger) Info(message string, fields map[string]interface{})  {}
func (l *nopLogger) Error(message string, fields map[string]interface{}) {}
func (l *nopLogger) Warn(message string, fields map[string]interface{})  {}
func (l *nopLogger) Debug(message string, fields map[string]interface{}) {}
func (l *nopLogger) Fatal(message string, fields map[string]interface{}) {}
