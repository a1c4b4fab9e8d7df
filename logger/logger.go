package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with scraper specific helpers.
type Logger struct {
	logger zerolog.Logger
}

// Default is the shared logger instance used across the application.
var Default *Logger

// Init initializes the default logger with console output.
func Init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	zl := zerolog.New(output).
		Level(getLogLevel()).
		With().
		Timestamp().
		Logger()

	Default = &Logger{logger: zl}
}

// getLogLevel determines the log level from environment variables.
func getLogLevel() zerolog.Level {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	switch levelStr {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		env := strings.ToLower(os.Getenv("UNITWORKER_ENVIRONMENT"))
		if env == "production" {
			return zerolog.InfoLevel
		}
		return zerolog.DebugLevel
	}
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.logger.Info()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.logger.Error()
}

// Fatal returns a fatal level event. The process exits after the message is written.
func (l *Logger) Fatal() *zerolog.Event {
	return l.logger.Fatal()
}

// WithField returns a logger with an additional field attached to every event.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// ForCrawler returns a logger scoped to a crawler component.
func ForCrawler(name string) *Logger {
	ensureDefault()
	return Default.WithField("crawler", name)
}

// ForWorker returns a logger scoped to the worker.
func ForWorker() *Logger {
	ensureDefault()
	return Default.WithField("component", "worker")
}

// ForStorage returns a logger scoped to the storage layer.
func ForStorage() *Logger {
	ensureDefault()
	return Default.WithField("component", "storage")
}

func ensureDefault() {
	if Default == nil {
		Init()
	}
}

// Debug logs a formatted debug message on the default logger.
func Debug(format string, v ...interface{}) {
	ensureDefault()
	Default.Debug().Msgf(format, v...)
}

// Info logs a formatted info message on the default logger.
func Info(format string, v ...interface{}) {
	ensureDefault()
	Default.Info().Msgf(format, v...)
}

// Warn logs a formatted warning message on the default logger.
func Warn(format string, v ...interface{}) {
	ensureDefault()
	Default.Warn().Msgf(format, v...)
}
