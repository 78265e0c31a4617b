// Package logger is the shared leveled logger for the fleet-ops CLI and
// the operations board loops.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Logger writes leveled, optionally colored log lines.
type Logger struct {
	mu      sync.Mutex
	level   Level
	writer  io.Writer
	prefix  string
	fields  map[string]interface{}
	noColor bool
}

var defaultLogger = New(os.Stdout)

// New creates a logger writing to w at InfoLevel.
func New(w io.Writer) *Logger {
	return &Logger{
		level:  InfoLevel,
		writer: w,
		fields: map[string]interface{}{},
	}
}

// SetLevel sets the default logger's level.
func SetLevel(level Level) { defaultLogger.SetLevel(level) }

// SetNoColor disables color on the default logger.
func SetNoColor(noColor bool) { defaultLogger.SetNoColor(noColor) }

// SetOutput redirects the default logger, for tests.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defaultLogger.writer = w
	defaultLogger.mu.Unlock()
}

// SetLevel sets the minimum level this logger emits.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// SetNoColor disables ANSI colors.
func (l *Logger) SetNoColor(noColor bool) {
	l.mu.Lock()
	l.noColor = noColor
	l.mu.Unlock()
}

// WithPrefix returns a child logger tagging every line with prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	child := l.clone()
	child.prefix = prefix
	return child
}

// WithField returns a child logger carrying an extra key=value field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	child := l.clone()
	child.fields[key] = value
	return child
}

func (l *Logger) clone() *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{
		level:   l.level,
		writer:  l.writer,
		prefix:  l.prefix,
		fields:  fields,
		noColor: l.noColor,
	}
}

func (l *Logger) log(level Level, message string) {
	l.mu.Lock()

	if level < l.level {
		l.mu.Unlock()
		return
	}

	parts := []string{l.paint(colorGray, time.Now().Format("15:04:05"))}

	name, color := levelTag(level)
	parts = append(parts, l.paint(color, name))

	if l.prefix != "" {
		parts = append(parts, l.paint(colorCyan, "["+l.prefix+"]"))
	}

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, l.fields[k])
		}
		parts = append(parts, l.paint(colorGray, strings.Join(pairs, " ")))
	}

	parts = append(parts, message)
	_, _ = fmt.Fprintln(l.writer, strings.Join(parts, " "))

	l.mu.Unlock()

	if level == FatalLevel {
		os.Exit(1)
	}
}

// paint wraps s in an ANSI color unless colors are disabled. Callers must
// hold l.mu.
func (l *Logger) paint(color, s string) string {
	if l.noColor {
		return s
	}
	return color + s + colorReset
}

func levelTag(level Level) (string, string) {
	switch level {
	case DebugLevel:
		return "DEBUG", colorGray
	case InfoLevel:
		return "INFO ", colorGreen
	case WarnLevel:
		return "WARN ", colorYellow
	case ErrorLevel:
		return "ERROR", colorRed
	case FatalLevel:
		return "FATAL", colorRed + colorBold
	default:
		return "?????", colorReset
	}
}

func (l *Logger) Debug(args ...interface{}) { l.log(DebugLevel, fmt.Sprint(args...)) }
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, fmt.Sprintf(format, args...))
}
func (l *Logger) Info(args ...interface{}) { l.log(InfoLevel, fmt.Sprint(args...)) }
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(format, args...))
}
func (l *Logger) Warn(args ...interface{}) { l.log(WarnLevel, fmt.Sprint(args...)) }
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(WarnLevel, fmt.Sprintf(format, args...))
}
func (l *Logger) Error(args ...interface{}) { l.log(ErrorLevel, fmt.Sprint(args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, fmt.Sprintf(format, args...))
}
func (l *Logger) Fatal(args ...interface{}) { l.log(FatalLevel, fmt.Sprint(args...)) }
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(FatalLevel, fmt.Sprintf(format, args...))
}

// Package-level helpers delegate to the default logger.

func Debug(args ...interface{})                       { defaultLogger.Debug(args...) }
func Debugf(format string, args ...interface{})       { defaultLogger.Debugf(format, args...) }
func Info(args ...interface{})                        { defaultLogger.Info(args...) }
func Infof(format string, args ...interface{})        { defaultLogger.Infof(format, args...) }
func Warn(args ...interface{})                        { defaultLogger.Warn(args...) }
func Warnf(format string, args ...interface{})        { defaultLogger.Warnf(format, args...) }
func Error(args ...interface{})                       { defaultLogger.Error(args...) }
func Errorf(format string, args ...interface{})       { defaultLogger.Errorf(format, args...) }
func Fatal(args ...interface{})                       { defaultLogger.Fatal(args...) }
func Fatalf(format string, args ...interface{})       { defaultLogger.Fatalf(format, args...) }
func WithPrefix(prefix string) *Logger                { return defaultLogger.WithPrefix(prefix) }
func WithField(key string, value interface{}) *Logger { return defaultLogger.WithField(key, value) }

// ParseLevel parses a string log level, defaulting to info.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}
