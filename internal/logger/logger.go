package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Level represents the log level
type Level int

const (
	LevelDebug Level = iota // Debug information (only shown with --verbose)
	LevelInfo               // Important steps
	LevelError              // Error messages
)

// ParseLevel maps a config string onto a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the process-wide logger. It is created once in main and handed
// to every component that logs; there is no package-level instance.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a new Logger instance
func NewLogger(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stdout
	}

	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(toLogrus(level))
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
		ForceColors:     true,
	})

	return &Logger{entry: logrus.NewEntry(base)}
}

// Discard returns a logger that drops everything, for tests and library use.
func Discard() *Logger {
	return NewLogger(io.Discard, LevelError)
}

func toLogrus(level Level) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// SetColorMode enables or disables colored output
func (l *Logger) SetColorMode(enabled bool) {
	if f, ok := l.entry.Logger.Formatter.(*logrus.TextFormatter); ok {
		f.ForceColors = enabled
		f.DisableColors = !enabled
	}
}

// WithField returns a child logger that tags every line with key=value.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored by NewContext, or nil.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l
	}
	return nil
}

// Debug logs debug information (only shown in verbose mode)
func (l *Logger) Debug(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

// Info logs general information
func (l *Logger) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

// AgentResponse logs the agent's final or intermediate answer
func (l *Logger) AgentResponse(content string) {
	l.entry.WithField("chars", len([]rune(content))).Debugf("agent response: %s", truncate(content))
}

// ToolCall logs a tool call with its parameters
func (l *Logger) ToolCall(toolName string, params string) {
	l.entry.WithFields(logrus.Fields{
		"tool":   toolName,
		"params": strings.TrimSpace(params),
	}).Info("tool call")
}

// ToolResult logs a tool execution result
func (l *Logger) ToolResult(toolName string, success bool, output string, duration time.Duration) {
	e := l.entry.WithFields(logrus.Fields{
		"tool":     toolName,
		"success":  success,
		"duration": duration.Round(time.Millisecond).String(),
	})
	if success {
		e.Debugf("tool result: %s", truncate(output))
		return
	}
	e.Errorf("tool failed: %s", truncate(output))
}

// SessionStart logs the beginning of an agent session
func (l *Logger) SessionStart(task string) {
	l.entry.WithField("task", truncate(task)).Info("session started")
}

// SessionEnd logs the completion of an agent session with statistics
func (l *Logger) SessionEnd(duration time.Duration, toolCallCount int) {
	l.entry.WithFields(logrus.Fields{
		"duration":   duration.Round(time.Millisecond).String(),
		"tool_calls": toolCallCount,
	}).Info("session completed")
}

// truncate limits output to two lines and 500 characters
func truncate(output string) string {
	const maxLines = 2
	const maxLength = 500

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	display := output
	truncatedLines := false
	if len(lines) > maxLines {
		display = strings.Join(lines[:maxLines], "\n")
		truncatedLines = true
	}

	runes := []rune(display)
	if len(runes) > maxLength {
		return string(runes[:maxLength]) + "..."
	}
	if truncatedLines {
		return fmt.Sprintf("%s ...", display)
	}
	return display
}
