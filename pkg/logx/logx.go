// Package logx is the application-wide leveled logger.
package logx

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Level = logrus.Level

const (
	LevelDebug = logrus.DebugLevel
	LevelInfo  = logrus.InfoLevel
	LevelWarn  = logrus.WarnLevel
	LevelError = logrus.ErrorLevel
)

// Fields is a set of structured key/value pairs
type Fields = logrus.Fields

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// SetLevel changes the minimum level that is emitted
func SetLevel(level Level) { std.SetLevel(level) }

// SetOutput redirects log output
func SetOutput(w io.Writer) { std.SetOutput(w) }

// UseJSON switches to JSON formatted output
func UseJSON() { std.SetFormatter(&logrus.JSONFormatter{}) }

// ParseLevel maps "debug", "info", "warn", "error" to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// WithFields returns an entry carrying the given fields
func WithFields(fields Fields) *logrus.Entry { return std.WithFields(fields) }

func Debug(args ...any)                 { std.Debug(args...) }
func Debugf(format string, args ...any) { std.Debugf(format, args...) }
func Info(args ...any)                  { std.Info(args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Warn(args ...any)                  { std.Warn(args...) }
func Warnf(format string, args ...any)  { std.Warnf(format, args...) }
func Error(args ...any)                 { std.Error(args...) }
func Errorf(format string, args ...any) { std.Errorf(format, args...) }
func Fatal(args ...any)                 { std.Fatal(args...) }
func Fatalf(format string, args ...any) { std.Fatalf(format, args...) }
