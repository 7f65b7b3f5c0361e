// Package logger holds the process-wide slog logger. Every package logs
// through the helpers below so the CLI can redirect or silence output in
// one place.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var level = new(slog.LevelVar)

// Logger receives every record. Tests swap it for a buffer-backed logger.
var Logger = textLogger(os.Stderr)

func textLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Anything unrecognized
// is treated as info.
func ParseLevel(name string) slog.Level {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Configure points the logger at w and sets the minimum level.
func Configure(w io.Writer, name string) {
	level.Set(ParseLevel(name))
	Logger = textLogger(w)
}

// Level reports the current minimum level.
func Level() slog.Level { return level.Level() }

func Debug(msg string, args ...any) { Logger.Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger.Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger.Warn(msg, args...) }
func Error(msg string, args ...any) { Logger.Error(msg, args...) }
