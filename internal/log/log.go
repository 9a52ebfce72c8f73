// Package log is the structured logger shared by the loader, the CLI and
// the TUI. Records are JSON lines in a size-rotated file; the terminal is
// left to the UI.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const fileName = "placemap.slog"

type Logger struct {
	*slog.Logger
	Path string // empty unless created by New
}

var levels = map[string]slog.Level{
	"":      slog.LevelInfo,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel accepts debug, info, warn and error. An empty level is info.
func ParseLevel(level string) (slog.Level, error) {
	if lvl, ok := levels[strings.ToLower(level)]; ok {
		return lvl, nil
	}
	return slog.LevelInfo, fmt.Errorf("%s: invalid log level", level)
}

// DefaultDir is placemap's directory under the user config dir, or the
// working directory when there is none.
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "placemap")
}

// New logs to placemap.slog in dir (DefaultDir when empty).
func New(level, dir string) *Logger {
	if dir == "" {
		dir = DefaultDir()
	}
	path := filepath.Join(dir, fileName)
	l := NewWithWriter(level, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    8, // MB
		MaxBackups: 2,
		MaxAge:     30,
	})
	l.Path = path
	l.Debug("logger ready", "goos", runtime.GOOS, "goarch", runtime.GOARCH)
	return l
}

// NewWithWriter is New without the file. An invalid level is reported on
// stderr and falls back to info.
func NewWithWriter(level string, w io.Writer) *Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))}
}

// A nil *Logger is valid: debug and info records are dropped, warnings and
// errors go to slog's default logger.

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil {
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil {
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l == nil {
		slog.Warn(msg, args...)
		return
	}
	l.Logger.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	if l == nil {
		slog.Error(msg, args...)
		return
	}
	l.Logger.Error(msg, args...)
}

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{Logger: l.Logger.With(args...), Path: l.Path}
}
