// squadlog/log.go
// Copyright(c) 2026 monte-carlo-sub002 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package squadlog provides the scheduler's structured logger: a thin,
// nil-safe wrapper around log/slog that rotates its JSON output through
// lumberjack, grounded on the teacher's log.Logger.
package squadlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps *slog.Logger. A nil *Logger is valid everywhere a Logger
// is accepted: Debug/Info calls on it are silently discarded so the
// dispatcher and demand generator can be exercised in tests without
// constructing one.
type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// New builds a Logger that writes rotated JSON logs to dir (created via
// lumberjack) at the given level ("debug", "info", "warn", "error").
// An empty dir logs only to stderr.
func New(level string, dir string) *Logger {
	lvl := parseLevel(level)

	var handler slog.Handler
	if dir == "" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		w := &lumberjack.Logger{
			Filename: filepath.Join(dir, "squadsim.slog"),
			MaxSize:  32, // MB
			MaxAge:   14,
			Compress: true,
		}
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}

	l := &Logger{
		Logger: slog.New(handler),
		Start:  time.Now(),
	}
	if dir != "" {
		l.LogFile = filepath.Join(dir, "squadsim.slog")
	}
	return l
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		l.Logger.Debug(fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelInfo) {
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

// With returns a Logger that prepends args to every subsequent record,
// safe to call on a nil receiver.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{Logger: l.Logger.With(args...), LogFile: l.LogFile, Start: l.Start}
}
