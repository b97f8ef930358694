// Package logger wraps the process logger. Services throughout the app take
// a plain func(string) sink, so they stay decoupled from the logging
// backend; this package builds that sink on top of zap.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger handles application logging.
type Logger struct {
	zl       *zap.Logger
	detailed bool
}

// New creates a logger writing to stderr and, when logDir is non-empty, to a
// dated file under it. detailed enables debug-level output.
func New(logDir string, detailed bool) (*Logger, error) {
	level := zapcore.InfoLevel
	if detailed {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)

	cores := []zapcore.Core{consoleCore}
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		filename := filepath.Join(logDir, fmt.Sprintf("slidesmith_%s.log", time.Now().Format("2006-01-02")))
		f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(f),
			level,
		))
	}

	zl := zap.New(zapcore.NewTee(cores...))
	return &Logger{zl: zl, detailed: detailed}, nil
}

// Log writes a message at info level.
func (l *Logger) Log(message string) {
	l.zl.Info(message)
}

// Logf writes a formatted message at info level.
func (l *Logger) Logf(format string, args ...interface{}) {
	l.zl.Info(fmt.Sprintf(format, args...))
}

// Sink returns the func(string) adapter services consume.
func (l *Logger) Sink() func(string) {
	return l.Log
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	_ = l.zl.Sync()
}
