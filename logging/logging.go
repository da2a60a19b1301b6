// Package logging builds the zap loggers used across flowedit.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel converts a level name to a zap level. Unknown names fall back
// to info.
func ParseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// New returns a logger writing to w. Format "json" uses the production
// encoder; anything else uses the console encoder.
func New(level, format string, w io.Writer) *zap.Logger {
	var enc zapcore.Encoder
	if format == "json" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(ParseLevel(level)))
	return zap.New(core)
}

// Open returns a logger writing to path, or to stderr when path is empty.
// The returned close function releases the file.
func Open(level, format, path string) (*zap.Logger, func() error, error) {
	if path == "" {
		return New(level, format, os.Stderr), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return New(level, format, f), f.Close, nil
}
