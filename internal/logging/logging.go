// Package logging builds the zap logger used across armsim.
//
// The terminal belongs to the simulation, so logs go to a rotated file.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger writing JSON lines to path, rotated by lumberjack.
// An empty path discards everything. The returned close func flushes and
// closes the file.
func New(path string, debug bool) (*zap.SugaredLogger, func() error) {
	if path == "" {
		return NewNop(), func() error { return nil }
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 2,
		Compress:   true,
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(file), level)
	logger := zap.New(core, zap.AddCaller()).Sugar()

	return logger, func() error {
		_ = logger.Sync()
		return file.Close()
	}
}

// NewNop returns a logger that discards everything.
func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
