// Package logging builds the zap loggers used by the engine and CLI.
// Nothing is logged unless a logger is constructed here and handed down;
// library packages default to zap.NewNop.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects where and how much to log.
type Options struct {
	// Verbose lowers the level from info to debug.
	Verbose bool
	// File, if set, receives the log (appended) instead of Writer.
	File string
	// Writer is the destination when File is empty; nothing is logged when
	// both are empty.
	Writer io.Writer
}

// New returns a console-encoded logger and a function that flushes and
// releases it.
func New(opts Options) (*zap.Logger, func(), error) {
	var out io.Writer
	closeFn := func() {}

	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	case opts.Writer != nil:
		out = opts.Writer
	default:
		return zap.NewNop(), closeFn, nil
	}

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(out), level)
	logger := zap.New(core)

	return logger, func() {
		_ = logger.Sync()
		closeFn()
	}, nil
}
