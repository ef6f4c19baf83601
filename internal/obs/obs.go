// Package obs builds the zap.SugaredLogger for the compiler's own
// internal tracing. No other package in this module imports it: the
// pipeline and the module graph driver do not log.
//
// This is distinct from internal/diag's human-mode diagnostic
// rendering: a Diagnostic is output shown to the end user about their
// program, logging here is the compiler's own operational trace.
package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a SugaredLogger writing to stderr, at Debug level when
// debug is true and Info level otherwise. The CLI has no flag that
// selects either level.
func New(debug bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		// zap's development config never fails to build in practice;
		// fall back to a no-op logger rather than panicking a CLI run.
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// Noop returns a logger that discards everything, for a caller that
// needs the same *zap.SugaredLogger type as New without any output.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
