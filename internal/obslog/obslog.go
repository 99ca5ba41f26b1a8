// Package obslog is a thin wrapper around go.uber.org/zap used only at
// the fatal invariant-violation boundary described in spec.md §7: a
// structured record is emitted immediately before a panic, so the
// violated invariant is machine-parseable rather than just a panic
// message. Everyday operations never log — the teacher repo itself only
// prints at genuinely exceptional moments, and this follows the same
// restraint.
package obslog

import (
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

func init() {
	z, err := zap.NewProduction()
	if err != nil {
		z = zap.NewNop()
	}
	logger = z.Sugar()
}

// L returns the process-wide structured logger.
func L() *zap.SugaredLogger {
	return logger
}

// SetDevelopment swaps in a human-readable development logger, useful
// for tests that want to see invariant-violation records on stderr.
func SetDevelopment() {
	z, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	logger = z.Sugar()
}
