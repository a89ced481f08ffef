// Package logging hands out leveled loggers for every videoframe package.
// Levels are controlled with the PION_LOG_* environment variables.
package logging

import (
	"github.com/pion/logging"
)

const scopePrefix = "videoframe/"

var loggerFactory logging.LoggerFactory = logging.NewDefaultLoggerFactory()

// NewLogger returns a logger scoped under "videoframe/<scope>".
func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scopePrefix + scope)
}

// SetLoggerFactory replaces the factory used by subsequent NewLogger calls.
// Loggers created earlier keep writing to their original destination.
func SetLoggerFactory(f logging.LoggerFactory) {
	if f == nil {
		f = logging.NewDefaultLoggerFactory()
	}
	loggerFactory = f
}
