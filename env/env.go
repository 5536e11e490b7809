//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package env implements the global environment for the commitment
// protocols.
package env

import (
	"crypto/rand"
	"io"
	"log"
)

// Config defines the global configuration for the commitment
// protocols. Config must not be modified after being passed to any
// module. It is safe for concurrent use by multiple protocol
// instances and their clones as they do not modify it.
type Config struct {
	// Rand is the source of entropy for OT, challenges and clone
	// seeds. If unset, crypto/rand.Reader is used.
	Rand io.Reader

	// Verbose enables protocol tracing with Debugf.
	Verbose bool

	// Logger is the destination of the trace and diagnostic
	// messages. If unset, the standard logger is used.
	Logger *log.Logger
}

// GetRandom returns the source of entropy for OT, challenges, and
// other cryptography operations.
func (config *Config) GetRandom() io.Reader {
	if config != nil && config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetLogger returns the logger for diagnostic messages.
func (config *Config) GetLogger() *log.Logger {
	if config != nil && config.Logger != nil {
		return config.Logger
	}
	return log.Default()
}

// Debugf logs a trace message if verbose output is enabled.
func (config *Config) Debugf(format string, a ...interface{}) {
	if config == nil || !config.Verbose {
		return
	}
	config.GetLogger().Printf(format, a...)
}
