// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

// Package diagnostics wraps zap for ort's internal debug/trace logging:
// TLS handshake timing, HTTP request/response framing, and per-request
// correlation. It never writes to stdout, which the CLI reserves for the
// model's output. Grounded on
// reclaimprotocol-reclaim-tee/shared/logger.go.
package diagnostics

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config selects the logger's verbosity and destination.
type Config struct {
	// Verbose enables debug-level logging to stderr. Without it only
	// warnings and errors are logged.
	Verbose bool
}

// Logger wraps zap.Logger with ort-specific contextual helpers.
type Logger struct {
	*zap.Logger
}

// New builds a Logger writing structured logs to stderr, console-encoded
// in verbose mode and JSON otherwise (JSON is cheap to grep when ort is
// run non-interactively and its stderr is redirected to a file).
func New(cfg Config) (*Logger, error) {
	var zapCfg zap.Config
	if cfg.Verbose {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	zapLogger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: zapLogger}, nil
}

// NewRequestID returns a fresh correlation ID for one prompt request, so
// its handshake, HTTP, and streaming log lines can be grepped together.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequest scopes l to a single prompt request.
func (l *Logger) WithRequest(requestID, model string) *zap.Logger {
	return l.Logger.With(
		zap.String("request_id", requestID),
		zap.String("model", model),
	)
}

// WithConnection scopes l to one TLS connection.
func (l *Logger) WithConnection(remoteAddr string) *zap.Logger {
	return l.Logger.With(zap.String("remote_addr", remoteAddr))
}
