// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texbridge

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/wgpu/hal"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for texbridge and all its sub-packages.
// By default, texbridge produces no log output.
//
// The logger is also handed to the wgpu HAL so that device and surface
// diagnostics from the platform layer end up in the same place.
// Pass nil to restore the default silent behavior.
//
// Log levels used by texbridge:
//   - [slog.LevelDebug]: image id allocation, lock routing, buffer swaps
//   - [slog.LevelInfo]: lifecycle events (manager created/destroyed, adapter selected)
//   - [slog.LevelWarn]: swallowed teardown errors, failed texture uploads
//
// Example:
//
//	texbridge.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	hal.SetLogger(l)
}

// Logger returns the current logger used by texbridge.
// Sub-packages call this to share the same logger configuration.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
