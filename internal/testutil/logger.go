// Package testutil holds helpers shared by package tests.
package testutil

import (
	"io"
	"log/slog"

	"github.com/dmitrijs2005/socialhub/internal/logging"
)

// NoopLogger returns a logger that discards everything.
func NoopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})))
}
