package testutil

import (
	"io"
	"log/slog"
)

// DiscardLogger returns a slog.Logger that discards all output. Prefer
// log.NewNop() when the component takes the internal/log alias; the two
// return the same type.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
