package util

import (
	"io"
	"log/slog"
)

// CloseFileFunc closes c and logs a failure instead of returning it.
// Use it on paths where an earlier error is already being reported.
func CloseFileFunc(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("close failed", "err", err)
	}
}

// CeilDiv returns ceil(a/b) for a >= 0 and b > 0.
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}
