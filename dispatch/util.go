package dispatch

import (
	"context"
	"log/slog"
)

const (
	// LevelTrace sits below Debug and carries one record per opcode and
	// per emitted routine.
	LevelTrace slog.Level = slog.LevelDebug - 4
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
