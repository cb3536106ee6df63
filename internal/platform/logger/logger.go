package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout. The service name is
// attached so aggregated logs from multiple services stay attributable.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler).With(slog.String("service", "certseal"))
}
