package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog.Logger. Production defaults to JSON
// output; development keeps the text handler for readable local logs.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}

	var handler slog.Handler
	if cfg != nil && (cfg.LogFormat == "json" || (cfg.IsProduction() && cfg.LogFormat == "")) {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
