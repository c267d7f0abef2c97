package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// configureLogging installs the default slog logger. Logs always go to w
// (stderr) so that stdout stays reserved for reports and fixed source.
func configureLogging(w io.Writer, verbose bool, format string) error {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
