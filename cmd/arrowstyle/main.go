package main

import (
	"log/slog"
	"os"

	"arrowstyle/internal/ui/cli"
)

func main() {
	// Replaced once flags are parsed; covers anything logged before that.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
	os.Exit(cli.Run(os.Args[1:]))
}
