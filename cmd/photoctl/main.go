// Command photoctl runs the photo album workflows from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/markdave123-py/PhotoAlbum/internal/config"
	"github.com/markdave123-py/PhotoAlbum/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	l := logger.NewWithWriter("photoctl", cfg.LogLevel, os.Stderr)

	os.Exit(run(ctx, cfg, l, os.Args[1:], os.Stdout, os.Stderr))
}
