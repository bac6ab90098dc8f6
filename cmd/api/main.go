package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/PhotoAlbum/internal/app"
	"github.com/markdave123-py/PhotoAlbum/internal/config"
	"github.com/markdave123-py/PhotoAlbum/internal/logger"
)

func main() {
	// Handle SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l := logger.New("photoalbum", cfg.LogLevel)
	slog.SetDefault(l)

	application, err := app.NewApp(ctx, cfg, l)
	if err != nil {
		l.Error("startup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(application.Server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return application.Server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		l.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	l.Info("shut down cleanly")
}
