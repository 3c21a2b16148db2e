// Command fileserver serves a content tree over a minimal HTTP/1.1
// subset. It takes exactly one argument, the content directory, whose
// public/ subdirectory becomes the document root.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/FilipObrijan/LAB2-PR/internal/config"
	"github.com/FilipObrijan/LAB2-PR/internal/content"
	"github.com/FilipObrijan/LAB2-PR/internal/hits"
	"github.com/FilipObrijan/LAB2-PR/internal/obs"
	"github.com/FilipObrijan/LAB2-PR/internal/ratelimit"
	"github.com/FilipObrijan/LAB2-PR/internal/server"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: fileserver <directory>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	root, err := content.NewRoot(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: directory %q does not exist or is not a directory.\n", os.Args[1])
		os.Exit(1)
	}

	logger := obs.StdLogger{L: log.New(os.Stdout, "", log.LstdFlags), Min: cfg.LogLevel}

	store, closeStore, err := initStore(cfg, logger)
	if err != nil {
		log.Fatalf("failed to init rate limit store: %v", err)
	}
	defer closeStore()

	limiter := ratelimit.New(store, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
	counter := hits.NewCounter(cfg.BumpDelay)
	srv := server.New(cfg, root, limiter, counter, logger, obs.NopMeter{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.Printf("Serving directory: %s", root.ContentDir())
	log.Printf("Server running on: http://%s", cfg.ServerAddress())
	log.Printf("Press Ctrl+C to stop")

	select {
	case <-ctx.Done():
		// Abrupt shutdown: close the listener and leave without waiting
		// for in-flight handlers.
		log.Println("shutting down server")
		_ = srv.Shutdown()
	case err := <-errCh:
		log.Fatalf("server error: %v", err)
	}
}

func initStore(cfg *config.Config, logger obs.Logger) (ratelimit.Store, func(), error) {
	switch cfg.Storage.Type {
	case "memory":
		return ratelimit.NewMemoryStore(), func() {}, nil
	case "redis":
		store, err := ratelimit.NewRedisStore(ratelimit.RedisConfig{
			Addr:     cfg.RedisAddress(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Logf(obs.Warn, "failed to close redis store: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}
