package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"admindash-sync/internal/config"
	"admindash-sync/internal/stubapi"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[stubapi] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	store := stubapi.NewStore()
	store.Seed()

	secret := []byte(os.Getenv("STUB_JWT_SECRET"))
	if len(secret) == 0 {
		secret = []byte("stubapi-dev-secret")
	}

	srv := stubapi.New(cfg.StubHTTPAddr, logger, store, secret)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting stub api on %s", cfg.StubHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
