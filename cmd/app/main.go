package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopapi/internal/app"
	"shopapi/internal/database/sqlstore"
	"shopapi/pkg/config"
	"shopapi/pkg/lib/logger"
	"shopapi/pkg/lib/logger/sl"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.SetupLogger(cfg.HTTP.Env)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	storage, err := sqlstore.New(ctx, log, cfg.Storage.Driver, cfg.ConnectionString())
	cancel()
	if err != nil {
		panic(err)
	}

	application := app.New(
		log,
		cfg.HTTP.Port,
		storage,
	)

	go func() {
		if err := application.Run(); err != nil {
			log.Error("Application failed to start", sl.Err(err))
			panic(err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGTERM, syscall.SIGINT)
	<-done

	log.Info("Stopping HTTP server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := application.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server", sl.Err(err))
	}

	log.Info("Closing database")
	if err := storage.Close(); err != nil {
		log.Error("Failed to close database", sl.Err(err))
	}
}
