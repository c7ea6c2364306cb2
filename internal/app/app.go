package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	carthandler "shopapi/internal/handlers/cart"
	producthandler "shopapi/internal/handlers/product"
	"shopapi/internal/routes"
	cartservice "shopapi/internal/service/cart"
	productservice "shopapi/internal/service/product"
)

type Storage interface {
	productservice.ProductStorage
	cartservice.CartStorage
}

type App struct {
	log     *slog.Logger
	port    int
	storage Storage
	server  *http.Server
}

func New(log *slog.Logger, port int, storage Storage) *App {
	a := &App{
		log:     log,
		port:    port,
		storage: storage,
	}

	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a
}

// Handler wires services and handlers over the storage.
func (a *App) Handler() http.Handler {
	productService := productservice.New(a.log, a.storage)
	cartService := cartservice.New(a.log, a.storage, productService)

	mux := http.NewServeMux()
	routes.New(
		producthandler.New(a.log, productService),
		carthandler.New(a.log, cartService),
	).Register(mux)

	return mux
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "app.Run"

	a.log.Info("Starting HTTP server", "port", a.port)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop(ctx context.Context) error {
	const op = "app.Stop"

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
