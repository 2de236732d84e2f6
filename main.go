package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mohamadafzal06/todokv/internal/api"
	"github.com/mohamadafzal06/todokv/internal/todo"
)

func main() {
	logger := log.New(os.Stderr, "todokv: ", log.LstdFlags)

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal(err)
	}
}

func run(ctx context.Context, cfg config, logger *log.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Printf("close store: %v", err)
		}
	}()

	svc := todo.NewService(store,
		todo.WithLogger(logger),
		todo.WithFanout(cfg.listConcurrency))

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           api.NewRouter(api.NewHandler(svc, logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s (backend=%s, txlog=%s)", cfg.addr, cfg.backend, cfg.txlog)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
