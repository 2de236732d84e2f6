package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/mohamadafzal06/todokv/internal/kv"
	"github.com/mohamadafzal06/todokv/internal/txlog"
)

// openStore builds the configured backend. When a transaction log is
// enabled, the memory backend is rebuilt from it first, other backends only
// read it to continue its sequence, and every later write is recorded. The
// returned close func flushes the log and releases the backend.
func openStore(ctx context.Context, cfg config, logger *log.Logger) (kv.Store, func() error, error) {
	var (
		store   kv.Store
		closers []func() error
	)

	switch cfg.backend {
	case backendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		rs := kv.NewRedis(client, cfg.namespace)
		if err := rs.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.redisAddr, err)
		}
		store = rs
		closers = append(closers, client.Close)
	default:
		store = kv.NewMemory()
	}

	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	tl, err := openTransactionLogger(cfg)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if tl == nil {
		return store, closeAll, nil
	}
	closers = append(closers, tl.Close)

	if cfg.backend == backendMemory {
		n, err := txlog.Replay(ctx, tl, store)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to initialize transaction log: %w", err)
		}
		logger.Printf("replayed %d events from %s transaction log", n, cfg.txlog)
	} else {
		n, err := txlog.Skip(tl)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to initialize transaction log: %w", err)
		}
		logger.Printf("appending to %s transaction log after %d events", cfg.txlog, n)
	}

	tl.Run()
	go func() {
		for err := range tl.Err() {
			logger.Printf("transaction log: %v", err)
		}
	}()

	return txlog.LoggedStore(store, tl), closeAll, nil
}

func openTransactionLogger(cfg config) (txlog.TransactionLogger, error) {
	switch cfg.txlog {
	case txlogFile:
		l, err := txlog.NewFileTransactionLogger(cfg.txlogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create event logger: %w", err)
		}
		return l, nil
	case txlogPostgres:
		l, err := txlog.NewPostgresTransactionLogger(cfg.postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to create event logger: %w", err)
		}
		return l, nil
	default:
		return nil, nil
	}
}
