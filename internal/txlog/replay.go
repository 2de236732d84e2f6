package txlog

import (
	"context"
	"fmt"
	"sync"

	"github.com/mohamadafzal06/todokv/internal/kv"
)

// Replay applies every recorded event to store in sequence order and returns
// how many were applied. It must run before l.Run.
func Replay(ctx context.Context, l TransactionLogger, store kv.Store) (int, error) {
	return readAll(l, func(e Event) error {
		switch e.EventType {
		case EventDelete:
			return store.Delete(ctx, e.Key)
		case EventPut:
			return store.Put(ctx, e.Key, e.Value)
		default:
			return fmt.Errorf("event %d: unknown event type %d", e.Sequence, e.EventType)
		}
	})
}

// Skip reads the whole log without applying it, so that a logger whose
// backing store is authoritative elsewhere continues the existing sequence.
// It must run before l.Run and returns the number of events read.
func Skip(l TransactionLogger) (int, error) {
	return readAll(l, func(Event) error { return nil })
}

func readAll(l TransactionLogger, apply func(Event) error) (int, error) {
	events, errs := l.ReadEvents()

	var (
		applied int
		err     error
	)
	for e := range events {
		// Keep draining after a failure so the reader goroutine can exit.
		if err != nil {
			continue
		}
		if err = apply(e); err == nil {
			applied++
		}
	}
	if err != nil {
		return applied, fmt.Errorf("replay: %w", err)
	}

	if err := <-errs; err != nil {
		return applied, fmt.Errorf("replay: %w", err)
	}
	return applied, nil
}

// loggedStore holds mu across each write and its log entry, so the log
// records mutations in the order the store applied them.
type loggedStore struct {
	kv.Store
	logger TransactionLogger
	mu     sync.Mutex
}

// LoggedStore records every successful Put and Delete on store with l.
// l must already be running.
func LoggedStore(store kv.Store, l TransactionLogger) kv.Store {
	return &loggedStore{Store: store, logger: l}
}

func (s *loggedStore) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Store.Put(ctx, key, value); err != nil {
		return err
	}
	s.logger.WritePut(key, value)
	return nil
}

func (s *loggedStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Store.Delete(ctx, key); err != nil {
		return err
	}
	s.logger.WriteDelete(key)
	return nil
}
