package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/mohamadafzal06/todokv/internal/kv"
)

// DefaultFanout caps concurrent fetches while listing.
const DefaultFanout = 16

type Service struct {
	store  kv.Store
	logger *log.Logger
	fanout int
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFanout sets how many values List fetches at once. Values below one
// are ignored.
func WithFanout(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fanout = n
		}
	}
}

func NewService(store kv.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: log.New(io.Discard, "", 0),
		fanout: DefaultFanout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores t under its id, replacing any existing todo.
func (s *Service) Create(ctx context.Context, t Todo) (Todo, error) {
	if err := s.put(ctx, t); err != nil {
		return Todo{}, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (Todo, error) {
	key := Todo{ID: id}.Key()
	value, err := s.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNoSuchKey) {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, backendError("get todo "+key, err)
	}
	t, err := decode(value)
	if err != nil {
		return Todo{}, backendError("get todo "+key, err)
	}
	return t, nil
}

// List returns every todo whose value could be fetched and decoded, in key
// listing order. Keys that vanish between listing and fetching, or hold
// undecodable values, are logged and skipped.
func (s *Service) List(ctx context.Context) ([]Todo, error) {
	keys, err := s.store.List(ctx)
	if err != nil {
		return nil, backendError("list todos", err)
	}

	found := make([]*Todo, len(keys))
	var g errgroup.Group
	g.SetLimit(s.fanout)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			t, err := s.fetch(ctx, key)
			if err != nil {
				s.logger.Printf("list: skipping key %q: %v", key, err)
				return nil
			}
			found[i] = &t
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, backendError("list todos", err)
	}

	todos := make([]Todo, 0, len(keys))
	for _, t := range found {
		if t != nil {
			todos = append(todos, *t)
		}
	}
	return todos, nil
}

// Update replaces the name and description of an existing todo. Nothing is
// written when the todo does not exist.
func (s *Service) Update(ctx context.Context, id uint64, u TodoUpdate) (Todo, error) {
	t := Todo{ID: id, Name: u.Name, Description: u.Description}

	_, err := s.store.Get(ctx, t.Key())
	if errors.Is(err, kv.ErrNoSuchKey) {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, backendError("get todo "+t.Key(), err)
	}

	if err := s.put(ctx, t); err != nil {
		return Todo{}, err
	}
	return t, nil
}

// Delete removes the todo. Deleting an absent id succeeds.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	key := Todo{ID: id}.Key()
	if err := s.store.Delete(ctx, key); err != nil {
		return backendError("delete todo "+key, err)
	}
	return nil
}

func (s *Service) put(ctx context.Context, t Todo) error {
	value, err := json.Marshal(t)
	if err != nil {
		return &Error{Kind: KindInternal, Msg: "encode todo", Err: err}
	}
	if err := s.store.Put(ctx, t.Key(), string(value)); err != nil {
		return backendError("put todo "+t.Key(), err)
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, key string) (Todo, error) {
	value, err := s.store.Get(ctx, key)
	if err != nil {
		return Todo{}, err
	}
	return decode(value)
}

func decode(value string) (Todo, error) {
	var t Todo
	if err := json.Unmarshal([]byte(value), &t); err != nil {
		return Todo{}, fmt.Errorf("decode todo: %w", err)
	}
	return t, nil
}
