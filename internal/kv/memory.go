package kv

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Store. It is meant for development and tests;
// pair it with a transaction log to survive restarts.
type Memory struct {
	m map[string]string
	l sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{
		m: make(map[string]string),
	}
}

func (s *Memory) Put(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.l.Lock()
	defer s.l.Unlock()

	s.m[key] = value
	return nil
}

func (s *Memory) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.l.RLock()
	defer s.l.RUnlock()

	value, ok := s.m[key]
	if !ok {
		return "", ErrNoSuchKey
	}
	return value, nil
}

func (s *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.l.Lock()
	defer s.l.Unlock()

	delete(s.m, key)
	return nil
}

// List returns the keys in lexical order.
func (s *Memory) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.l.RLock()
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	s.l.RUnlock()

	sort.Strings(keys)
	return keys, nil
}
