package kv_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mohamadafzal06/todokv/internal/kv"
)

func newRedisStore(t *testing.T, namespace string) (*kv.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return kv.NewRedis(client, namespace), mr
}

func TestStores(t *testing.T) {
	backends := map[string]func(t *testing.T) kv.Store{
		"memory": func(t *testing.T) kv.Store { return kv.NewMemory() },
		"redis": func(t *testing.T) kv.Store {
			s, _ := newRedisStore(t, "")
			return s
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			if _, err := s.Get(ctx, "1"); !errors.Is(err, kv.ErrNoSuchKey) {
				t.Fatalf("Get missing: expected ErrNoSuchKey, got %v", err)
			}

			if err := s.Put(ctx, "1", `{"id":1}`); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := s.Put(ctx, "2", `{"id":2}`); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := s.Put(ctx, "1", `{"id":1,"name":"again"}`); err != nil {
				t.Fatalf("Put overwrite: %v", err)
			}

			got, err := s.Get(ctx, "1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != `{"id":1,"name":"again"}` {
				t.Fatalf("Get returned %q", got)
			}

			keys, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			sort.Strings(keys)
			if len(keys) != 2 || keys[0] != "1" || keys[1] != "2" {
				t.Fatalf("List returned %v", keys)
			}

			if err := s.Delete(ctx, "1"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := s.Delete(ctx, "1"); err != nil {
				t.Fatalf("Delete twice: %v", err)
			}
			if _, err := s.Get(ctx, "1"); !errors.Is(err, kv.ErrNoSuchKey) {
				t.Fatalf("Get after delete: expected ErrNoSuchKey, got %v", err)
			}
		})
	}
}

func TestMemoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := kv.NewMemory()
	if err := s.Put(ctx, "1", "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRedisNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, "todos:")

	if err := mr.Set("other:9", "ignored"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.Put(ctx, "5", "five"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if !mr.Exists("todos:5") {
		t.Fatalf("expected key stored under namespace, keys=%v", mr.Keys())
	}

	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 1 || keys[0] != "5" {
		t.Fatalf("List returned %v", keys)
	}
}

func TestRedisBackendFailure(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, "")
	mr.Close()

	if _, err := s.Get(ctx, "1"); err == nil || errors.Is(err, kv.ErrNoSuchKey) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if _, err := s.List(ctx); err == nil {
		t.Fatalf("expected List error with server down")
	}
}
