package main

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.addr != ":8888" || cfg.backend != backendMemory || cfg.txlog != txlogNone {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.namespace != "Todo_KV:" || cfg.listConcurrency != 16 || cfg.shutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigEnvAndFlags(t *testing.T) {
	t.Setenv("TODOKV_BACKEND", "Redis")
	t.Setenv("TODOKV_REDIS_DB", "3")
	t.Setenv("TODOKV_LIST_CONCURRENCY", "4")
	t.Setenv("TODOKV_ADDR", ":9000")

	cfg, err := loadConfig([]string{"-addr", ":9100", "-txlog", "file", "-txlog-file", "/tmp/todo.log"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.backend != backendRedis || cfg.redisDB != 3 || cfg.listConcurrency != 4 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.addr != ":9100" {
		t.Fatalf("flag should override env, got addr %q", cfg.addr)
	}
	if cfg.txlog != txlogFile || cfg.txlogFile != "/tmp/todo.log" {
		t.Fatalf("txlog flags not applied: %+v", cfg)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := map[string][]string{
		"backend":     {"-backend", "dynamo"},
		"txlog":       {"-txlog", "kafka"},
		"concurrency": {"-list-concurrency", "0"},
		"unknown":     {"-nope"},
	}
	for name, args := range tests {
		if _, err := loadConfig(args); err == nil {
			t.Errorf("%s: expected error for %v", name, args)
		}
	}

	t.Setenv("TODOKV_REDIS_DB", "one")
	if _, err := loadConfig(nil); err == nil {
		t.Fatalf("expected error for non-numeric TODOKV_REDIS_DB")
	}
}
