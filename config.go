package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mohamadafzal06/todokv/internal/kv"
	"github.com/mohamadafzal06/todokv/internal/todo"
	"github.com/mohamadafzal06/todokv/internal/txlog"
)

const (
	backendMemory = "memory"
	backendRedis  = "redis"

	txlogNone     = "none"
	txlogFile     = "file"
	txlogPostgres = "postgres"
)

type config struct {
	addr string

	backend       string
	redisAddr     string
	redisPassword string
	redisDB       int
	namespace     string

	txlog     string
	txlogFile string
	postgres  txlog.PostgresDBConfig

	listConcurrency int
	shutdownTimeout time.Duration
}

// loadConfig reads flags from args. Every flag defaults to its TODOKV_*
// environment variable when set.
func loadConfig(args []string) (config, error) {
	var cfg config

	redisDB, err := envInt("TODOKV_REDIS_DB", 0)
	if err != nil {
		return cfg, err
	}
	fanout, err := envInt("TODOKV_LIST_CONCURRENCY", todo.DefaultFanout)
	if err != nil {
		return cfg, err
	}
	shutdown, err := envDuration("TODOKV_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("todokv", flag.ContinueOnError)
	fs.StringVar(&cfg.addr, "addr", envString("TODOKV_ADDR", ":8888"), "HTTP listen address")
	fs.StringVar(&cfg.backend, "backend", envString("TODOKV_BACKEND", backendMemory), "key-value backend: memory or redis")
	fs.StringVar(&cfg.redisAddr, "redis-addr", envString("TODOKV_REDIS_ADDR", "localhost:6379"), "redis address")
	fs.StringVar(&cfg.redisPassword, "redis-password", envString("TODOKV_REDIS_PASSWORD", ""), "redis password")
	fs.IntVar(&cfg.redisDB, "redis-db", redisDB, "redis database number")
	fs.StringVar(&cfg.namespace, "namespace", envString("TODOKV_NAMESPACE", kv.DefaultNamespace), "redis key prefix")
	fs.StringVar(&cfg.txlog, "txlog", envString("TODOKV_TXLOG", txlogNone), "transaction log: none, file or postgres")
	fs.StringVar(&cfg.txlogFile, "txlog-file", envString("TODOKV_TXLOG_FILE", "transaction.log"), "transaction log file")
	fs.StringVar(&cfg.postgres.Host, "pg-host", envString("TODOKV_PG_HOST", "localhost"), "postgres host")
	fs.StringVar(&cfg.postgres.DBName, "pg-dbname", envString("TODOKV_PG_DBNAME", "todokv"), "postgres database")
	fs.StringVar(&cfg.postgres.User, "pg-user", envString("TODOKV_PG_USER", "postgres"), "postgres user")
	fs.StringVar(&cfg.postgres.Password, "pg-password", envString("TODOKV_PG_PASSWORD", ""), "postgres password")
	fs.IntVar(&cfg.listConcurrency, "list-concurrency", fanout, "concurrent fetches when listing todos")
	fs.DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", shutdown, "graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.backend = strings.ToLower(strings.TrimSpace(cfg.backend))
	cfg.txlog = strings.ToLower(strings.TrimSpace(cfg.txlog))

	switch cfg.backend {
	case backendMemory, backendRedis:
	default:
		return cfg, fmt.Errorf("unsupported backend %q", cfg.backend)
	}
	switch cfg.txlog {
	case txlogNone, txlogFile, txlogPostgres:
	default:
		return cfg, fmt.Errorf("unsupported txlog %q", cfg.txlog)
	}
	if cfg.listConcurrency < 1 {
		return cfg, fmt.Errorf("list-concurrency must be positive, got %d", cfg.listConcurrency)
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
