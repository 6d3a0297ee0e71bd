package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestNewPostgresDB_ParseError(t *testing.T) {
	origParse := parsePGConfig
	t.Cleanup(func() { parsePGConfig = origParse })
	parsePGConfig = func(dsn string) (*pgxpool.Config, error) {
		return nil, errors.New("bad dsn")
	}

	_, err := NewPostgresDB(context.Background(), "bad", DefaultPoolOptions())
	if err == nil || err.Error() == "" {
		t.Fatal("expected parse error")
	}
}

func TestNewPostgresDB_PingError(t *testing.T) {
	origParse := parsePGConfig
	origNew := newPGPool
	origPing := pingPGPool
	origClose := closePGPool
	t.Cleanup(func() {
		parsePGConfig = origParse
		newPGPool = origNew
		pingPGPool = origPing
		closePGPool = origClose
	})

	cfg := &pgxpool.Config{}
	parsePGConfig = func(dsn string) (*pgxpool.Config, error) {
		return cfg, nil
	}
	pool := &pgxpool.Pool{}
	newPGPool = func(ctx context.Context, config *pgxpool.Config) (*pgxpool.Pool, error) {
		return pool, nil
	}
	pingPGPool = func(ctx context.Context, pool *pgxpool.Pool) error {
		return errors.New("ping failed")
	}
	closePGPool = func(pool *pgxpool.Pool) {}

	_, err := NewPostgresDB(context.Background(), "dsn", DefaultPoolOptions())
	if err == nil || err.Error() == "" {
		t.Fatal("expected ping error")
	}
}

func TestNewPostgresDB_NewPoolError(t *testing.T) {
	origParse := parsePGConfig
	origNew := newPGPool
	t.Cleanup(func() {
		parsePGConfig = origParse
		newPGPool = origNew
	})

	parsePGConfig = func(dsn string) (*pgxpool.Config, error) {
		return &pgxpool.Config{}, nil
	}
	newPGPool = func(ctx context.Context, config *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("new pool error")
	}

	_, err := NewPostgresDB(context.Background(), "dsn", DefaultPoolOptions())
	if err == nil || err.Error() == "" {
		t.Fatal("expected new pool error")
	}
}

func TestNewPostgresDB_SuccessConfigValues(t *testing.T) {
	origParse := parsePGConfig
	origNew := newPGPool
	origPing := pingPGPool
	origClose := closePGPool
	t.Cleanup(func() {
		parsePGConfig = origParse
		newPGPool = origNew
		pingPGPool = origPing
		closePGPool = origClose
	})

	cfg := &pgxpool.Config{}
	parsePGConfig = func(dsn string) (*pgxpool.Config, error) {
		return cfg, nil
	}
	pool := &pgxpool.Pool{}
	newPGPool = func(ctx context.Context, config *pgxpool.Config) (*pgxpool.Pool, error) {
		return pool, nil
	}
	pingPGPool = func(ctx context.Context, pool *pgxpool.Pool) error {
		return nil
	}
	closePGPool = func(pool *pgxpool.Pool) {}

	db, err := NewPostgresDB(context.Background(), "dsn", DefaultPoolOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.Pool != pool {
		t.Fatal("expected returned pool to match stubbed pool")
	}
	if cfg.MaxConns != 25 {
		t.Fatalf("expected MaxConns 25, got %d", cfg.MaxConns)
	}
	if cfg.MinConns != 5 {
		t.Fatalf("expected MinConns 5, got %d", cfg.MinConns)
	}
	if cfg.MaxConnLifetime != time.Hour {
		t.Fatalf("expected MaxConnLifetime 1h, got %v", cfg.MaxConnLifetime)
	}
	if cfg.MaxConnIdleTime != 30*time.Minute {
		t.Fatalf("expected MaxConnIdleTime 30m, got %v", cfg.MaxConnIdleTime)
	}
	if cfg.HealthCheckPeriod != time.Minute {
		t.Fatalf("expected HealthCheckPeriod 1m, got %v", cfg.HealthCheckPeriod)
	}
}

func TestPostgresDB_Close_CallsPoolClose(t *testing.T) {
	origClose := closePGPool
	t.Cleanup(func() { closePGPool = origClose })

	called := false
	closePGPool = func(pool *pgxpool.Pool) {
		called = true
	}

	db := &PostgresDB{Pool: &pgxpool.Pool{}}
	db.Close()

	if !called {
		t.Fatal("expected closePGPool to be called")
	}
}

func TestPostgresDB_Close_NilPool(t *testing.T) {
	db := &PostgresDB{}
	db.Close()
}

func TestNewPostgresDB_CustomOptions(t *testing.T) {
	origParse := parsePGConfig
	origNew := newPGPool
	origPing := pingPGPool
	t.Cleanup(func() {
		parsePGConfig = origParse
		newPGPool = origNew
		pingPGPool = origPing
	})

	cfg := &pgxpool.Config{}
	parsePGConfig = func(dsn string) (*pgxpool.Config, error) {
		return cfg, nil
	}
	newPGPool = func(ctx context.Context, config *pgxpool.Config) (*pgxpool.Pool, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatal("expected connect deadline")
		}
		return &pgxpool.Pool{}, nil
	}
	pingPGPool = func(ctx context.Context, pool *pgxpool.Pool) error {
		return nil
	}

	_, err := NewPostgresDB(context.Background(), "dsn", PoolOptions{MaxConns: 4, MinConns: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxConns != 4 {
		t.Fatalf("expected MaxConns 4, got %d", cfg.MaxConns)
	}
	if cfg.MinConns != 5 {
		t.Fatalf("expected MinConns above MaxConns to fall back to 5, got %d", cfg.MinConns)
	}
}

func TestPostgresDB_HealthNilPool(t *testing.T) {
	db := &PostgresDB{}
	if err := db.Health(context.Background()); err == nil {
		t.Fatal("expected error for nil pool")
	}
}

func TestPostgresDB_HealthUsesPing(t *testing.T) {
	origPing := pingPGPool
	t.Cleanup(func() { pingPGPool = origPing })

	pingErr := errors.New("down")
	pingPGPool = func(ctx context.Context, pool *pgxpool.Pool) error {
		return pingErr
	}

	db := &PostgresDB{Pool: &pgxpool.Pool{}}
	if err := db.Health(context.Background()); !errors.Is(err, pingErr) {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestPostgresDB_StoresShareAdapter(t *testing.T) {
	db := &PostgresDB{Pool: &pgxpool.Pool{}}
	stores := db.Stores()
	if stores.Relationships == nil || stores.Notifications == nil || stores.Users == nil || stores.Gifts == nil {
		t.Fatalf("expected all stores to be wired, got %+v", stores)
	}
}
