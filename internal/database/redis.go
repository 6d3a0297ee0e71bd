package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TrueSergey/websitewishlist/internal/config"
)

const redisConnectTimeout = 5 * time.Second

var (
	newRedisClient = redis.NewClient
	redisPing      = func(ctx context.Context, client *redis.Client) error { return client.Ping(ctx).Err() }
)

// RedisDB holds the client shared by the unread-count cache and the rate limiter.
type RedisDB struct {
	Client *redis.Client
	addr   string
}

// redisOptions maps the config onto client options. Pool sizes that are
// unset or out of range fall back to 10 connections with 3 kept idle.
func redisOptions(cfg config.RedisConfig) *redis.Options {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	minIdle := cfg.MinIdleConns
	if minIdle < 0 || minIdle > poolSize {
		minIdle = min(3, poolSize)
	}

	return &redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisConnectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     poolSize,
		MinIdleConns: minIdle,
	}
}

// NewRedisDB connects and pings once; the client is closed again if the
// server cannot be reached.
func NewRedisDB(ctx context.Context, cfg config.RedisConfig) (*RedisDB, error) {
	opts := redisOptions(cfg)
	client := newRedisClient(opts)

	ctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()

	if err := redisPing(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", opts.Addr, err)
	}

	return &RedisDB{Client: client, addr: opts.Addr}, nil
}

func (r *RedisDB) Addr() string {
	return r.addr
}

func (r *RedisDB) Close() error {
	if r.Client == nil {
		return nil
	}
	if err := r.Client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

func (r *RedisDB) Health(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	if err := redisPing(ctx, r.Client); err != nil {
		return fmt.Errorf("redis %s: %w", r.addr, err)
	}
	return nil
}
