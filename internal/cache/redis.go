package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fallbackTTL bounds entries written without a ttl; redis would keep them forever.
const fallbackTTL = 5 * time.Minute

type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	DefaultTTL time.Duration
}

type Redis struct {
	Client     *redis.Client
	DefaultTTL time.Duration
}

func NewRedis(opts RedisOptions) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = fallbackTTL
	}
	return &Redis{Client: rdb, DefaultTTL: ttl}
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.DefaultTTL
	}
	return r.Client.Set(ctx, key, value, ttl).Err()
}
