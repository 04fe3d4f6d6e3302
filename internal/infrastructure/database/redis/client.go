// Package redis provides the Redis-backed cache used for computed
// comparisons.  Values are JSON encoded; keys carry a configurable prefix so
// multiple deployments can share an instance.
package redis

import (
	"context"
	stderrors "errors"
	"math/rand"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/verdictio/lexcompare/internal/config"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
)

// ErrCacheMiss reports a key that is not present.  Callers that treat a miss
// as a soft condition check for it with errors.Is.
var ErrCacheMiss = stderrors.New("redis: cache miss")

// Client wraps a go-redis client with key prefixing and TTL jitter.
type Client struct {
	rdb        *goredis.Client
	prefix     string
	defaultTTL time.Duration
	log        logging.Logger
}

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "redis connection failed")
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "lexc:"
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	log.Info("connected to Redis", logging.String("addr", cfg.Addr))
	return &Client{rdb: rdb, prefix: prefix, defaultTTL: ttl, log: log.Named("redis")}, nil
}

// NewClientWithRedis wraps an existing go-redis client (for tests).
func NewClientWithRedis(rdb *goredis.Client, prefix string, ttl time.Duration, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if prefix == "" {
		prefix = "lexc:"
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Client{rdb: rdb, prefix: prefix, defaultTTL: ttl, log: log}
}

func (c *Client) key(k string) string { return c.prefix + k }

// Get fetches raw bytes for a key, returning ErrCacheMiss when absent.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err == goredis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "redis get failed")
	}
	return data, nil
}

// Set stores raw bytes with the default TTL.  A small jitter is added so a
// burst of writes does not expire in the same instant.
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	return c.SetWithTTL(ctx, key, value, c.defaultTTL)
}

// SetWithTTL stores raw bytes with an explicit TTL.
func (c *Client) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl > time.Minute {
		ttl += time.Duration(rand.Int63n(int64(ttl / 10)))
	}
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis set failed")
	}
	return nil
}

// Delete removes a key.  Deleting an absent key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis delete failed")
	}
	return nil
}

// HealthCheck verifies connectivity.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis health check failed")
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
