package redis

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/loopspell2/exchange/pkg/errors"
	"github.com/loopspell2/exchange/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type client struct {
	logger  *logger.Logger
	config  *Config
	cmdable redis.Cmdable
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger *logger.Logger, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	var cmdable redis.Cmdable
	if c.config == nil {
		return errors.NewErrorDetails("Redis config is nil", string(errors.RedisConfigError), "connect")
	}

	if len(c.config.Addrs) == 0 {
		return errors.NewErrorDetails("Redis addresses are empty", string(errors.RedisConfigError), "connect")
	}

	if c.config.Mode != Standalone && c.config.Mode != Cluster {
		return errors.NewErrorDetails("Invalid Redis mode", string(errors.RedisConfigError), "connect")
	}

	if c.config.ConnectTimeout <= 0 {
		return errors.NewErrorDetails("Invalid Redis connect timeout", string(errors.RedisConfigError), "connect")
	}
	if c.config.PoolSize <= 0 {
		return errors.NewErrorDetails("Invalid Redis pool size", string(errors.RedisConfigError), "connect")
	}

	switch c.config.Mode {
	case Standalone:
		cmdable = redis.NewClient(&redis.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	case Cluster:
		cmdable = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			MaxIdleConns:    c.config.MaxIdleConns,
			ConnMaxLifetime: c.config.ConnMaxLifetime,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	default:
		return errors.NewErrorDetails("Unsupported Redis mode", string(errors.RedisConnectionError), "connect")
	}

	c.cmdable = cmdable

	return c.cmdable.Ping(ctx).Err()
}

func (c *client) Reconnect(ctx context.Context) bool {
	baseDelay := c.config.MinRetryBackoff
	maxDelay := c.config.MaxRetryBackoff

	for i := 0; i < c.config.ReconnectMaxRetries; i++ {
		backoff := min(baseDelay*time.Duration(math.Pow(2, float64(i))), maxDelay)

		jitter := time.Duration(rand.Intn(1000)) * time.Millisecond
		totalDelay := backoff + jitter

		c.logger.Info("Reconnecting to Redis", logger.Field{
			Key:   "attempt",
			Value: i + 1,
		}, logger.Field{
			Key:   "delay",
			Value: totalDelay,
		})

		select {
		case <-ctx.Done():
			c.logger.Info("Reconnect cancelled", logger.Field{
				Key:   "reason",
				Value: ctx.Err(),
			})
			return false
		case <-time.After(totalDelay):
			connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.Connect(connectCtx)
			cancel()
			if err == nil {
				c.logger.Info("Reconnected to Redis successfully", logger.Field{
					Key:   "attempt",
					Value: i + 1,
				})
				return true
			}
			c.logger.Error(errors.TracerFromError(err), logger.Field{
				Key:   "attempt",
				Value: i + 1,
			})
		}
	}

	return true
}

func (c *client) Disconnect(ctx context.Context) error {
	switch c.config.Mode {
	case Standalone:
		return c.cmdable.(*redis.Client).Close()
	case Cluster:
		return c.cmdable.(*redis.ClusterClient).Close()
	default:
		return errors.NewErrorDetails("Unsupported Redis mode for disconnect", string(errors.RedisDisconnectionError), "disconnect")
	}
}

func (c *client) Ping(ctx context.Context) error {
	if err := c.cmdable.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to ping Redis", string(errors.RedisPingError), "ping")
	}
	return nil
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.cmdable.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.NewErrorDetails("Failed to get value from Redis", string(errors.RedisGetError), "get")
	}
	return val, nil
}

func (c *client) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if err := c.cmdable.Set(ctx, key, value, expiration).Err(); err != nil {
		return errors.NewErrorDetails("Failed to set value in Redis", string(errors.RedisSetError), "set")
	}
	return nil
}

func (c *client) LPush(ctx context.Context, key string, values ...any) (int64, error) {
	pushed, err := c.cmdable.LPush(ctx, key, values...).Result()
	if err != nil {
		return 0, errors.NewErrorDetails("Failed to push values onto list in Redis", string(errors.RedisLPushError), "lpush")
	}
	return pushed, nil
}

func (c *client) BRPop(ctx context.Context, timeout time.Duration, keys ...string) ([]string, error) {
	vals, err := c.cmdable.BRPop(ctx, timeout, keys...).Result()
	if err == redis.Nil {
		return nil, nil // Nothing arrived within the timeout
	}
	if err != nil {
		return nil, errors.NewErrorDetails("Failed to pop values from list in Redis", string(errors.RedisBRPopError), "brpop")
	}
	return vals, nil
}

func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	var published int64

	switch c.config.Mode {
	case Standalone:
		published, _ = c.cmdable.(*redis.Client).Publish(ctx, channel, message).Result()
	case Cluster:
		published, _ = c.cmdable.(*redis.ClusterClient).Publish(ctx, channel, message).Result()
	default:
		return 0, errors.NewErrorDetails("Unsupported Redis mode for publish", string(errors.RedisPublishError), "publish")
	}

	return published, nil
}
