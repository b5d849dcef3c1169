package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/mysterytrips/config"
	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	quoteTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, quoteTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		quoteTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, quoteTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, quoteTTL: quoteTTL}
}

func (c *RedisCache) GetQuote(ctx context.Context, key string) (*domain.FlightPriceQuote, error) {
	data, err := c.client.Get(ctx, quoteKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var quote domain.FlightPriceQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *RedisCache) SetQuote(ctx context.Context, key string, quote domain.FlightPriceQuote) error {
	payload, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, quoteKey(key), payload, c.quoteTTL).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func quoteKey(key string) string {
	return "cache:flight-quote:" + key
}
