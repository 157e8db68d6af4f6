package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/pricing"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds read-side copies only. A miss or an error always falls
// back to the database.
type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
	quoteTTL   time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL, quoteTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL, quoteTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, flightsTTL, quoteTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL, quoteTTL: quoteTTL}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	var flights []domain.Flight
	found, err := c.get(ctx, flightsKey(), &flights)
	if err != nil || !found {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	return c.set(ctx, flightsKey(), flights, c.flightsTTL)
}

// InvalidateFlights drops the cached flight list after a capacity or price change.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

func (c *RedisCache) GetQuote(ctx context.Context, flightID int64) (*pricing.Quote, error) {
	var q pricing.Quote
	found, err := c.get(ctx, quoteKey(flightID), &q)
	if err != nil || !found {
		return nil, err
	}
	return &q, nil
}

func (c *RedisCache) SetQuote(ctx context.Context, flightID int64, quote pricing.Quote) error {
	return c.set(ctx, quoteKey(flightID), quote, c.quoteTTL)
}

func (c *RedisCache) InvalidateQuote(ctx context.Context, flightID int64) error {
	return c.client.Del(ctx, quoteKey(flightID)).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func quoteKey(flightID int64) string {
	return fmt.Sprintf("cache:quote:flight:%d", flightID)
}
