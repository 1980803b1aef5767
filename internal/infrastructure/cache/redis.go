package cache

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache defines the interface for caching pool prices
type Cache interface {
	// GetPrice returns nil on a cache miss
	GetPrice(ctx context.Context, key string) (*big.Int, error)
	SetPrice(ctx context.Context, key string, price *big.Int, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCache implements Cache using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetPrice retrieves a cached price
func (c *RedisCache) GetPrice(ctx context.Context, key string) (*big.Int, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	price, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt cached price %q at %s", raw, key)
	}
	return price, nil
}

// SetPrice caches a price with TTL
func (c *RedisCache) SetPrice(ctx context.Context, key string, price *big.Int, ttl time.Duration) error {
	return c.client.Set(ctx, key, price.String(), ttl).Err()
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// PriceCacheKey generates a cache key for the price of a token on a chain
func PriceCacheKey(chainID uint64, token string) string {
	return fmt.Sprintf("simpledex:price:%d:%s", chainID, token)
}

// InMemoryCache implements Cache using in-memory storage (for testing/development)
type InMemoryCache struct {
	mu     sync.Mutex
	prices map[string]*cachedPrice
	now    func() time.Time
}

type cachedPrice struct {
	price     *big.Int
	expiresAt time.Time
}

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		prices: make(map[string]*cachedPrice),
		now:    time.Now,
	}
}

func (c *InMemoryCache) GetPrice(ctx context.Context, key string) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.prices[key]; ok {
		if c.now().Before(cached.expiresAt) {
			return new(big.Int).Set(cached.price), nil
		}
		delete(c.prices, key)
	}
	return nil, nil
}

func (c *InMemoryCache) SetPrice(ctx context.Context, key string, price *big.Int, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prices[key] = &cachedPrice{
		price:     new(big.Int).Set(price),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.prices, key)
	return nil
}
