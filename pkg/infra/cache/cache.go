package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/FormVault/formvault/pkg/common"
)

const (
	KeyMaterialTTLName = "key_material"

	// KeyMaterialCacheTTL bounds how long a derived key stays in memory;
	// rotation takes effect within this window at the latest.
	KeyMaterialCacheTTL = 15 * time.Minute
)

// Cache wraps the shared redis client plus named in-process TTL maps.
type Cache struct {
	client  *redis.Client
	ttlMaps sync.Map
}

func NewCache(config common.CacheConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})
	return &Cache{client: client}, nil
}

// NewCacheWithClient is used by tests to inject a mock redis client.
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Client() *redis.Client {
	return c.client
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *Cache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// CreateTTLMap creates a named TTL map; creating an existing name returns the
// existing map unchanged.
func (c *Cache) CreateTTLMap(name string, ttl time.Duration) *TTLMap {
	if existing, ok := c.ttlMaps.Load(name); ok {
		if m, ok := existing.(*TTLMap); ok {
			return m
		}
	}
	m := NewTTLMap(ttl)
	c.ttlMaps.Store(name, m)
	return m
}

// GetTTLMap returns a named TTL map, or nil when it was never created.
func (c *Cache) GetTTLMap(name string) *TTLMap {
	if v, ok := c.ttlMaps.Load(name); ok {
		if m, ok := v.(*TTLMap); ok {
			return m
		}
	}
	return nil
}
