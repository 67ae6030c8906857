package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/therealutkarshpriyadarshi/streamview/pkg/models"
)

// Cache keeps recently fetched catalog pages in Redis so quick
// re-navigation does not hit the API again. A nil *Cache is valid and
// behaves as a permanent miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(host string, port int, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// ShowcaseKey is the cache key for a showcase listing.
func ShowcaseKey(showcaseID string) string {
	return fmt.Sprintf("showcase:%s", showcaseID)
}

// SearchKey is the cache key for a search result.
func SearchKey(query string) string {
	return fmt.Sprintf("search:%s", query)
}

// SetPage caches a catalog page under the given key.
func (c *Cache) SetPage(ctx context.Context, key string, page *models.VideoPage) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// GetPage retrieves a catalog page from the cache. A miss returns
// (nil, nil).
func (c *Cache) GetPage(ctx context.Context, key string) (*models.VideoPage, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, fmt.Errorf("failed to get page from cache: %w", err)
	}

	var page models.VideoPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal page: %w", err)
	}
	return &page, nil
}

// Invalidate removes a cached page.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
