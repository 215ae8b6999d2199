package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/redis/go-redis/v9"
)

// PublicTreeKey es la clave del árbol público serializado.
const PublicTreeKey = "menu:public:tree"

// Client es el subconjunto de redis.Cmdable que usa la cache.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisMenuCache guarda el árbol público en Redis con TTL.
type RedisMenuCache struct {
	client Client
	ttl    time.Duration
}

// NewRedisMenuCache crea la cache. ttl 0 guarda sin expiración.
func NewRedisMenuCache(client Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{client: client, ttl: ttl}
}

// NewClient crea un cliente a partir de una URL redis:// o rediss://.
func NewClient(rawURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(options), nil
}

// GetTree lee el árbol. redis.Nil es un miss, no un error.
func (cache *RedisMenuCache) GetTree(ctx context.Context) ([]menu.CategoryNode, bool, error) {
	data, err := cache.client.Get(ctx, PublicTreeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var tree []menu.CategoryNode
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, false, fmt.Errorf("decode cached menu: %w", err)
	}
	return tree, true, nil
}

// SetTree guarda el árbol serializado.
func (cache *RedisMenuCache) SetTree(ctx context.Context, tree []menu.CategoryNode) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return cache.client.Set(ctx, PublicTreeKey, data, cache.ttl).Err()
}

// Invalidate borra el árbol; la próxima lectura lo reconstruye.
func (cache *RedisMenuCache) Invalidate(ctx context.Context) error {
	return cache.client.Del(ctx, PublicTreeKey).Err()
}

// Ping verifica la conexión; lo usa /ready.
func (cache *RedisMenuCache) Ping(ctx context.Context) error {
	return cache.client.Ping(ctx).Err()
}

// Noop es la cache deshabilitada: siempre miss.
type Noop struct{}

func (Noop) GetTree(context.Context) ([]menu.CategoryNode, bool, error) { return nil, false, nil }
func (Noop) SetTree(context.Context, []menu.CategoryNode) error         { return nil }
func (Noop) Invalidate(context.Context) error                           { return nil }
