package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/kirinyoku/tourdash/internal/repository"
)

// Cache is a thin string store over redis. It satisfies repository.KV and
// adds a stampede-guarded GetOrSetJSON for backend reads.
type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

var _ repository.KV = (*Cache)(nil)

func New(client *redis.Client) *Cache {
	return &Cache{rdb: client}
}

func (c *Cache) GetString(ctx context.Context, key string) (string, bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return s, true, nil
}

func (c *Cache) SetString(
	ctx context.Context,
	key string,
	val string,
	ttl time.Duration,
) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}

// GetJSON decodes the record at key. A record that fails to decode is
// reported as absent, never as an error.
func GetJSON[T any](ctx context.Context, kv repository.KV, key string) (T, bool, error) {
	var zero T

	s, ok, err := kv.GetString(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}

	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return zero, false, nil
	}

	return out, true, nil
}

// SetJSON writes val as one whole JSON record.
func SetJSON(
	ctx context.Context,
	kv repository.KV,
	key string,
	val any,
	ttl time.Duration,
) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return kv.SetString(ctx, key, string(b), ttl)
}

// GetOrSetJSON returns the cached value at key or loads, stores and returns
// it. Concurrent misses for one key share a single loader call. Cache write
// failures are ignored; the loaded value is still returned.
func GetOrSetJSON[T any](
	ctx context.Context,
	c *Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if v, ok, err := GetJSON[T](ctx, c, key); err == nil && ok {
		return v, nil
	}

	vAny, err, _ := c.sf.Do(key, func() (any, error) {
		if v, ok, err := GetJSON[T](ctx, c, key); err == nil && ok {
			return v, nil
		}
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		_ = SetJSON(ctx, c, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	v, ok := vAny.(T)
	if !ok {
		var zero T
		return zero, errors.New("type assertion failed")
	}

	return v, nil
}
