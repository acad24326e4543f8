package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travel-booking/internal/data/entity"
	"travel-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// PackageCache is a best-effort read-through cache for catalog packages.
// Callers fall back to Postgres on any error, including misses.
type PackageCache interface {
	Get(ctx context.Context, id int64) (*entity.TravelPackage, error)
	Set(ctx context.Context, pkg *entity.TravelPackage) error
	Delete(ctx context.Context, id int64) error
}

type packageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPackageCache(config utils.RedisConfig) (PackageCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &packageCache{
		client: client,
		ttl:    time.Duration(config.PackageCacheTTL) * time.Minute,
	}, nil
}

func packageKey(id int64) string {
	return fmt.Sprintf("package:%d", id)
}

func (c *packageCache) Get(ctx context.Context, id int64) (*entity.TravelPackage, error) {
	data, err := c.client.Get(ctx, packageKey(id)).Result()
	if err != nil {
		return nil, err
	}

	var pkg entity.TravelPackage
	if err := json.Unmarshal([]byte(data), &pkg); err != nil {
		return nil, err
	}

	return &pkg, nil
}

func (c *packageCache) Set(ctx context.Context, pkg *entity.TravelPackage) error {
	data, err := json.Marshal(pkg)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, packageKey(pkg.ID), data, c.ttl).Err()
}

func (c *packageCache) Delete(ctx context.Context, id int64) error {
	return c.client.Del(ctx, packageKey(id)).Err()
}
