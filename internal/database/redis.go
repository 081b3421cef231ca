package database

import (
	"context"
	"fmt"
	"time"

	"apre_report/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient bọc *redis.Client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis tạo Redis client từ cấu hình. Trả về nil, nil khi REDIS_ADDRESS trống (không dùng cache).
func NewRedis(c *config.Configuration) (*RedisClient, error) {
	if c.Redis_Address == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Redis_Address,
		Password:     c.Redis_Password,
		DB:           c.Redis_DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &RedisClient{Client: rdb}, nil
}

// Ping kiểm tra kết nối Redis
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close đóng kết nối Redis
func (c *RedisClient) Close() error {
	if c != nil && c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
