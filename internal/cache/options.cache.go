// Package cache lưu tạm danh sách filter (teams, regions, products) trên Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"apre_report/internal/logger"
	"apre_report/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "apre:options"

// OptionsCache lưu danh sách giá trị distinct theo key
type OptionsCache interface {
	// Get trả về danh sách và true nếu có trong cache
	Get(ctx context.Context, key string) ([]string, bool)
	// Set ghi danh sách vào cache. Lỗi chỉ được log.
	Set(ctx context.Context, key string, values []string)
}

// OptionsKey tạo key cache cho field của collection
func OptionsKey(collection, field string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, collection, field)
}

// RedisOptionsCache cài đặt OptionsCache trên Redis, giá trị lưu dạng JSON array
type RedisOptionsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOptionsCache tạo cache với TTL cho mỗi key
func NewRedisOptionsCache(client *redis.Client, ttl time.Duration) *RedisOptionsCache {
	return &RedisOptionsCache{client: client, ttl: ttl}
}

// Get đọc danh sách từ Redis. Lỗi Redis được log và coi như miss.
func (c *RedisOptionsCache) Get(ctx context.Context, key string) ([]string, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.OptionsCache.WithLabelValues(metrics.CacheMiss).Inc()
		} else {
			metrics.OptionsCache.WithLabelValues(metrics.CacheError).Inc()
			logger.WithModule("cache").WithError(err).WithField("key", key).Warn("Không đọc được cache, bỏ qua")
		}
		return nil, false
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		metrics.OptionsCache.WithLabelValues(metrics.CacheError).Inc()
		logger.WithModule("cache").WithError(err).WithField("key", key).Warn("Dữ liệu cache hỏng, bỏ qua")
		return nil, false
	}
	metrics.OptionsCache.WithLabelValues(metrics.CacheHit).Inc()
	return values, true
}

// Set ghi danh sách vào Redis với TTL
func (c *RedisOptionsCache) Set(ctx context.Context, key string, values []string) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.WithModule("cache").WithError(err).WithField("key", key).Warn("Không ghi được cache")
	}
}

// NopCache không lưu gì, dùng khi không cấu hình Redis
type NopCache struct{}

// Get luôn miss
func (NopCache) Get(context.Context, string) ([]string, bool) { return nil, false }

// Set không làm gì
func (NopCache) Set(context.Context, string, []string) {}
