// Package cache is a small JSON-over-Redis key/value layer.
//
// All helpers degrade to no-ops when Redis is not connected, so the
// application (and its tests) can run without a cache.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/dukaan/config"
)

var RDB *redis.Client
var Ctx = context.Background()

// Connect opens the Redis client using REDIS_ADDR / REDIS_PASSWORD.
func Connect() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
}

// Get loads the JSON value under key into dest.
// Returns false on miss, unreachable Redis, or decode failure.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(Ctx, key).Result()
	if err != nil {
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false
	}

	return true
}

// Set stores value as JSON under key with the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(Ctx, key, data, ttl).Err()
}

// Forget removes key from the cache.
func Forget(key string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(Ctx, key).Err()
}
