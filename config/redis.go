package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

var RedisClient *redis.Client

// ConnectRedis establishes connection to Redis
func ConnectRedis() *redis.Client {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     redisPassword,
		DB:           redisDB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Redis connection failed: %v", err)
		log.Println("Bonus job overlap locking will be disabled")
		return nil
	}

	log.Println("Connected to Redis")
	RedisClient = client
	return client
}

// GetRedisClient returns the Redis client instance
func GetRedisClient() *redis.Client {
	return RedisClient
}

// AcquireJobLock takes the named bonus-job lock via SETNX so a manual
// trigger cannot overlap a scheduled pass of the same job. When Redis is
// unavailable the lock degrades to a no-op and the fixed schedule remains
// the only overlap protection.
func AcquireJobLock(ctx context.Context, jobName string, ttl time.Duration) (bool, error) {
	if RedisClient == nil {
		return true, nil
	}
	return RedisClient.SetNX(ctx, "bonusjob:lock:"+jobName, time.Now().Format(time.RFC3339), ttl).Result()
}

// ReleaseJobLock releases a lock taken by AcquireJobLock.
func ReleaseJobLock(ctx context.Context, jobName string) {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Del(ctx, "bonusjob:lock:"+jobName).Err(); err != nil {
		log.Printf("Warning: failed to release job lock %s: %v", jobName, err)
	}
}

// CloseRedis closes the Redis connection
func CloseRedis() {
	if RedisClient != nil {
		RedisClient.Close()
	}
}
