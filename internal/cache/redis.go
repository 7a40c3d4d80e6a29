package cache

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// Client is the process-wide Redis connection backing the market hot cache.
var Client *redis.Client

// InitRedis dials REDIS_URL, defaulting to a local instance. Unlike
// Postgres, Redis is not optional: every tick reads through the cache.
func InitRedis(ctx context.Context) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	Client = redis.NewClient(&redis.Options{Addr: addr})
	if err := Client.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	log.Println("Redis cache ready")
}
