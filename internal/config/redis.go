package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// Redis holds the client backing the location gate's fix store.
	Redis *redis.Client
)

// InitRedis connects the redis client used for position fixes.
func InitRedis() {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis at %s: %v", addr, err)
	}
}

// LocationMaxAge returns how old a position fix may be before the gate
// refuses it.
func LocationMaxAge() time.Duration {
	return time.Duration(getEnvInt("LOCATION_MAX_AGE_SECONDS", 120)) * time.Second
}

// StrictStopOrder reports whether arrival order is server-enforced.
func StrictStopOrder() bool {
	return getEnvBool("ROUTE_STRICT_STOP_ORDER", false)
}
