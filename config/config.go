package config

import (
	"context"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global SQLite database connection.
var DB *gorm.DB

// Rdb is the global Redis client. It stays nil when Redis is unreachable;
// callers must treat a nil client as "no cache".
var Rdb *redis.Client

// Ctx is the context for Redis operations.
var Ctx = context.Background()

func InitDB() {
	path := os.Getenv("FINANCE_DB")
	if path == "" {
		path = "finance.db"
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to the database:", err)
	}
}

// InitRedis initializes the Redis connection. A failed connection is not
// fatal: the app degrades to uncached market-data lookups.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := client.Ping(Ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v. Proceeding without cache.", err)
		return
	}
	Rdb = client
}
