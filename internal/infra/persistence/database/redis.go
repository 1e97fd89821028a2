package database

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/anzhiyu-c/myblog/pkg/config"
)

// NewRedisClient 接收配置并返回 Redis 客户端或 nil。
// Redis 未配置或连接失败时返回 nil，由上层降级到内存存储。
func NewRedisClient(ctx context.Context, cfg *config.Config) *redis.Client {
	redisAddr := cfg.GetString(config.KeyRedisAddr)
	if redisAddr == "" {
		log.Println("⚠️  Redis 地址未配置，将使用内存缓存")
		return nil
	}

	redisDB := cfg.GetInt(config.KeyRedisDB)
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.GetString(config.KeyRedisPassword),
		DB:       redisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  连接 Redis (%s, DB %d) 失败: %v，将使用内存缓存", redisAddr, redisDB, err)
		rdb.Close()
		return nil
	}

	log.Printf("✅ 成功连接到 Redis (%s, DB %d)", redisAddr, redisDB)
	return rdb
}
