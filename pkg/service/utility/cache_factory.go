/*
 * @Description: 缓存工厂，自动选择 Redis 或内存缓存
 */
package utility

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// NewCacheServiceWithFallback 创建带有自动降级功能的缓存服务
// 如果 redisClient 为 nil 或不可用，自动降级到内存缓存
func NewCacheServiceWithFallback(redisClient *redis.Client) CacheService {
	if redisClient == nil {
		log.Println("🔄 使用内存缓存服务（Memory Cache）")
		return NewMemoryCacheService()
	}

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️  Redis 不可用: %v，降级到内存缓存", err)
		return NewMemoryCacheService()
	}

	log.Println("✅ 使用 Redis 缓存服务")
	return NewCacheService(redisClient)
}

// StopCacheService 停止内存缓存的后台清理任务，Redis 实现无需处理
func StopCacheService(svc CacheService) {
	if m, ok := svc.(*MemoryCacheService); ok {
		m.Stop()
	}
}
