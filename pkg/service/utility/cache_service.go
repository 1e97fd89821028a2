/*
 * @Description: Redis 缓存服务
 */
package utility

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService 定义了键值存储的接口，会话注销、提示消息和验证码答案都保存在这里
type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	// Get 在键不存在时返回空字符串和 nil 错误
	Get(ctx context.Context, key string) (string, error)
	// GetDel 读取并删除键，同一个值只会被读到一次
	GetDel(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, expiration time.Duration) error

	// List 操作
	RPush(ctx context.Context, key string, values ...interface{}) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// PushWithTTL 追加元素并刷新整个列表的过期时间
	PushWithTTL(ctx context.Context, key string, ttl time.Duration, values ...interface{}) error
	// TakeList 取出列表全部元素并删除该列表
	TakeList(ctx context.Context, key string) ([]string, error)
}

// redisCacheService 是 CacheService 的 Redis 实现
type redisCacheService struct {
	client *redis.Client
}

// NewCacheService 通过依赖注入接收 Redis 客户端
func NewCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (s *redisCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *redisCacheService) Get(ctx context.Context, key string) (string, error) {
	return nilAsEmpty(s.client.Get(ctx, key).Result())
}

func (s *redisCacheService) GetDel(ctx context.Context, key string) (string, error) {
	return nilAsEmpty(s.client.GetDel(ctx, key).Result())
}

func (s *redisCacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *redisCacheService) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return s.client.Expire(ctx, key, expiration).Err()
}

func (s *redisCacheService) RPush(ctx context.Context, key string, values ...interface{}) error {
	return s.client.RPush(ctx, key, values...).Err()
}

func (s *redisCacheService) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return s.client.LRange(ctx, key, start, stop).Result()
}

func (s *redisCacheService) PushWithTTL(ctx context.Context, key string, ttl time.Duration, values ...interface{}) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// TakeList 在 MULTI/EXEC 中执行 LRANGE 和 DEL，并发请求不会重复取到同一批元素
func (s *redisCacheService) TakeList(ctx context.Context, key string) ([]string, error) {
	var items *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		items = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items.Val(), nil
}

func nilAsEmpty(val string, err error) (string, error) {
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}
