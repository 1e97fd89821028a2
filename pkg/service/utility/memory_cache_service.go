/*
 * @Description: 内存缓存服务实现（用于 Redis 不可用时的降级方案）
 */
package utility

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// cacheItem 缓存项结构，字符串值与列表值二选一
type cacheItem struct {
	value      string
	list       []string
	expiration time.Time
	hasExpiry  bool
}

func (item *cacheItem) isExpired() bool {
	if !item.hasExpiry {
		return false
	}
	return time.Now().After(item.expiration)
}

// MemoryCacheService 是基于内存的缓存服务实现
type MemoryCacheService struct {
	mu     sync.Mutex
	data   map[string]*cacheItem
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// NewMemoryCacheService 创建内存缓存服务实例，并启动过期清理任务
func NewMemoryCacheService() *MemoryCacheService {
	svc := &MemoryCacheService{
		data:   make(map[string]*cacheItem),
		ticker: time.NewTicker(1 * time.Minute),
		done:   make(chan struct{}),
	}
	go svc.cleanupExpired()
	return svc
}

// cleanupExpired 定期清理过期的缓存项
func (s *MemoryCacheService) cleanupExpired() {
	for {
		select {
		case <-s.ticker.C:
			s.mu.Lock()
			for key, item := range s.data {
				if item.isExpired() {
					delete(s.data, key)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Stop 停止清理任务，可重复调用
func (s *MemoryCacheService) Stop() {
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}

// load 返回未过期的缓存项，调用方需持有锁
func (s *MemoryCacheService) load(key string) (*cacheItem, bool) {
	item, ok := s.data[key]
	if !ok {
		return nil, false
	}
	if item.isExpired() {
		delete(s.data, key)
		return nil, false
	}
	return item, true
}

func (s *MemoryCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	item := &cacheItem{
		value:     fmt.Sprintf("%v", value),
		hasExpiry: expiration > 0,
	}
	if expiration > 0 {
		item.expiration = time.Now().Add(expiration)
	}

	s.mu.Lock()
	s.data[key] = item
	s.mu.Unlock()
	return nil
}

func (s *MemoryCacheService) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.load(key)
	if !ok {
		return "", nil
	}
	return item.value, nil
}

func (s *MemoryCacheService) GetDel(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.load(key)
	if !ok {
		return "", nil
	}
	delete(s.data, key)
	return item.value, nil
}

func (s *MemoryCacheService) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.data, key)
	}
	s.mu.Unlock()
	return nil
}

// Expire 设置键的过期时间，键不存在时与 Redis 一样静默忽略
func (s *MemoryCacheService) Expire(ctx context.Context, key string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.load(key)
	if !ok {
		return nil
	}
	item.expiration = time.Now().Add(expiration)
	item.hasExpiry = true
	return nil
}

func (s *MemoryCacheService) RPush(ctx context.Context, key string, values ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.load(key)
	if !ok {
		item = &cacheItem{}
		s.data[key] = item
	}
	for _, v := range values {
		item.list = append(item.list, fmt.Sprintf("%v", v))
	}
	return nil
}

// LRange 与 Redis 语义一致，stop 为 -1 表示到末尾
func (s *MemoryCacheService) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.load(key)
	if !ok {
		return []string{}, nil
	}

	n := int64(len(item.list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return []string{}, nil
	}
	out := make([]string, stop-start+1)
	copy(out, item.list[start:stop+1])
	return out, nil
}

func (s *MemoryCacheService) PushWithTTL(ctx context.Context, key string, ttl time.Duration, values ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.load(key)
	if !ok {
		item = &cacheItem{}
		s.data[key] = item
	}
	for _, v := range values {
		item.list = append(item.list, fmt.Sprintf("%v", v))
	}
	item.expiration = time.Now().Add(ttl)
	item.hasExpiry = true
	return nil
}

func (s *MemoryCacheService) TakeList(ctx context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.load(key)
	if !ok {
		return []string{}, nil
	}
	delete(s.data, key)
	return item.list, nil
}
