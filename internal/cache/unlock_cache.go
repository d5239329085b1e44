package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// UnlockTokenCache 解锁令牌缓存抽象
// 键由调用方限定到单个接收端会话，已通过挑战的会话不必每次请求都重答，
// 也不会把解锁结果泄露给其他访客。
type UnlockTokenCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key, unlockToken string, ttl time.Duration)
	Evict(ctx context.Context, key string)
}

// RedisUnlockTokenCache 基于 Redis 的解锁令牌缓存
type RedisUnlockTokenCache struct{}

// NewUnlockTokenCache 按 Redis 可用性选择实现
func NewUnlockTokenCache() UnlockTokenCache {
	if Enabled() {
		return &RedisUnlockTokenCache{}
	}
	return NewMemoryUnlockTokenCache()
}

// Get 读取缓存的解锁令牌
func (c *RedisUnlockTokenCache) Get(ctx context.Context, key string) (string, bool) {
	var token string
	found, err := GetJSON(ctx, unlockKey(key), &token)
	if err != nil || !found || token == "" {
		return "", false
	}
	return token, true
}

// Put 写入解锁令牌
func (c *RedisUnlockTokenCache) Put(ctx context.Context, key, unlockToken string, ttl time.Duration) {
	_ = SetJSON(ctx, unlockKey(key), unlockToken, ttl)
}

// Evict 清除解锁令牌（令牌被服务端拒绝后需要重新验证时）
func (c *RedisUnlockTokenCache) Evict(ctx context.Context, key string) {
	_ = Del(ctx, unlockKey(key))
}

// MemoryUnlockTokenCache 进程内解锁令牌缓存，Redis 关闭时的降级实现
type MemoryUnlockTokenCache struct {
	mu      sync.RWMutex
	entries map[string]memoryUnlockEntry
}

type memoryUnlockEntry struct {
	token     string
	expiresAt time.Time
}

// NewMemoryUnlockTokenCache 创建进程内解锁令牌缓存
func NewMemoryUnlockTokenCache() *MemoryUnlockTokenCache {
	return &MemoryUnlockTokenCache{entries: make(map[string]memoryUnlockEntry)}
}

// Get 读取缓存的解锁令牌
func (c *MemoryUnlockTokenCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.token, true
}

// Put 写入解锁令牌
func (c *MemoryUnlockTokenCache) Put(_ context.Context, key, unlockToken string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = memoryUnlockEntry{
		token:     unlockToken,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// Evict 清除解锁令牌
func (c *MemoryUnlockTokenCache) Evict(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func unlockKey(key string) string {
	return fmt.Sprintf("unlock:%s", key)
}
