package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryUnlockTokenCachePutGetEvict(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryUnlockTokenCache()

	if _, ok := c.Get(ctx, "share-1"); ok {
		t.Fatalf("empty cache should miss")
	}

	c.Put(ctx, "share-1", "token-1", time.Minute)
	token, ok := c.Get(ctx, "share-1")
	if !ok || token != "token-1" {
		t.Fatalf("get want token-1 got %q ok=%v", token, ok)
	}

	// 不同分享令牌互不影响
	if _, ok := c.Get(ctx, "share-2"); ok {
		t.Fatalf("unrelated key should miss")
	}

	c.Evict(ctx, "share-1")
	if _, ok := c.Get(ctx, "share-1"); ok {
		t.Fatalf("evicted key should miss")
	}
}

func TestMemoryUnlockTokenCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryUnlockTokenCache()

	c.Put(ctx, "share-1", "token-1", 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "share-1"); ok {
		t.Fatalf("expired entry should miss")
	}

	// 零 TTL 不写入
	c.Put(ctx, "share-2", "token-2", 0)
	if _, ok := c.Get(ctx, "share-2"); ok {
		t.Fatalf("zero ttl entry should not be stored")
	}
}

func TestNewUnlockTokenCacheFallsBackToMemory(t *testing.T) {
	if Enabled() {
		t.Skip("redis enabled in test environment")
	}
	if _, ok := NewUnlockTokenCache().(*MemoryUnlockTokenCache); !ok {
		t.Fatalf("disabled redis should fall back to memory cache")
	}
}
