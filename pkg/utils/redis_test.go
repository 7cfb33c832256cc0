package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func TestTryLock_Exclusive(t *testing.T) {
	rdb, _ := newTestRedis(t)
	ctx := context.Background()

	ok, err := TryLock(ctx, rdb, "k", "a", time.Second)
	if err != nil || !ok {
		t.Fatalf("expected first lock, got ok=%v err=%v", ok, err)
	}
	ok, err = TryLock(ctx, rdb, "k", "b", time.Second)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatalf("expected second lock to be rejected")
	}
}

func TestUnlock_OnlyOwnerReleases(t *testing.T) {
	rdb, mr := newTestRedis(t)
	ctx := context.Background()

	if ok, err := TryLock(ctx, rdb, "k", "a", time.Second); err != nil || !ok {
		t.Fatalf("lock: ok=%v err=%v", ok, err)
	}
	if released, err := Unlock(ctx, rdb, "k", "b"); err != nil || released {
		t.Fatalf("expected foreign unlock to be a no-op, got released=%v err=%v", released, err)
	}
	if !mr.Exists("k") {
		t.Fatalf("expected lock to survive foreign unlock")
	}
	if released, err := Unlock(ctx, rdb, "k", "a"); err != nil || !released {
		t.Fatalf("expected owner unlock, got released=%v err=%v", released, err)
	}
	if mr.Exists("k") {
		t.Fatalf("expected lock key removed")
	}
}

func TestTryLock_ExpiresAfterTTL(t *testing.T) {
	rdb, mr := newTestRedis(t)
	ctx := context.Background()

	if ok, _ := TryLock(ctx, rdb, "k", "a", time.Second); !ok {
		t.Fatalf("expected lock")
	}
	mr.FastForward(2 * time.Second)
	if ok, err := TryLock(ctx, rdb, "k", "b", time.Second); err != nil || !ok {
		t.Fatalf("expected lock after ttl, got ok=%v err=%v", ok, err)
	}
}

func TestTryLock_ValidatesInput(t *testing.T) {
	rdb, _ := newTestRedis(t)
	if _, err := TryLock(context.Background(), rdb, "", "a", time.Second); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if _, err := TryLock(context.Background(), rdb, "k", "a", 0); err == nil {
		t.Fatalf("expected error for zero ttl")
	}
}
