package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStoreIncrementBelow(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()
	const limit = 10

	for want := 1; want <= limit; want++ {
		count, accepted, err := s.IncrementBelow(ctx, "u1", "2024-01-01", limit)
		if err != nil {
			t.Fatalf("increment %d: %v", want, err)
		}
		if !accepted || count != want {
			t.Fatalf("increment %d: accepted=%v count=%d", want, accepted, count)
		}
	}

	count, accepted, err := s.IncrementBelow(ctx, "u1", "2024-01-01", limit)
	if err != nil {
		t.Fatalf("increment at limit: %v", err)
	}
	if accepted || count != limit {
		t.Fatalf("expected rejection at limit, got accepted=%v count=%d", accepted, count)
	}
}

func TestRedisStoreLoad(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	_, ok, err := s.Load(ctx, "u1", "2024-01-01")
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if ok {
		t.Fatalf("expected no record")
	}

	if _, _, err := s.IncrementBelow(ctx, "u1", "2024-01-01", 10); err != nil {
		t.Fatalf("increment: %v", err)
	}

	record, ok, err := s.Load(ctx, "u1", "2024-01-01")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if record.Count != 1 {
		t.Fatalf("expected count 1, got %d", record.Count)
	}
}

func TestRedisStoreDayRolloverUsesFreshKey(t *testing.T) {
	s := NewRedisStore(setupTestRedis(t))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, _, err := s.IncrementBelow(ctx, "u1", "2024-01-01", 10); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	count, accepted, err := s.IncrementBelow(ctx, "u1", "2024-01-02", 10)
	if err != nil {
		t.Fatalf("increment next day: %v", err)
	}
	if !accepted || count != 1 {
		t.Fatalf("expected fresh counter on new day, got accepted=%v count=%d", accepted, count)
	}
}

func TestRedisStoreCorruptedValueReadsAsMissing(t *testing.T) {
	client := setupTestRedis(t)
	s := NewRedisStore(client)
	ctx := context.Background()

	if err := client.Set(ctx, counterKey("u2", "2024-01-01"), "garbage", 0).Err(); err != nil {
		t.Fatalf("seed corrupted value: %v", err)
	}

	_, ok, err := s.Load(ctx, "u2", "2024-01-01")
	if err != nil {
		t.Fatalf("load corrupted: %v", err)
	}
	if ok {
		t.Fatalf("expected corrupted value to read as missing")
	}
}

// The increment path must treat a corrupted value exactly like Load
// does: as no record, overwritten by a fresh counter, never an error.
func TestRedisStoreIncrementOverCorruptedValue(t *testing.T) {
	client := setupTestRedis(t)
	s := NewRedisStore(client)
	ctx := context.Background()

	if err := client.Set(ctx, counterKey("u3", "2024-01-01"), "garbage", 0).Err(); err != nil {
		t.Fatalf("seed corrupted value: %v", err)
	}

	count, accepted, err := s.IncrementBelow(ctx, "u3", "2024-01-01", 10)
	if err != nil {
		t.Fatalf("increment over corrupted value: %v", err)
	}
	if !accepted || count != 1 {
		t.Fatalf("expected fresh counter at 1, got accepted=%v count=%d", accepted, count)
	}

	record, ok, err := s.Load(ctx, "u3", "2024-01-01")
	if err != nil || !ok {
		t.Fatalf("load after overwrite: ok=%v err=%v", ok, err)
	}
	if record.Count != 1 {
		t.Fatalf("expected count 1 after overwrite, got %d", record.Count)
	}
}
