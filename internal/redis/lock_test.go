package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestLocker(t *testing.T) (Locker, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSlotLocker(client, 5*time.Second), mr, client
}

func TestWithSlotLock_RunsSectionAndReleases(t *testing.T) {
	locker, mr, _ := newTestLocker(t)

	doctorID := uuid.New()
	slotAt := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	key := "lock:slot:" + doctorID.String() + ":2026-09-01T10:30"

	ran := false
	err := locker.WithSlotLock(context.Background(), doctorID, slotAt, func(ctx context.Context) error {
		ran = true
		if !mr.Exists(key) {
			t.Error("lock key should be held inside the critical section")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatal("critical section did not run")
	}
	if mr.Exists(key) {
		t.Error("lock key should be released afterwards")
	}
}

func TestWithSlotLock_HeldLockIsRejected(t *testing.T) {
	locker, mr, _ := newTestLocker(t)

	doctorID := uuid.New()
	slotAt := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	key := "lock:slot:" + doctorID.String() + ":2026-09-01T10:30"

	// Someone else holds the lock.
	if err := mr.Set(key, "other-token"); err != nil {
		t.Fatalf("seed lock: %v", err)
	}

	err := locker.WithSlotLock(context.Background(), doctorID, slotAt, func(ctx context.Context) error {
		t.Error("critical section must not run while the lock is held")
		return nil
	})
	if !errors.Is(err, ErrLockNotAcquired) {
		t.Fatalf("expected ErrLockNotAcquired, got %v", err)
	}
}

func TestWithSlotLock_DifferentSlotsDoNotContend(t *testing.T) {
	locker, _, _ := newTestLocker(t)

	doctorID := uuid.New()
	outer := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	inner := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)

	err := locker.WithSlotLock(context.Background(), doctorID, outer, func(ctx context.Context) error {
		return locker.WithSlotLock(ctx, doctorID, inner, func(ctx context.Context) error {
			return nil
		})
	})
	if err != nil {
		t.Fatalf("locks for different slots should not block each other: %v", err)
	}
}

func TestWithSlotLock_SectionErrorPropagatesAndReleases(t *testing.T) {
	locker, mr, _ := newTestLocker(t)

	doctorID := uuid.New()
	slotAt := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	key := "lock:slot:" + doctorID.String() + ":2026-09-01T10:30"

	wantErr := errors.New("section failed")
	err := locker.WithSlotLock(context.Background(), doctorID, slotAt, func(ctx context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected section error, got %v", err)
	}
	if mr.Exists(key) {
		t.Error("lock key should be released after a failed section")
	}
}

func TestWithSlotLock_DoesNotStealExpiredReacquiredLock(t *testing.T) {
	locker, mr, client := newTestLocker(t)

	doctorID := uuid.New()
	slotAt := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	key := "lock:slot:" + doctorID.String() + ":2026-09-01T10:30"

	err := locker.WithSlotLock(context.Background(), doctorID, slotAt, func(ctx context.Context) error {
		// Simulate TTL expiry and another holder taking over mid-section.
		mr.Del(key)
		return client.Set(ctx, key, "new-holder", 0).Err()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	val, err := client.Get(context.Background(), key).Result()
	if err != nil {
		t.Fatalf("lock key should survive: %v", err)
	}
	if val != "new-holder" {
		t.Errorf("release deleted another holder's lock, key = %q", val)
	}
}
