package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/appfit/quotad/internal/dayclock"
	"github.com/appfit/quotad/internal/quota/domain"
	"github.com/appfit/quotad/internal/quota/store"
	"go.uber.org/zap"
)

func day(key string, t *testing.T) time.Time {
	t.Helper()
	parsed, err := time.Parse(dayclock.DayKeyLayout, key)
	if err != nil {
		t.Fatalf("parse day %q: %v", key, err)
	}
	return parsed
}

func newTestService(t *testing.T, counterStore domain.CounterStore, dayKey string, limit int, failClosed bool) (*Service, *dayclock.FixedClock) {
	t.Helper()
	clock := &dayclock.FixedClock{Time: day(dayKey, t)}
	svc, err := New(counterStore, clock, zap.NewNop(), nil, limit, failClosed)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, clock
}

func TestRecordSubmissionCountsUpToLimit(t *testing.T) {
	// Scenario A: ten accepted submissions, then rejection with the
	// count unchanged.
	svc, _ := newTestService(t, store.NewMemoryStore(), "2024-01-01", 10, false)
	ctx := context.Background()

	for want := 1; want <= 10; want++ {
		decision, err := svc.RecordSubmission(ctx, "u1")
		if err != nil {
			t.Fatalf("submission %d: %v", want, err)
		}
		if !decision.Accepted || decision.Count != want {
			t.Fatalf("submission %d: accepted=%v count=%d", want, decision.Accepted, decision.Count)
		}
	}

	decision, err := svc.RecordSubmission(ctx, "u1")
	if err != nil {
		t.Fatalf("11th submission: %v", err)
	}
	if decision.Accepted || decision.Count != 10 {
		t.Fatalf("expected 11th rejected at count 10, got accepted=%v count=%d", decision.Accepted, decision.Count)
	}

	ok, err := svc.CanSubmit(ctx, "u1")
	if err != nil {
		t.Fatalf("can submit: %v", err)
	}
	if ok {
		t.Fatalf("expected CanSubmit false at limit")
	}
}

func TestRemainingArithmetic(t *testing.T) {
	svc, _ := newTestService(t, store.NewMemoryStore(), "2024-01-01", 10, false)
	ctx := context.Background()

	remaining, err := svc.Remaining(ctx, "u1")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 10 {
		t.Fatalf("expected 10 remaining for fresh identity, got %d", remaining)
	}

	for i := 0; i < 4; i++ {
		if _, err := svc.RecordSubmission(ctx, "u1"); err != nil {
			t.Fatalf("submission: %v", err)
		}
	}

	remaining, err = svc.Remaining(ctx, "u1")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 6 {
		t.Fatalf("expected 6 remaining after 4 submissions, got %d", remaining)
	}
}

func TestDayRolloverResetsCounter(t *testing.T) {
	// Scenario B: exhausted on day one, fresh on day two.
	memStore := store.NewMemoryStore()
	svc, clock := newTestService(t, memStore, "2024-01-01", 10, false)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := svc.RecordSubmission(ctx, "u1"); err != nil {
			t.Fatalf("submission: %v", err)
		}
	}
	if ok, _ := svc.CanSubmit(ctx, "u1"); ok {
		t.Fatalf("expected exhausted on day one")
	}

	clock.Time = day("2024-01-02", t)

	ok, err := svc.CanSubmit(ctx, "u1")
	if err != nil {
		t.Fatalf("can submit: %v", err)
	}
	if !ok {
		t.Fatalf("expected fresh quota after rollover")
	}
	remaining, err := svc.Remaining(ctx, "u1")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 10 {
		t.Fatalf("expected 10 remaining after rollover, got %d", remaining)
	}
}

func TestReadsDoNotMutateState(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc, _ := newTestService(t, memStore, "2024-01-01", 10, false)
	ctx := context.Background()

	if _, err := svc.RecordSubmission(ctx, "u1"); err != nil {
		t.Fatalf("submission: %v", err)
	}

	for i := 0; i < 20; i++ {
		if _, err := svc.CanSubmit(ctx, "u1"); err != nil {
			t.Fatalf("can submit: %v", err)
		}
		if _, err := svc.Remaining(ctx, "u1"); err != nil {
			t.Fatalf("remaining: %v", err)
		}
	}

	record, ok, err := memStore.Load(ctx, "u1", "2024-01-01")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if record.Count != 1 {
		t.Fatalf("reads mutated stored count: %d", record.Count)
	}
}

func TestEmptyIdentityRejected(t *testing.T) {
	svc, _ := newTestService(t, store.NewMemoryStore(), "2024-01-01", 10, false)
	ctx := context.Background()

	if _, err := svc.RecordSubmission(ctx, "   "); !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
	if _, err := svc.CanSubmit(ctx, ""); !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
}

type failingStore struct {
	loadErr error
	incrErr error
}

func (s *failingStore) Load(ctx context.Context, identity, day string) (domain.DailyUsage, bool, error) {
	return domain.DailyUsage{}, false, s.loadErr
}

func (s *failingStore) IncrementBelow(ctx context.Context, identity, day string, limit int) (int, bool, error) {
	return 0, false, s.incrErr
}

func TestReadErrorFailsOpen(t *testing.T) {
	// Scenario C: unreadable state reports a full quota, not an error.
	broken := &failingStore{loadErr: errors.New("disk on fire"), incrErr: errors.New("disk on fire")}
	svc, _ := newTestService(t, broken, "2024-01-01", 10, false)

	remaining, err := svc.Remaining(context.Background(), "u2")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining != 10 {
		t.Fatalf("expected fail-open remaining 10, got %d", remaining)
	}
}

func TestIncrementErrorFailOpenAllows(t *testing.T) {
	broken := &failingStore{incrErr: errors.New("connection reset")}
	svc, _ := newTestService(t, broken, "2024-01-01", 10, false)

	decision, err := svc.RecordSubmission(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected fail-open accept, got error %v", err)
	}
	if !decision.Accepted {
		t.Fatalf("expected fail-open decision to accept")
	}
}

func TestIncrementErrorFailClosedRejects(t *testing.T) {
	broken := &failingStore{incrErr: errors.New("connection reset")}
	svc, _ := newTestService(t, broken, "2024-01-01", 10, true)

	_, err := svc.RecordSubmission(context.Background(), "u1")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestStatusSnapshot(t *testing.T) {
	svc, _ := newTestService(t, store.NewMemoryStore(), "2024-01-01", 3, false)
	ctx := context.Background()

	if _, err := svc.RecordSubmission(ctx, "u1"); err != nil {
		t.Fatalf("submission: %v", err)
	}

	status, err := svc.Status(ctx, "u1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Day != "2024-01-01" || status.Limit != 3 || status.Count != 1 || status.Remaining != 2 || status.Exhausted {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestInvalidLimitRejectedAtConstruction(t *testing.T) {
	_, err := New(store.NewMemoryStore(), dayclock.FixedClock{}, zap.NewNop(), nil, 0, false)
	if !errors.Is(err, domain.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}
