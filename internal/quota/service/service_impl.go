// Package service implements the quota-enforcement facade on top of a
// counter store.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/appfit/quotad/internal/cache"
	"github.com/appfit/quotad/internal/dayclock"
	"github.com/appfit/quotad/internal/events"
	"github.com/appfit/quotad/internal/observability/metrics"
	"github.com/appfit/quotad/internal/quota/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// statusCacheTTL bounds how stale the display widget's view may be. The
// cache is invalidated on every accepted submission, so the TTL only
// matters for writes that happen outside this process.
const statusCacheTTL = 2 * time.Second

type Params struct {
	fx.In

	Store  domain.CounterStore
	Clock  dayclock.Clock
	Log    *zap.Logger
	Outbox *events.Outbox `optional:"true"`

	Limit      int  `name:"daily_limit"`
	FailClosed bool `name:"fail_closed"`
}

type Service struct {
	store       domain.CounterStore
	clock       dayclock.Clock
	log         *zap.Logger
	outbox      *events.Outbox
	statusCache cache.Cache[string, domain.Status]
	limit       int
	failClosed  bool
}

func NewService(p Params) (domain.Service, error) {
	return New(p.Store, p.Clock, p.Log, p.Outbox, p.Limit, p.FailClosed)
}

// New constructs the facade without fx, which tests and embedding
// callers use directly.
func New(store domain.CounterStore, clock dayclock.Clock, log *zap.Logger, outbox *events.Outbox, limit int, failClosed bool) (*Service, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:       store,
		clock:       clock,
		log:         log.Named("quota.service"),
		outbox:      outbox,
		statusCache: cache.NewTTLCache[string, domain.Status](),
		limit:       limit,
		failClosed:  failClosed,
	}, nil
}

func (s *Service) CanSubmit(ctx context.Context, identity string) (bool, error) {
	status, err := s.Status(ctx, identity)
	if err != nil {
		return false, err
	}
	return !status.Exhausted, nil
}

func (s *Service) Remaining(ctx context.Context, identity string) (int, error) {
	status, err := s.Status(ctx, identity)
	if err != nil {
		return 0, err
	}
	return status.Remaining, nil
}

func (s *Service) Status(ctx context.Context, identity string) (domain.Status, error) {
	identity, err := normalizeIdentity(identity)
	if err != nil {
		return domain.Status{}, err
	}
	day := s.clock.DayKey()

	cacheKey := identity + "@" + day
	if cached, ok := s.statusCache.Get(cacheKey); ok {
		return cached, nil
	}

	count := s.effectiveCount(ctx, identity, day)
	status := s.buildStatus(identity, day, count)
	s.statusCache.Set(cacheKey, status, statusCacheTTL)
	return status, nil
}

func (s *Service) RecordSubmission(ctx context.Context, identity string) (domain.Decision, error) {
	identity, err := normalizeIdentity(identity)
	if err != nil {
		return domain.Decision{}, err
	}
	day := s.clock.DayKey()
	s.statusCache.Delete(identity + "@" + day)

	newCount, accepted, err := s.store.IncrementBelow(ctx, identity, day, s.limit)
	if err != nil {
		metrics.Quota().ObserveStoreError("increment")
		if s.failClosed {
			s.log.Error("counter increment failed, rejecting submission",
				zap.String("identity", identity),
				zap.String("day", day),
				zap.Error(err))
			return domain.Decision{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		// Fail open: never block a user on a storage hiccup. The count
		// is unknown, so the decision carries zero.
		s.log.Warn("counter increment failed, allowing submission",
			zap.String("identity", identity),
			zap.String("day", day),
			zap.Error(err))
		metrics.Quota().ObserveDecision("fail_open")
		return domain.Decision{Count: 0, Accepted: true}, nil
	}

	decision := domain.Decision{Count: newCount, Accepted: accepted}
	if accepted {
		metrics.Quota().ObserveDecision("accepted")
	} else {
		metrics.Quota().ObserveDecision("rejected")
	}
	s.publishDecision(ctx, identity, day, decision)
	return decision, nil
}

// effectiveCount loads today's count, treating a missing record, a
// stale-day record, or a read failure as zero.
func (s *Service) effectiveCount(ctx context.Context, identity, day string) int {
	record, ok, err := s.store.Load(ctx, identity, day)
	if err != nil {
		metrics.Quota().ObserveStoreError("load")
		s.log.Warn("counter load failed, treating as empty",
			zap.String("identity", identity),
			zap.String("day", day),
			zap.Error(err))
		return 0
	}
	if !ok || record.Day != day {
		return 0
	}
	return record.Count
}

func (s *Service) buildStatus(identity, day string, count int) domain.Status {
	remaining := s.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return domain.Status{
		Identity:  identity,
		Day:       day,
		Limit:     s.limit,
		Count:     count,
		Remaining: remaining,
		Exhausted: count >= s.limit,
	}
}

func (s *Service) publishDecision(ctx context.Context, identity, day string, decision domain.Decision) {
	if s.outbox == nil {
		return
	}
	eventType := events.EventQuotaConsumed
	if !decision.Accepted {
		eventType = events.EventQuotaExhausted
	}
	payload := events.DecisionPayload{
		Identity: identity,
		Day:      day,
		Count:    decision.Count,
		Limit:    s.limit,
		Accepted: decision.Accepted,
	}
	err := s.outbox.Publish(ctx, events.Event{
		Type:      eventType,
		Payload:   payload.ToMap(),
		DedupeKey: fmt.Sprintf("%s:%s:%s:%d", eventType, identity, day, decision.Count),
	})
	if err != nil {
		s.log.Warn("quota event publish failed", zap.Error(err))
	}
}

func normalizeIdentity(identity string) (string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", domain.ErrInvalidIdentity
	}
	return identity, nil
}
