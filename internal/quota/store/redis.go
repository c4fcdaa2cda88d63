package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/appfit/quotad/internal/quota/domain"
	"github.com/redis/go-redis/v9"
)

// redisKeyTTL keeps counter keys around for two days past their day so
// a rollover never reads yesterday's key, then lets redis reclaim them.
const redisKeyTTL = 48 * time.Hour

// incrementBelowScript applies the ceiling check and the increment in
// one server-side step. A non-numeric stored value counts as missing,
// matching Load, and the SET overwrites it so the increment itself can
// never trip over the corruption.
var incrementBelowScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1])) or 0
local limit = tonumber(ARGV[1])
if current >= limit then
  return {current, 0}
end
current = current + 1
redis.call('SET', KEYS[1], current, 'EX', ARGV[2])
return {current, 1}
`)

// RedisStore keeps one counter key per (identity, day). Day rollover
// falls out of the key scheme: a new day is simply a new key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func counterKey(identity, day string) string {
	return "quota:" + identity + ":" + day
}

func (s *RedisStore) Load(ctx context.Context, identity, day string) (domain.DailyUsage, bool, error) {
	raw, err := s.client.Get(ctx, counterKey(identity, day)).Result()
	if err == redis.Nil {
		return domain.DailyUsage{}, false, nil
	}
	if err != nil {
		return domain.DailyUsage{}, false, fmt.Errorf("load counter: %w", err)
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		// Corrupted counter value reads as no record for today.
		return domain.DailyUsage{}, false, nil
	}
	return domain.DailyUsage{Identity: identity, Day: day, Count: count}, true, nil
}

func (s *RedisStore) IncrementBelow(ctx context.Context, identity, day string, limit int) (int, bool, error) {
	ttlSeconds := int(redisKeyTTL / time.Second)
	result, err := incrementBelowScript.Run(ctx, s.client,
		[]string{counterKey(identity, day)},
		limit, ttlSeconds,
	).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("increment counter: %w", err)
	}
	if len(result) != 2 {
		return 0, false, fmt.Errorf("increment counter: unexpected script reply %v", result)
	}
	return int(result[0]), result[1] == 1, nil
}
