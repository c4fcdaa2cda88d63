package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appfit/quotad/internal/quota/domain"
	"gorm.io/gorm"
)

// GormStore is the authoritative server-side adapter, one row per
// (identity, day) guarded by a unique index. The increment is a
// conditional UPDATE plus insert-on-missing inside one transaction, so
// concurrent submissions for the same identity serialize at the
// database instead of racing a read-modify-write.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, identity, day string) (domain.DailyUsage, bool, error) {
	var record domain.DailyUsage
	err := s.db.WithContext(ctx).
		Where("identity = ? AND day = ?", identity, day).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DailyUsage{}, false, nil
		}
		return domain.DailyUsage{}, false, fmt.Errorf("load daily usage: %w", err)
	}
	return record, true, nil
}

func (s *GormStore) IncrementBelow(ctx context.Context, identity, day string, limit int) (int, bool, error) {
	var (
		newCount int
		accepted bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		count, ok, err := condIncrement(tx, identity, day, limit, now)
		if err != nil {
			return err
		}
		if ok {
			newCount, accepted = count, true
			return nil
		}

		// Either no row for today yet, or today's row is at the limit.
		created, err := insertFirst(tx, identity, day, now)
		if err != nil {
			return err
		}
		if created {
			newCount, accepted = 1, true
			return nil
		}

		// The insert conflicted: the row was at the limit when we
		// looked, or a concurrent submission created it in between.
		// Retry the conditional increment against the row that now
		// exists before concluding the day is exhausted.
		count, ok, err = condIncrement(tx, identity, day, limit, now)
		if err != nil {
			return err
		}
		if ok {
			newCount, accepted = count, true
			return nil
		}

		accepted = false
		return tx.Raw(
			`SELECT count FROM daily_usage WHERE identity = ? AND day = ?`,
			identity, day,
		).Scan(&newCount).Error
	})
	if err != nil {
		return 0, false, fmt.Errorf("increment daily usage: %w", err)
	}
	return newCount, accepted, nil
}

// condIncrement bumps today's row when it is below limit, reporting the
// count after the update and whether a row matched.
func condIncrement(tx *gorm.DB, identity, day string, limit int, now time.Time) (int, bool, error) {
	result := tx.Exec(
		`UPDATE daily_usage
		 SET count = count + 1, updated_at = ?
		 WHERE identity = ? AND day = ? AND count < ?`,
		now, identity, day, limit,
	)
	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected != 1 {
		return 0, false, nil
	}
	var count int
	err := tx.Raw(
		`SELECT count FROM daily_usage WHERE identity = ? AND day = ?`,
		identity, day,
	).Scan(&count).Error
	return count, true, err
}

// insertFirst creates today's row at count 1, reporting false when the
// row already exists.
func insertFirst(tx *gorm.DB, identity, day string, now time.Time) (bool, error) {
	result := tx.Exec(
		`INSERT INTO daily_usage (identity, day, count, created_at, updated_at)
		 VALUES (?, ?, 1, ?, ?)
		 ON CONFLICT (identity, day) DO NOTHING`,
		identity, day, now, now,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DeleteBefore trims superseded day rows. Retention is an operational
// concern only; stale rows are never read as current state.
func (s *GormStore) DeleteBefore(ctx context.Context, day string, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	result := s.db.WithContext(ctx).Exec(
		`DELETE FROM daily_usage
		 WHERE id IN (
			SELECT id FROM daily_usage WHERE day < ? ORDER BY day ASC LIMIT ?
		 )`,
		day, batchSize,
	)
	if result.Error != nil {
		return 0, fmt.Errorf("prune daily usage: %w", result.Error)
	}
	return result.RowsAffected, nil
}
