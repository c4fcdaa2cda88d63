package domain

import "context"

// CounterStore is the persistence contract shared by every counter
// adapter. Increments happen at the store so two concurrent submissions
// for the same identity can never both observe the same count.
type CounterStore interface {
	// Load returns the record for (identity, day) if one exists.
	Load(ctx context.Context, identity, day string) (DailyUsage, bool, error)

	// IncrementBelow atomically increments the counter for
	// (identity, day) if its current value is below limit, creating the
	// row at count 1 when missing. It returns the count after the
	// operation and whether the increment was applied. At the limit the
	// count is returned unchanged with accepted=false.
	IncrementBelow(ctx context.Context, identity, day string, limit int) (newCount int, accepted bool, err error)
}

// PrunableStore is implemented by adapters that keep superseded day rows
// around and support trimming them.
type PrunableStore interface {
	// DeleteBefore removes up to batchSize records whose day sorts
	// strictly before the given day key, returning how many were
	// deleted.
	DeleteBefore(ctx context.Context, day string, batchSize int) (int64, error)
}
