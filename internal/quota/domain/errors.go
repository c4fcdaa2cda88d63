package domain

import "errors"

var (
	ErrInvalidIdentity = errors.New("invalid_identity")
	ErrInvalidLimit    = errors.New("invalid_limit")
	ErrInvalidDay      = errors.New("invalid_day")
	ErrLimitReached    = errors.New("daily_limit_reached")

	// ErrStoreUnavailable wraps adapter read/write failures so the
	// facade can apply its fail-open or fail-closed policy.
	ErrStoreUnavailable = errors.New("quota_store_unavailable")
)
