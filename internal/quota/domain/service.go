package domain

import "context"

// Service is the quota-enforcement facade consumed by the chat
// submission pipeline. Callers must check CanSubmit before dispatching a
// message and call RecordSubmission exactly once per accepted message.
type Service interface {
	// CanSubmit reports whether the identity has quota left today. It
	// never mutates stored state.
	CanSubmit(ctx context.Context, identity string) (bool, error)

	// Remaining returns max(0, limit - today's count). It never mutates
	// stored state.
	Remaining(ctx context.Context, identity string) (int, error)

	// Status returns the full quota snapshot for today.
	Status(ctx context.Context, identity string) (Status, error)

	// RecordSubmission consumes one unit of today's quota. When the
	// identity is at the limit it returns Accepted=false and leaves the
	// count unchanged.
	RecordSubmission(ctx context.Context, identity string) (Decision, error)
}
