package repository

// RecipientRegistry is the in-process set of users who have interacted with
// the bot. It is a best-effort cache, not a verified mailing list: entries
// are pruned when a delivery attempt proves them unreachable. Lifetime is the
// process lifetime; nothing is persisted.
type RecipientRegistry interface {
	// Record inserts the identity. Idempotent; no-op when already present.
	Record(telegramID int64)
	// Remove deletes the identity. Idempotent; no-op when absent. Safe to
	// call concurrently from broadcast workers.
	Remove(telegramID int64)
	// Snapshot returns the membership fixed at call time in ascending ID
	// order. Later insertions are not reflected in the returned slice.
	Snapshot() []int64
	Size() int
}
