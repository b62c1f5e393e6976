package repository

import "context"

// BroadcastStateRepository tracks the per-admin pending-post flag: true from
// the moment the admin asks to send a post until any payload message arrives.
// There is deliberately no expiry on the flag.
type BroadcastStateRepository interface {
	SetPending(ctx context.Context, telegramID int64) error
	IsPending(ctx context.Context, telegramID int64) (bool, error)
	Clear(ctx context.Context, telegramID int64) error
}
