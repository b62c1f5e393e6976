package repository

import (
	"context"

	"telegram-channel-gate/internal/domain/model"
)

// BroadcastRunRepository stores finished broadcast runs for the stats
// surface. Implementations: Postgres when configured, in-memory otherwise.
type BroadcastRunRepository interface {
	Save(ctx context.Context, run *model.BroadcastRun) error
	// ListRecent returns up to limit runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]*model.BroadcastRun, error)
}
