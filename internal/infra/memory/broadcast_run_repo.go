package memory

import (
	"context"
	"sync"

	"telegram-channel-gate/internal/domain/model"
	"telegram-channel-gate/internal/domain/ports/repository"
)

var _ repository.BroadcastRunRepository = (*BroadcastRunRepo)(nil)

const maxKeptRuns = 100

// BroadcastRunRepo keeps the most recent runs in memory. Used when no
// database.url is configured; the bot itself never requires Postgres.
type BroadcastRunRepo struct {
	mu   sync.RWMutex
	runs []*model.BroadcastRun // newest last
}

func NewBroadcastRunRepo() *BroadcastRunRepo {
	return &BroadcastRunRepo{}
}

func (m *BroadcastRunRepo) Save(ctx context.Context, run *model.BroadcastRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *run
	m.runs = append(m.runs, &cp)
	if len(m.runs) > maxKeptRuns {
		m.runs = m.runs[len(m.runs)-maxKeptRuns:]
	}
	return nil
}

func (m *BroadcastRunRepo) ListRecent(ctx context.Context, limit int) ([]*model.BroadcastRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.runs) {
		limit = len(m.runs)
	}
	out := make([]*model.BroadcastRun, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *m.runs[i]
		out = append(out, &cp)
	}
	return out, nil
}
