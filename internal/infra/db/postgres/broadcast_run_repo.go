package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-channel-gate/internal/domain/model"
	"telegram-channel-gate/internal/domain/ports/repository"
)

var _ repository.BroadcastRunRepository = (*broadcastRunRepo)(nil)

// Expected schema:
//
//	CREATE TABLE broadcast_runs (
//	    id          UUID PRIMARY KEY,
//	    kind        TEXT NOT NULL,
//	    attempted   INT NOT NULL,
//	    succeeded   INT NOT NULL,
//	    started_at  TIMESTAMPTZ NOT NULL,
//	    finished_at TIMESTAMPTZ NOT NULL
//	);
type broadcastRunRepo struct {
	pool *pgxpool.Pool
}

func NewBroadcastRunRepo(pool *pgxpool.Pool) repository.BroadcastRunRepository {
	return &broadcastRunRepo{pool: pool}
}

func (r *broadcastRunRepo) Save(ctx context.Context, run *model.BroadcastRun) error {
	const q = `
INSERT INTO broadcast_runs (id, kind, attempted, succeeded, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, q,
		run.ID, string(run.Kind), run.Attempted, run.Succeeded, run.StartedAt, run.FinishedAt)
	return err
}

func (r *broadcastRunRepo) ListRecent(ctx context.Context, limit int) ([]*model.BroadcastRun, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT id, kind, attempted, succeeded, started_at, finished_at
FROM broadcast_runs
ORDER BY finished_at DESC
LIMIT $1`

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.BroadcastRun
	for rows.Next() {
		var run model.BroadcastRun
		var kind string
		if err := rows.Scan(&run.ID, &kind, &run.Attempted, &run.Succeeded, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		run.Kind = model.PayloadKind(kind)
		out = append(out, &run)
	}
	return out, rows.Err()
}
