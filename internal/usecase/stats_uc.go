package usecase

import (
	"context"

	"telegram-channel-gate/internal/domain/model"
	"telegram-channel-gate/internal/domain/ports/repository"
)

type StatsSummary struct {
	RecipientCount int
	RecentRuns     []*model.BroadcastRun
}

// StatsUseCase backs the admin stats trigger and the admin HTTP API.
type StatsUseCase interface {
	Summary(ctx context.Context) (*StatsSummary, error)
}

type statsUC struct {
	registry repository.RecipientRegistry
	runs     repository.BroadcastRunRepository
}

func NewStatsUseCase(registry repository.RecipientRegistry, runs repository.BroadcastRunRepository) StatsUseCase {
	return &statsUC{registry: registry, runs: runs}
}

func (uc *statsUC) Summary(ctx context.Context) (*StatsSummary, error) {
	recent, err := uc.runs.ListRecent(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &StatsSummary{
		RecipientCount: uc.registry.Size(),
		RecentRuns:     recent,
	}, nil
}
