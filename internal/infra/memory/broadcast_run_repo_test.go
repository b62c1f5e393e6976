package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"telegram-channel-gate/internal/domain/model"
	"telegram-channel-gate/internal/infra/memory"
)

func saveRuns(t *testing.T, repo *memory.BroadcastRunRepo, n int) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		run := &model.BroadcastRun{
			ID:         fmt.Sprintf("run-%d", i),
			Kind:       model.PayloadText,
			Attempted:  i + 1,
			Succeeded:  i,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 10*time.Second),
		}
		if err := repo.Save(ctx, run); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
}

func TestBroadcastRunRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("lists newest first", func(t *testing.T) {
		repo := memory.NewBroadcastRunRepo()
		saveRuns(t, repo, 3)

		runs, err := repo.ListRecent(ctx, 2)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		if len(runs) != 2 || runs[0].ID != "run-2" || runs[1].ID != "run-1" {
			t.Errorf("unexpected order: %v, %v", runs[0].ID, runs[1].ID)
		}
	})

	t.Run("non-positive limit returns everything", func(t *testing.T) {
		repo := memory.NewBroadcastRunRepo()
		saveRuns(t, repo, 4)

		runs, err := repo.ListRecent(ctx, 0)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		if len(runs) != 4 {
			t.Errorf("len = %d, want 4", len(runs))
		}
	})

	t.Run("returned runs are copies", func(t *testing.T) {
		repo := memory.NewBroadcastRunRepo()
		saveRuns(t, repo, 1)

		runs, _ := repo.ListRecent(ctx, 1)
		runs[0].Succeeded = 999

		again, _ := repo.ListRecent(ctx, 1)
		if again[0].Succeeded == 999 {
			t.Error("mutating a listed run leaked into the store")
		}
	})

	t.Run("keeps a bounded history", func(t *testing.T) {
		repo := memory.NewBroadcastRunRepo()
		saveRuns(t, repo, 150)

		runs, err := repo.ListRecent(ctx, 0)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		if len(runs) != 100 {
			t.Errorf("len = %d, want 100", len(runs))
		}
		if runs[0].ID != "run-149" {
			t.Errorf("newest run = %s, want run-149", runs[0].ID)
		}
	})
}
