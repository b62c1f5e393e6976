package usecase_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"telegram-channel-gate/internal/domain"
	"telegram-channel-gate/internal/domain/model"
	"telegram-channel-gate/internal/domain/ports/adapter"
	"telegram-channel-gate/internal/infra/memory"
	"telegram-channel-gate/internal/infra/worker"
	"telegram-channel-gate/internal/usecase"
)

func newBroadcastFixture(t *testing.T, bot *MockTelegramBot) (usecase.BroadcastUseCase, *memory.RecipientRegistry, *memory.BroadcastRunRepo, *memStateRepo) {
	t.Helper()
	registry := memory.NewRecipientRegistry()
	runs := memory.NewBroadcastRunRepo()
	state := newMemStateRepo()

	pool := worker.NewPool(2, newTestLogger())
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	uc := usecase.NewBroadcastUseCase(registry, runs, state, bot, pool, newTestLogger())
	return uc, registry, runs, state
}

func mustText(t *testing.T, text string) *model.Payload {
	t.Helper()
	p, err := model.NewTextPayload(text)
	if err != nil {
		t.Fatalf("NewTextPayload: %v", err)
	}
	return p
}

func TestBroadcastExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("all deliveries succeed", func(t *testing.T) {
		bot := &MockTelegramBot{}
		uc, registry, runs, _ := newBroadcastFixture(t, bot)
		for _, id := range []int64{1, 2, 3} {
			registry.Record(id)
		}

		report, err := uc.Execute(ctx, mustText(t, "hello"))
		if err != nil {
			t.Fatalf("Execute returned an error: %v", err)
		}
		if report.Attempted != 3 || report.Succeeded != 3 {
			t.Errorf("expected report 3/3, got %d/%d", report.Succeeded, report.Attempted)
		}
		if got := registry.Snapshot(); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
			t.Errorf("registry changed unexpectedly: %v", got)
		}
		if bot.SentCount() != 3 {
			t.Errorf("expected 3 sends, got %d", bot.SentCount())
		}

		recent, err := runs.ListRecent(ctx, 1)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		if len(recent) != 1 || recent[0].Succeeded != 3 || recent[0].Attempted != 3 {
			t.Errorf("run was not recorded correctly: %+v", recent)
		}
	})

	t.Run("one unreachable recipient is pruned, the rest still receive", func(t *testing.T) {
		blocked := errors.New("Forbidden: bot was blocked by the user")
		bot := &MockTelegramBot{
			SendMessageFunc: func(ctx context.Context, params adapter.SendMessageParams) error {
				if params.ChatID == 2 {
					return blocked
				}
				return nil
			},
		}
		uc, registry, _, _ := newBroadcastFixture(t, bot)
		for _, id := range []int64{1, 2, 3} {
			registry.Record(id)
		}

		report, err := uc.Execute(ctx, mustText(t, "hello"))
		if err != nil {
			t.Fatalf("Execute returned an error: %v", err)
		}
		if report.Attempted != 3 || report.Succeeded != 2 {
			t.Errorf("expected report 2/3, got %d/%d", report.Succeeded, report.Attempted)
		}
		if got := registry.Snapshot(); !reflect.DeepEqual(got, []int64{1, 3}) {
			t.Errorf("expected recipient 2 pruned, registry = %v", got)
		}
	})

	t.Run("all deliveries fail and the registry empties", func(t *testing.T) {
		bot := &MockTelegramBot{
			SendMessageFunc: func(ctx context.Context, params adapter.SendMessageParams) error {
				return errors.New("Forbidden: user is deactivated")
			},
		}
		uc, registry, _, _ := newBroadcastFixture(t, bot)
		for _, id := range []int64{10, 20, 30, 40} {
			registry.Record(id)
		}

		report, err := uc.Execute(ctx, mustText(t, "hello"))
		if err != nil {
			t.Fatalf("Execute returned an error: %v", err)
		}
		if report.Attempted != 4 || report.Succeeded != 0 {
			t.Errorf("expected report 0/4, got %d/%d", report.Succeeded, report.Attempted)
		}
		if registry.Size() != 0 {
			t.Errorf("expected empty registry, size = %d", registry.Size())
		}
	})

	t.Run("empty registry yields an empty report without sends", func(t *testing.T) {
		bot := &MockTelegramBot{}
		uc, _, _, _ := newBroadcastFixture(t, bot)

		report, err := uc.Execute(ctx, mustText(t, "hello"))
		if err != nil {
			t.Fatalf("Execute returned an error: %v", err)
		}
		if report.Attempted != 0 || report.Succeeded != 0 {
			t.Errorf("expected report 0/0, got %d/%d", report.Succeeded, report.Attempted)
		}
		if bot.SentCount() != 0 {
			t.Errorf("expected no sends, got %d", bot.SentCount())
		}
	})

	t.Run("nil payload is rejected", func(t *testing.T) {
		bot := &MockTelegramBot{}
		uc, registry, _, _ := newBroadcastFixture(t, bot)
		registry.Record(1)

		if _, err := uc.Execute(ctx, nil); !errors.Is(err, domain.ErrEmptyPayload) {
			t.Fatalf("expected ErrEmptyPayload, got %v", err)
		}
	})

	t.Run("photo payload dispatches through the photo capability", func(t *testing.T) {
		bot := &MockTelegramBot{}
		uc, registry, _, _ := newBroadcastFixture(t, bot)
		registry.Record(5)

		p, err := model.NewPhotoPayload("file-abc", "caption")
		if err != nil {
			t.Fatalf("NewPhotoPayload: %v", err)
		}
		if _, err := uc.Execute(ctx, p); err != nil {
			t.Fatalf("Execute returned an error: %v", err)
		}
		if bot.SentCount() != 1 || bot.Sent[0].Kind != "photo" {
			t.Errorf("expected one photo send, got %+v", bot.Sent)
		}
	})
}

func TestBroadcastPendingFlow(t *testing.T) {
	ctx := context.Background()
	const adminID int64 = 777

	t.Run("request then clear", func(t *testing.T) {
		uc, _, _, _ := newBroadcastFixture(t, &MockTelegramBot{})

		if uc.AwaitingPost(ctx, adminID) {
			t.Fatal("fresh admin should not be awaiting a post")
		}
		if err := uc.RequestPost(ctx, adminID); err != nil {
			t.Fatalf("RequestPost: %v", err)
		}
		if !uc.AwaitingPost(ctx, adminID) {
			t.Fatal("expected awaiting state after RequestPost")
		}
		uc.ClearPost(ctx, adminID)
		if uc.AwaitingPost(ctx, adminID) {
			t.Fatal("expected idle state after ClearPost")
		}
	})

	t.Run("flag persists until a payload arrives", func(t *testing.T) {
		uc, _, _, state := newBroadcastFixture(t, &MockTelegramBot{})

		if err := uc.RequestPost(ctx, adminID); err != nil {
			t.Fatalf("RequestPost: %v", err)
		}
		// No payload ever arrives; repeated polls keep seeing the flag.
		for i := 0; i < 3; i++ {
			if !uc.AwaitingPost(ctx, adminID) {
				t.Fatal("awaiting state should persist indefinitely")
			}
		}
		if pending, _ := state.IsPending(ctx, adminID); !pending {
			t.Fatal("state store lost the pending flag")
		}
	})

	t.Run("state-store errors read as not awaiting", func(t *testing.T) {
		uc, _, _, state := newBroadcastFixture(t, &MockTelegramBot{})
		state.getErr = errors.New("redis: connection refused")

		if uc.AwaitingPost(ctx, adminID) {
			t.Fatal("lookup failure must degrade to not-awaiting")
		}
	})
}
