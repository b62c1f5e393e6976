package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-channel-gate/internal/domain"
	"telegram-channel-gate/internal/domain/model"
	"telegram-channel-gate/internal/domain/ports/adapter"
	"telegram-channel-gate/internal/domain/ports/repository"
	"telegram-channel-gate/internal/infra/metrics"
	"telegram-channel-gate/internal/infra/worker"
)

// BroadcastUseCase fans one payload out to every registered recipient and
// owns the per-admin pending-post flow around it.
type BroadcastUseCase interface {
	// RequestPost marks the admin as awaiting a payload.
	RequestPost(ctx context.Context, adminID int64) error
	// AwaitingPost reports whether the admin has a pending post request.
	// State-store errors are logged and read as "not awaiting".
	AwaitingPost(ctx context.Context, adminID int64) bool
	// ClearPost drops the pending flag. Called unconditionally once any
	// payload message arrives, before delivery is even attempted.
	ClearPost(ctx context.Context, adminID int64)
	// Execute delivers the payload to a snapshot of the registry and blocks
	// until the run finishes or ctx is cancelled. Recipients that prove
	// unreachable are pruned from the registry; one recipient's failure
	// never affects the attempts to the others.
	Execute(ctx context.Context, payload *model.Payload) (model.DeliveryReport, error)
}

type broadcastUC struct {
	registry repository.RecipientRegistry
	runs     repository.BroadcastRunRepository
	state    repository.BroadcastStateRepository
	bot      adapter.TelegramBotAdapter
	pool     *worker.Pool
	log      *zerolog.Logger
}

func NewBroadcastUseCase(
	registry repository.RecipientRegistry,
	runs repository.BroadcastRunRepository,
	state repository.BroadcastStateRepository,
	bot adapter.TelegramBotAdapter,
	pool *worker.Pool,
	logger *zerolog.Logger,
) BroadcastUseCase {
	return &broadcastUC{
		registry: registry,
		runs:     runs,
		state:    state,
		bot:      bot,
		pool:     pool,
		log:      logger,
	}
}

func (uc *broadcastUC) RequestPost(ctx context.Context, adminID int64) error {
	return uc.state.SetPending(ctx, adminID)
}

func (uc *broadcastUC) AwaitingPost(ctx context.Context, adminID int64) bool {
	pending, err := uc.state.IsPending(ctx, adminID)
	if err != nil {
		uc.log.Warn().Err(err).Int64("tg_id", adminID).Msg("pending-post lookup failed")
		return false
	}
	return pending
}

func (uc *broadcastUC) ClearPost(ctx context.Context, adminID int64) {
	if err := uc.state.Clear(ctx, adminID); err != nil {
		uc.log.Warn().Err(err).Int64("tg_id", adminID).Msg("failed to clear pending-post flag")
	}
}

func (uc *broadcastUC) Execute(ctx context.Context, payload *model.Payload) (model.DeliveryReport, error) {
	if payload == nil {
		return model.DeliveryReport{}, domain.ErrEmptyPayload
	}

	recipients := uc.registry.Snapshot()
	report := model.DeliveryReport{Attempted: len(recipients)}
	if len(recipients) == 0 {
		return report, nil
	}

	runID := uuid.NewString()
	startedAt := time.Now()
	uc.log.Info().
		Str("run_id", runID).
		Str("kind", string(payload.Kind)).
		Int("recipients", len(recipients)).
		Msg("broadcast run started")

	// Throttle to respect Telegram's API limits (approx. 30 messages/sec).
	throttle := time.NewTicker(time.Second / 25)
	defer throttle.Stop()

	var succeeded int64
	var wg sync.WaitGroup

dispatch:
	for _, id := range recipients {
		select {
		case <-ctx.Done():
			// Shutdown mid-run: abandon the rest, report what happened.
			uc.log.Warn().Str("run_id", runID).Msg("broadcast run abandoned")
			break dispatch
		case <-throttle.C:
		}

		id := id
		wg.Add(1)
		task := func(taskCtx context.Context) error {
			defer wg.Done()
			if err := uc.sendOne(taskCtx, id, payload); err != nil {
				// A failed delivery is a permanent signal for this run: the
				// recipient blocked the bot, deactivated, or is otherwise
				// unreachable. Prune and move on.
				uc.log.Warn().Err(err).Str("run_id", runID).Int64("tg_id", id).Msg("delivery failed, pruning recipient")
				uc.registry.Remove(id)
				metrics.IncDelivery("failed")
				return nil
			}
			atomic.AddInt64(&succeeded, 1)
			metrics.IncDelivery("sent")
			return nil
		}

		if err := uc.pool.Submit(task); err != nil {
			// Queue saturated; the attempt still has to happen.
			_ = task(ctx)
		}
	}
	wg.Wait()

	report.Succeeded = int(atomic.LoadInt64(&succeeded))
	finishedAt := time.Now()
	metrics.ObserveRun(string(payload.Kind), finishedAt.Sub(startedAt).Seconds())

	run := &model.BroadcastRun{
		ID:         runID,
		Kind:       payload.Kind,
		Attempted:  report.Attempted,
		Succeeded:  report.Succeeded,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	if err := uc.runs.Save(ctx, run); err != nil {
		uc.log.Warn().Err(err).Str("run_id", runID).Msg("failed to persist broadcast run")
	}

	uc.log.Info().
		Str("run_id", runID).
		Int("attempted", report.Attempted).
		Int("succeeded", report.Succeeded).
		Msg("broadcast run finished")
	return report, nil
}

func (uc *broadcastUC) sendOne(ctx context.Context, telegramID int64, p *model.Payload) error {
	switch p.Kind {
	case model.PayloadPhoto:
		return uc.bot.SendPhoto(ctx, adapter.SendMediaParams{ChatID: telegramID, FileID: p.FileID, Caption: p.Caption})
	case model.PayloadVideo:
		return uc.bot.SendVideo(ctx, adapter.SendMediaParams{ChatID: telegramID, FileID: p.FileID, Caption: p.Caption})
	default:
		return uc.bot.SendMessage(ctx, adapter.SendMessageParams{ChatID: telegramID, Text: p.Text})
	}
}
