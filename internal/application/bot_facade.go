package application

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-channel-gate/internal/domain/model"
	"telegram-channel-gate/internal/domain/ports/repository"
	"telegram-channel-gate/internal/usecase"
)

// BotFacade is the single entry point the transport adapter talks to. It
// hides use case composition from the transport layer.
type BotFacade struct {
	Access       usecase.AccessUseCase
	Subscription usecase.SubscriptionUseCase
	Broadcast    usecase.BroadcastUseCase
	Stats        usecase.StatsUseCase

	registry repository.RecipientRegistry
	log      *zerolog.Logger
}

func NewBotFacade(
	access usecase.AccessUseCase,
	subscription usecase.SubscriptionUseCase,
	broadcast usecase.BroadcastUseCase,
	stats usecase.StatsUseCase,
	registry repository.RecipientRegistry,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		Access:       access,
		Subscription: subscription,
		Broadcast:    broadcast,
		Stats:        stats,
		registry:     registry,
		log:          logger,
	}
}

// HandleSeen records that a user interacted with the bot, making them a
// broadcast recipient for the rest of the process lifetime.
func (f *BotFacade) HandleSeen(telegramID int64) {
	f.registry.Record(telegramID)
}

// HandleStart registers the user and answers whether they may enter the
// gated web app.
func (f *BotFacade) HandleStart(ctx context.Context, telegramID int64) bool {
	f.registry.Record(telegramID)
	return f.Subscription.IsSubscribed(ctx, telegramID)
}

// HandleVerify re-checks the membership after the user pressed the verify
// button.
func (f *BotFacade) HandleVerify(ctx context.Context, telegramID int64) bool {
	f.registry.Record(telegramID)
	return f.Subscription.IsSubscribed(ctx, telegramID)
}

// HandleAdminPost runs the pending-post continuation: the flag is cleared
// unconditionally first, so a malformed payload can never wedge the admin in
// the awaiting state. buildErr carries the boundary's payload-construction
// failure, if any.
func (f *BotFacade) HandleAdminPost(ctx context.Context, adminID int64, payload *model.Payload, buildErr error) (model.DeliveryReport, error) {
	f.Broadcast.ClearPost(ctx, adminID)
	if buildErr != nil {
		return model.DeliveryReport{}, buildErr
	}
	return f.Broadcast.Execute(ctx, payload)
}
