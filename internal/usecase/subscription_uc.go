package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-channel-gate/internal/domain/ports/adapter"
	"telegram-channel-gate/internal/infra/metrics"
)

// SubscriptionUseCase answers whether a user belongs to the gated channel.
type SubscriptionUseCase interface {
	// IsSubscribed performs one membership lookup. Errors are logged and
	// classified as not subscribed (fail-closed), never propagated: a failed
	// lookup degrades to "ask the user to subscribe".
	IsSubscribed(ctx context.Context, telegramID int64) bool
}

type subscriptionUC struct {
	bot       adapter.TelegramBotAdapter
	channelID int64
	log       *zerolog.Logger
}

func NewSubscriptionUseCase(bot adapter.TelegramBotAdapter, channelID int64, logger *zerolog.Logger) SubscriptionUseCase {
	return &subscriptionUC{bot: bot, channelID: channelID, log: logger}
}

func (uc *subscriptionUC) IsSubscribed(ctx context.Context, telegramID int64) bool {
	status, err := uc.bot.MemberStatus(ctx, uc.channelID, telegramID)
	if err != nil {
		uc.log.Warn().Err(err).Int64("tg_id", telegramID).Msg("membership lookup failed")
		metrics.IncSubscriptionCheck("error")
		return false
	}

	switch status {
	case adapter.MemberStatusMember, adapter.MemberStatusAdministrator, adapter.MemberStatusCreator:
		metrics.IncSubscriptionCheck("subscribed")
		return true
	default:
		metrics.IncSubscriptionCheck("not_subscribed")
		return false
	}
}
