package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-channel-gate/internal/domain/ports/adapter"
	"telegram-channel-gate/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,
		"help":  r.handleHelpCommand,

		// These handlers are wrapped in our adminOnly middleware.
		"users": r.adminOnly(r.handleUsersCommand),
		"post":  r.adminOnly(r.handlePostCommand),
		"stats": r.adminOnly(r.handleStatsCommand),
	}
}

// adminTriggers routes the admin reply-keyboard button texts to the same
// handlers as the slash commands.
func (r *RealTelegramBotAdapter) adminTriggers() map[string]commandHandler {
	return map[string]commandHandler{
		r.translator.T("trigger_users"): r.adminOnly(r.handleUsersCommand),
		r.translator.T("trigger_post"):  r.adminOnly(r.handlePostCommand),
		r.translator.T("trigger_stats"): r.adminOnly(r.handleStatsCommand),
	}
}

// adminOnly gates a handler on the single configured admin handle. A
// non-admin hitting an admin trigger gets a refusal and no state changes.
func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		name := commandName(message)
		if !r.facade.Access.IsAdmin(message.From.UserName) {
			metrics.IncAdminCommand(name, "unauthorized")
			return r.SendMessage(ctx, adapter.SendMessageParams{
				ChatID: message.Chat.ID,
				Text:   r.translator.T("error_unauthorized"),
			})
		}
		metrics.IncAdminCommand(name, "authorized")
		return next(ctx, message)
	}
}

func commandName(message *tgbotapi.Message) string {
	if message.IsCommand() {
		return "/" + message.Command()
	}
	return message.Text
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	subscribed := r.facade.HandleStart(ctx, message.From.ID)

	firstName := message.From.FirstName
	if firstName == "" {
		firstName = message.From.UserName
	}

	if subscribed {
		if err := r.sendGatedWelcome(ctx, message.Chat.ID, r.translator.T("welcome_subscribed", firstName)); err != nil {
			return err
		}
	} else {
		if err := r.sendJoinPrompt(ctx, message.Chat.ID, r.translator.T("welcome_unsubscribed", firstName, r.cfg.ChannelUsername)); err != nil {
			return err
		}
	}

	if r.facade.Access.IsAdmin(message.From.UserName) {
		return r.sendAdminKeyboard(ctx, message.Chat.ID)
	}
	return nil
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, adapter.SendMessageParams{
		ChatID: message.Chat.ID,
		Text:   r.translator.T("help_message"),
	})
}

func (r *RealTelegramBotAdapter) handleUsersCommand(ctx context.Context, message *tgbotapi.Message) error {
	summary, err := r.facade.Stats.Summary(ctx)
	if err != nil {
		return r.SendMessage(ctx, adapter.SendMessageParams{
			ChatID: message.Chat.ID,
			Text:   r.translator.T("error_generic"),
		})
	}
	return r.SendMessage(ctx, adapter.SendMessageParams{
		ChatID: message.Chat.ID,
		Text:   r.translator.T("admin_users_count", summary.RecipientCount),
	})
}

// handlePostCommand flips the admin into the awaiting-payload state. The
// next message from the admin becomes the broadcast payload.
func (r *RealTelegramBotAdapter) handlePostCommand(ctx context.Context, message *tgbotapi.Message) error {
	if err := r.facade.Broadcast.RequestPost(ctx, message.From.ID); err != nil {
		r.log.Error().Err(err).Int64("tg_id", message.From.ID).Msg("failed to set pending-post flag")
		return r.SendMessage(ctx, adapter.SendMessageParams{
			ChatID: message.Chat.ID,
			Text:   r.translator.T("error_generic"),
		})
	}
	return r.SendMessage(ctx, adapter.SendMessageParams{
		ChatID: message.Chat.ID,
		Text:   r.translator.T("prompt_post"),
	})
}

func (r *RealTelegramBotAdapter) handleStatsCommand(ctx context.Context, message *tgbotapi.Message) error {
	summary, err := r.facade.Stats.Summary(ctx)
	if err != nil {
		return r.SendMessage(ctx, adapter.SendMessageParams{
			ChatID: message.Chat.ID,
			Text:   r.translator.T("error_generic"),
		})
	}

	var b strings.Builder
	b.WriteString(r.translator.T("stats_header", summary.RecipientCount))
	b.WriteString("\n\n")
	if len(summary.RecentRuns) == 0 {
		b.WriteString(r.translator.T("stats_no_runs"))
	} else {
		for _, run := range summary.RecentRuns {
			b.WriteString(r.translator.T("stats_run_line", string(run.Kind), run.Succeeded, run.Attempted))
			b.WriteString("\n")
		}
	}

	return r.SendMessage(ctx, adapter.SendMessageParams{
		ChatID:    message.Chat.ID,
		Text:      b.String(),
		ParseMode: tgbotapi.ModeHTML,
	})
}
