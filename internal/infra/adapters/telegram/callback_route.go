package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-channel-gate/internal/domain/model"
	"telegram-channel-gate/internal/domain/ports/adapter"
)

const cbVerifySubscription = "verify_subscription"

func (r *RealTelegramBotAdapter) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.From == nil {
		return nil
	}
	r.facade.HandleSeen(cb.From.ID)

	switch cb.Data {
	case cbVerifySubscription:
		return r.verifyCBRoute(ctx, cb)
	default:
		r.log.Warn().Str("data", cb.Data).Int64("tg_id", cb.From.ID).Msg("unknown callback")
		r.answerCallback(cb.ID, "")
		return nil
	}
}

// verifyCBRoute re-checks the channel membership after the user claims to
// have joined, and edits the original gating message in place.
func (r *RealTelegramBotAdapter) verifyCBRoute(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	r.answerCallback(cb.ID, r.translator.T("checking_subscription"))

	subscribed := r.facade.HandleVerify(ctx, cb.From.ID)

	if cb.Message == nil || cb.Message.Chat == nil {
		// No message to edit (too old); fall back to a fresh one.
		if subscribed {
			return r.sendGatedWelcome(ctx, cb.From.ID, r.translator.T("verify_success"))
		}
		return r.sendJoinPrompt(ctx, cb.From.ID, r.translator.T("verify_failed", r.cfg.ChannelUsername))
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	if subscribed {
		markup := buildMarkup(adapter.ReplyMarkup{
			Buttons:  [][]adapter.Button{{{Text: r.translator.T("button_webapp"), URL: r.cfg.WebAppURL}}},
			IsInline: true,
		})
		return r.editMessage(chatID, messageID, r.translator.T("verify_success"), markup)
	}

	markup := buildMarkup(adapter.ReplyMarkup{
		Buttons: [][]adapter.Button{
			{{Text: r.translator.T("button_join_channel"), URL: r.channelJoinURL()}},
			{{Text: r.translator.T("button_verify_again"), Data: cbVerifySubscription}},
		},
		IsInline: true,
	})
	return r.editMessage(chatID, messageID, r.translator.T("verify_failed", r.cfg.ChannelUsername), markup)
}

func (r *RealTelegramBotAdapter) editMessage(chatID int64, messageID int, text string, markup interface{}) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if kb, ok := markup.(tgbotapi.InlineKeyboardMarkup); ok {
		edit.ReplyMarkup = &kb
	}
	_, err := r.bot.Send(edit)
	return err
}

func (r *RealTelegramBotAdapter) answerCallback(callbackID, text string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		r.log.Warn().Err(err).Msg("failed to answer callback query")
	}
}

// sendGatedWelcome shows the web-app entry button to a verified subscriber.
func (r *RealTelegramBotAdapter) sendGatedWelcome(ctx context.Context, chatID int64, text string) error {
	return r.SendMessage(ctx, adapter.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgbotapi.ModeHTML,
		ReplyMarkup: &adapter.ReplyMarkup{
			Buttons:  [][]adapter.Button{{{Text: r.translator.T("button_webapp"), URL: r.cfg.WebAppURL}}},
			IsInline: true,
		},
	})
}

// sendJoinPrompt asks an unsubscribed user to join the channel and verify.
func (r *RealTelegramBotAdapter) sendJoinPrompt(ctx context.Context, chatID int64, text string) error {
	return r.SendMessage(ctx, adapter.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgbotapi.ModeHTML,
		ReplyMarkup: &adapter.ReplyMarkup{
			Buttons: [][]adapter.Button{
				{{Text: r.translator.T("button_join_channel"), URL: r.channelJoinURL()}},
				{{Text: r.translator.T("button_verify"), Data: cbVerifySubscription}},
			},
			IsInline: true,
		},
	})
}

func (r *RealTelegramBotAdapter) sendAdminKeyboard(ctx context.Context, chatID int64) error {
	return r.SendMessage(ctx, adapter.SendMessageParams{
		ChatID: chatID,
		Text:   r.translator.T("admin_panel"),
		ReplyMarkup: &adapter.ReplyMarkup{
			Buttons: [][]adapter.Button{
				{{Text: r.translator.T("trigger_users")}, {Text: r.translator.T("trigger_stats")}},
				{{Text: r.translator.T("trigger_post")}},
			},
		},
	})
}

func (r *RealTelegramBotAdapter) channelJoinURL() string {
	return "https://t.me/" + strings.TrimPrefix(r.cfg.ChannelUsername, "@")
}

// handleAdminPost consumes the awaited payload message. The payload variant
// is decided here, once, at the boundary.
func (r *RealTelegramBotAdapter) handleAdminPost(ctx context.Context, m *tgbotapi.Message) error {
	payload, buildErr := buildPayload(m)

	report, err := r.facade.HandleAdminPost(ctx, m.From.ID, payload, buildErr)
	if err != nil {
		return r.SendMessage(ctx, adapter.SendMessageParams{
			ChatID: m.Chat.ID,
			Text:   r.translator.T("post_unsupported"),
		})
	}

	return r.SendMessage(ctx, adapter.SendMessageParams{
		ChatID: m.Chat.ID,
		Text:   r.translator.T("post_report", report.Succeeded, report.Attempted, report.Failed()),
	})
}

func buildPayload(m *tgbotapi.Message) (*model.Payload, error) {
	switch {
	case len(m.Photo) > 0:
		// Telegram lists photo sizes smallest first; broadcast the largest.
		return model.NewPhotoPayload(m.Photo[len(m.Photo)-1].FileID, m.Caption)
	case m.Video != nil:
		return model.NewVideoPayload(m.Video.FileID, m.Caption)
	default:
		return model.NewTextPayload(m.Text)
	}
}
