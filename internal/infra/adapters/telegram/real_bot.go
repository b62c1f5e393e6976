package telegram

import (
	"context"
	"errors"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-channel-gate/internal/application"
	"telegram-channel-gate/internal/config"
	"telegram-channel-gate/internal/domain/ports/adapter"
	"telegram-channel-gate/internal/infra/i18n"
	"telegram-channel-gate/internal/infra/metrics"
	red "telegram-channel-gate/internal/infra/redis"
)

// RealTelegramBotAdapter polls updates with tgbotapi and delegates to the
// BotFacade. It also implements the outbound adapter port the use cases
// consume, so one client handles both directions.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	translator  *i18n.Translator
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

func NewRealTelegramBotAdapter(
	cfg *config.BotConfig,
	translator *i18n.Translator,
	rateLimiter *red.RateLimiter,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if translator == nil {
		return nil, errors.New("translator is nil")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		translator:    translator,
		rateLimiter:   rateLimiter,
		log:           logger,
		updateWorkers: workers,
	}, nil
}

// AttachFacade wires the inbound side. The adapter is constructed before the
// use cases (they consume it as their outbound port), so the facade arrives
// after construction and before StartPolling.
func (r *RealTelegramBotAdapter) AttachFacade(facade *application.BotFacade) {
	r.facade = facade
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	if r.facade == nil {
		return errors.New("bot facade is not attached")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Warn().Err(err).Int("worker", id).Msg("update handler error")
					}
				}
			}
		}(i)
	}

	r.log.Info().Str("bot", r.bot.Self.UserName).Int("workers", r.updateWorkers).Msg("polling started")

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
	r.bot.StopReceivingUpdates()
}

// handleUpdate is the outermost handler boundary: nothing inside it may crash
// the process, and any blow-up degrades to the localized apology.
func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) (err error) {
	chatID := chatIDOf(update)
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Int64("chat_id", chatID).Msg("update handler panicked")
			if chatID != 0 {
				_ = r.SendMessage(ctx, adapter.SendMessageParams{
					ChatID: chatID,
					Text:   r.translator.T("error_generic"),
				})
			}
			err = nil
		}
	}()

	if update.CallbackQuery != nil {
		return r.handleCallback(ctx, update.CallbackQuery)
	}

	m := update.Message
	if m == nil || m.From == nil {
		return nil
	}
	from := m.From

	// Every interaction makes the sender a broadcast recipient.
	r.facade.HandleSeen(from.ID)

	command := "message"
	if m.IsCommand() {
		command = "/" + m.Command()
	}
	metrics.IncCommand(command)

	if r.rateLimiter != nil {
		allowed, rlErr := r.rateLimiter.Allow(ctx, red.UserCommandKey(from.ID, command), 20, time.Minute)
		if rlErr != nil {
			r.log.Warn().Err(rlErr).Int64("tg_id", from.ID).Msg("rate limiter unavailable")
		} else if !allowed {
			metrics.IncRateLimited()
			return nil
		}
	}

	if m.IsCommand() {
		if handler, ok := r.commandRoutes()[m.Command()]; ok {
			return handler(ctx, m)
		}
	} else if handler, ok := r.adminTriggers()[m.Text]; ok {
		return handler(ctx, m)
	}

	// Pending-post continuation: the next message from an awaiting admin is
	// the broadcast payload, whatever it turns out to be.
	if r.facade.Access.IsAdmin(from.UserName) && r.facade.Broadcast.AwaitingPost(ctx, from.ID) {
		return r.handleAdminPost(ctx, m)
	}

	return nil
}

func chatIDOf(update tgbotapi.Update) int64 {
	if update.Message != nil && update.Message.Chat != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

// ----- adapter.TelegramBotAdapter implementation -----

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil {
		msg.ReplyMarkup = buildMarkup(*params.ReplyMarkup)
	}
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealTelegramBotAdapter) SendPhoto(ctx context.Context, params adapter.SendMediaParams) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewPhoto(params.ChatID, tgbotapi.FileID(params.FileID))
	msg.Caption = params.Caption
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealTelegramBotAdapter) SendVideo(ctx context.Context, params adapter.SendMediaParams) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewVideo(params.ChatID, tgbotapi.FileID(params.FileID))
	msg.Caption = params.Caption
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealTelegramBotAdapter) MemberStatus(ctx context.Context, chatID, userID int64) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	member, err := r.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return "", err
	}
	return member.Status, nil
}

// buildMarkup converts the port's markup into tgbotapi keyboards.
// - URL buttons open a link (the mini-application opens through its URL)
// - Data buttons send callback data
// - a bare Text button falls back to callback data equal to its label
func buildMarkup(markup adapter.ReplyMarkup) interface{} {
	if !markup.IsInline {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(markup.Buttons))
		for _, row := range markup.Buttons {
			if len(row) == 0 {
				continue
			}
			btns := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, btn := range row {
				btns = append(btns, tgbotapi.NewKeyboardButton(btn.Text))
			}
			rows = append(rows, btns)
		}
		kb := tgbotapi.NewReplyKeyboard(rows...)
		kb.ResizeKeyboard = true
		return kb
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(markup.Buttons))
	for _, row := range markup.Buttons {
		if len(row) == 0 {
			continue
		}
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := btn.Text
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			btns = append(btns, kb)
		}
		rows = append(rows, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
