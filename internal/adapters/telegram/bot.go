// Package telegram is the Telegram transport: a long-polling receiver and a
// text sender.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"immobot/internal/adapters/observability"
)

// Handler receives one text message; userID is the chat id.
type Handler func(ctx context.Context, userID, text string)

type Bot struct{ api *tgbotapi.BotAPI }

func New(token string) (*Bot, error) {
	return NewWithEndpoint(token, tgbotapi.APIEndpoint)
}

// NewWithEndpoint talks to a custom Bot API server; endpoint has the form
// "https://host/bot%s/%s".
func NewWithEndpoint(token, endpoint string) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	log.Info().Str("account", api.Self.UserName).Msg("telegram authorised")
	return &Bot{api: api}, nil
}

func (b *Bot) Send(ctx context.Context, recipient, text string) error {
	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram chat id %q: %w", recipient, err)
	}
	start := time.Now()
	_, err = b.api.Send(tgbotapi.NewMessage(chatID, text))
	status := 200
	if err != nil {
		status = 0
	}
	observability.ObserveExternal("telegram", "sendMessage", status, time.Since(start))
	return err
}

// Run polls for updates and hands every text message to h until ctx is done.
func (b *Bot) Run(ctx context.Context, h Handler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			h(ctx, strconv.FormatInt(update.Message.Chat.ID, 10), update.Message.Text)
		}
	}
}
