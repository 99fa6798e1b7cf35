package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"immobot/internal/domain"
)

// ChatService connects a messaging channel to the conversations: it runs the
// turn and pushes the reply back through the sender.
type ChatService struct {
	sessions *Sessions
	sender   domain.Sender
	claims   domain.Claimer
}

// DeliveryDedupeTTL is how long a provider message id is remembered.
const DeliveryDedupeTTL = 24 * time.Hour

func NewChatService(s *Sessions, sender domain.Sender) *ChatService {
	return &ChatService{sessions: s, sender: sender, claims: newMemClaimer()}
}

// WithClaimer replaces the in-process duplicate filter, e.g. with Redis so
// several instances share it.
func (c *ChatService) WithClaimer(cl domain.Claimer) *ChatService {
	if cl != nil {
		c.claims = cl
	}
	return c
}

// Reply runs one turn without sending anything.
func (c *ChatService) Reply(ctx context.Context, userID, text string) string {
	return c.sessions.Handle(ctx, userID, text)
}

// HandleInbound runs one turn and sends the reply. Delivery is fire-and-forget:
// a send failure is logged, the conversation has already moved on.
func (c *ChatService) HandleInbound(ctx context.Context, userID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	// Telegram clients open every chat with /start: begin a fresh conversation.
	if text == "/start" {
		c.sessions.Reset(ctx, userID)
		text = "hello"
	}
	reply := c.sessions.Handle(ctx, userID, text)
	if c.sender == nil || reply == "" {
		return
	}
	if err := c.sender.Send(ctx, userID, reply); err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("reply delivery failed")
	}
}

// HandleDelivery is HandleInbound for provider messages that carry an id.
// Providers retry deliveries, so a message id already handled is skipped.
// If the filter is unreachable the message is handled anyway.
func (c *ChatService) HandleDelivery(ctx context.Context, msgID, userID, text string) {
	if msgID != "" {
		first, err := c.claims.Claim(ctx, "msg:"+msgID, int(DeliveryDedupeTTL.Seconds()))
		switch {
		case err != nil:
			log.Warn().Err(err).Str("msg", msgID).Msg("duplicate check failed")
		case !first:
			log.Debug().Str("msg", msgID).Str("user", userID).Msg("redelivered message skipped")
			return
		}
	}
	c.HandleInbound(ctx, userID, text)
}
