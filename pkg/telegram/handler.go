// Copyright 2024-2026 Aiku AI

package telegram

import (
	"context"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"

	"github.com/aiku/channel-publisher/pkg/channelbot"
)

// UpdateHandler consumes translated updates. *channelbot.Dispatcher
// implements it.
type UpdateHandler interface {
	HandleMessage(ctx context.Context, msg *channelbot.Message)
	HandleCallback(ctx context.Context, cb *channelbot.CallbackQuery)
}

// Intake routes telebot updates to an UpdateHandler.
type Intake struct {
	ctx     context.Context
	handler UpdateHandler
	log     zerolog.Logger
}

// Register installs the intake on bot. Channel posts have no handler and
// are dropped by telebot.
func Register(ctx context.Context, bot *tele.Bot, handler UpdateHandler, log zerolog.Logger) *Intake {
	in := &Intake{
		ctx:     ctx,
		handler: handler,
		log:     log.With().Str("component", "tg_intake").Logger(),
	}
	bot.Handle(tele.OnText, in.onMessage)
	bot.Handle(tele.OnMedia, in.onMessage)
	bot.Handle(tele.OnPoll, in.onMessage)
	bot.Handle(tele.OnCallback, in.onCallback)
	return in
}

func (in *Intake) onMessage(c tele.Context) error {
	msg := convertMessage(c.Message())
	if msg == nil {
		in.log.Debug().Msg("Dropping update without a message")
		return nil
	}
	in.log.Trace().
		Int("message_id", msg.ID).
		Int64("chat_id", msg.ChatID).
		Msg("Received message")
	in.handler.HandleMessage(in.ctx, msg)
	return nil
}

func (in *Intake) onCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	query := &channelbot.CallbackQuery{
		ID:   cb.ID,
		Data: cb.Data,
	}
	if cb.Sender != nil {
		query.Sender.SenderID = cb.Sender.ID
	}
	if cb.Message != nil {
		query.MessageID = cb.Message.ID
		if cb.Message.Chat != nil {
			query.ChatID = cb.Message.Chat.ID
			query.Sender.ChatID = cb.Message.Chat.ID
		}
	}
	if query.ChatID == 0 {
		query.ChatID = query.Sender.SenderID
	}
	in.handler.HandleCallback(in.ctx, query)
	return nil
}

func convertMessage(m *tele.Message) *channelbot.Message {
	if m == nil {
		return nil
	}
	msg := &channelbot.Message{
		ID:      m.ID,
		Text:    m.Text,
		Caption: m.Caption,
	}
	if m.Sender != nil {
		msg.Sender.SenderID = m.Sender.ID
	}
	if m.Chat != nil {
		msg.ChatID = m.Chat.ID
		msg.Sender.ChatID = m.Chat.ID
		msg.Private = m.Chat.Type == tele.ChatPrivate
		msg.ChannelPost = m.Chat.Type == tele.ChatChannel || m.Chat.Type == tele.ChatChannelPrivate
	}
	if m.Poll != nil {
		msg.PollQuestion = m.Poll.Question
	}
	if m.ReplyTo != nil {
		msg.ReplyTo = convertMessage(m.ReplyTo)
	}
	return msg
}
