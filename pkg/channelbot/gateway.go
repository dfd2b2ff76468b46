// Copyright 2024-2026 Aiku AI

package channelbot

import (
	"context"

	"github.com/aiku/channel-publisher/pkg/channelbot/htmlfmt"
)

// CopyButtonLabel is the label of the copy-to-clipboard button.
const CopyButtonLabel = "📋 Copy"

// CallbackButton is an inline keyboard button that sends a callback.
type CallbackButton struct {
	Label string
	Data  string
}

// SendOptions are the per-message extras a gateway send supports.
type SendOptions struct {
	// ReplyTo is the message id to reply to in the target chat.
	ReplyTo int
	// Buttons are URL buttons, one per row.
	Buttons []htmlfmt.Button
	// CopyText adds a copy button when non-empty. Gateways truncate it to
	// htmlfmt.MaxCopyTextLength.
	CopyText string
	// Menu is a grid of callback buttons, placed before Buttons.
	Menu [][]CallbackButton
	// DisablePreview turns off link previews.
	DisablePreview bool
}

// MessageRef identifies a sent message.
type MessageRef struct {
	ChatID    Target
	MessageID int
}

// Gateway is the outbound messaging contract. Markup is Telegram HTML.
// A non-nil error means the message was not accepted.
type Gateway interface {
	SendMarkup(ctx context.Context, to Target, markup string, opts *SendOptions) (MessageRef, error)
	SendPhoto(ctx context.Context, to Target, photo, caption string, opts *SendOptions) (MessageRef, error)
	CopyMessage(ctx context.Context, to, from Target, messageID int, opts *SendOptions) (MessageRef, error)
	AnswerCallback(ctx context.Context, callbackID, notice string) error
}

// Message is an inbound chat message, translated from the transport.
type Message struct {
	ID     int
	Sender Identity
	ChatID int64
	// Private is true for messages in a one-to-one chat with the bot.
	Private bool
	// ChannelPost marks posts made in a channel. They are never dispatched.
	ChannelPost bool

	Text    string
	Caption string
	// PollQuestion is set for poll messages.
	PollQuestion string
	ReplyTo      *Message
}

// Body returns the text or, for media, the caption.
func (m *Message) Body() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

// CopyableText is the text offered by the copy button when the message is
// copied to the channel.
func (m *Message) CopyableText() string {
	switch {
	case m.Caption != "":
		return m.Caption
	case m.Text != "":
		return m.Text
	default:
		return m.PollQuestion
	}
}

// CallbackQuery is an inbound inline keyboard press.
type CallbackQuery struct {
	ID     string
	Sender Identity
	// ChatID and MessageID locate the message carrying the keyboard.
	ChatID    int64
	MessageID int
	Data      string
}
