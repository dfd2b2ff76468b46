// Copyright 2024-2026 Remi Philippe
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package channelbot

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"go.mau.fi/util/exsync"

	"github.com/aiku/channel-publisher/pkg/channelbot/htmlfmt"
)

// RawResponder is implemented by gateway errors that keep the raw response
// of the rejected call.
type RawResponder interface {
	RawResponse() string
}

// Dispatcher turns inbound updates into session transitions and publishes.
// All transitions for one operator are serialized, including the publish
// round-trip.
type Dispatcher struct {
	gateway  Gateway
	guard    Guard
	channel  Target
	sessions *SessionStore
	locks    *exsync.Map[int64, *sync.Mutex]

	// Mirror, when set, receives every accepted channel post.
	Mirror Mirror

	log zerolog.Logger
}

// NewDispatcher creates a dispatcher publishing to channel on behalf of
// the operator.
func NewDispatcher(gateway Gateway, channel Target, operatorID int64, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		gateway:  gateway,
		guard:    Guard{OperatorID: operatorID},
		channel:  channel,
		sessions: NewSessionStore(),
		locks:    exsync.NewMap[int64, *sync.Mutex](),
		log:      log.With().Str("component", "dispatcher").Logger(),
	}
}

// Sessions exposes the session store.
func (d *Dispatcher) Sessions() *SessionStore {
	return d.sessions
}

// origin is where operator feedback goes.
type origin struct {
	chat    Target
	replyTo int
}

func (d *Dispatcher) lock(operator int64) func() {
	mu, _ := d.locks.GetOrSet(operator, &sync.Mutex{})
	mu.Lock()
	return mu.Unlock
}

// HandleMessage processes a chat message. Channel posts are ignored.
// Messages from anyone but the operator get the rejection notice and
// change nothing.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg *Message) {
	if msg == nil || msg.ChannelPost {
		return
	}
	from := origin{chat: ChatTarget(msg.ChatID), replyTo: msg.ID}
	if err := d.guard.Check(msg.Sender); err != nil {
		d.log.Info().Err(err).
			Int64("sender_id", msg.Sender.Resolve()).
			Msg("Rejected message")
		d.reply(ctx, from, msgOwnerOnly)
		return
	}

	operator := msg.Sender.Resolve()
	unlock := d.lock(operator)
	defer unlock()

	if cmd, ok := ParseCommand(msg.Text); ok {
		d.runCommand(ctx, operator, from, msg, cmd)
		return
	}
	d.handleText(ctx, operator, from, msg)
}

// HandleCallback processes an inline keyboard press. Unknown payloads are
// acknowledged without any state change.
func (d *Dispatcher) HandleCallback(ctx context.Context, cb *CallbackQuery) {
	if cb == nil {
		return
	}
	if err := d.guard.Check(cb.Sender); err != nil {
		d.log.Info().Err(err).
			Int64("sender_id", cb.Sender.Resolve()).
			Msg("Rejected callback")
		d.answer(ctx, cb.ID, msgOwnerOnly)
		return
	}

	operator := cb.Sender.Resolve()
	unlock := d.lock(operator)
	defer unlock()

	decoded, err := DecodeCallback(cb.Data)
	if err != nil {
		d.log.Debug().Err(err).Msg("Ignoring callback")
		d.answer(ctx, cb.ID, "")
		return
	}

	from := origin{chat: ChatTarget(cb.ChatID), replyTo: cb.MessageID}
	switch decoded.Kind {
	case CallbackStyle:
		d.answer(ctx, cb.ID, decoded.Style.Label())
		d.selectStyle(ctx, operator, from, decoded.Style)
	case CallbackDraft:
		d.answer(ctx, cb.ID, "")
		d.runDraftAction(ctx, operator, from, decoded.Action)
	}
}

func (d *Dispatcher) selectStyle(ctx context.Context, operator int64, from origin, style htmlfmt.Style) {
	session := d.sessions.Arm(operator, style)
	d.log.Debug().
		Int64("operator_id", operator).
		Stringer("style", style).
		Stringer("mode", session.Mode).
		Msg("Style armed")
	d.reply(ctx, from, armedText(session))
}

// handleText handles a non-command message.
func (d *Dispatcher) handleText(ctx context.Context, operator int64, from origin, msg *Message) {
	session := d.sessions.Session(operator)
	if !session.AwaitingInput() {
		if !msg.Private {
			d.log.Debug().Int64("chat_id", msg.ChatID).Msg("Ignoring idle text outside a private chat")
			return
		}
		d.reply(ctx, from, msgIdleHint)
		return
	}

	rendered, err := htmlfmt.Render(session.Armed, msg.Body())
	if err != nil {
		d.log.Debug().Err(err).
			Int64("operator_id", operator).
			Stringer("style", session.Armed).
			Msg("Render failed")
		d.reply(ctx, from, renderErrorText(session.Armed, err))
		return
	}

	if session.Mode == ModeMulti {
		index, err := d.sessions.AppendBlock(operator, rendered.Inline(), rendered.Buttons)
		if err == nil {
			d.sessions.Disarm(operator)
			d.log.Debug().
				Int64("operator_id", operator).
				Stringer("style", session.Armed).
				Int("block", index).
				Msg("Draft block added")
			d.reply(ctx, from, blockAddedText(index))
			return
		}
		// The draft went away under an armed multi session; publish directly.
		d.log.Warn().Int64("operator_id", operator).Msg("Armed for a draft that no longer exists")
	}

	if _, err := d.publishRendered(ctx, rendered); err != nil {
		d.logPublishError(err, operator, "styled")
		d.reply(ctx, from, msgPublishFailed)
		return
	}
	d.sessions.Clear(operator)
	d.reply(ctx, from, msgPublished)
	d.mirror(ctx, rendered.Inline())
}

func (d *Dispatcher) publishRendered(ctx context.Context, rendered htmlfmt.Rendered) (MessageRef, error) {
	opts := &SendOptions{
		Buttons:  rendered.Buttons,
		CopyText: rendered.CopyText,
	}
	var (
		ref MessageRef
		err error
	)
	if rendered.Photo != "" {
		ref, err = d.gateway.SendPhoto(ctx, d.channel, rendered.Photo, rendered.Markup, opts)
	} else {
		ref, err = d.gateway.SendMarkup(ctx, d.channel, rendered.Markup, opts)
	}
	return ref, publishRejected(err)
}

func (d *Dispatcher) publishMarkup(ctx context.Context, markup string, opts *SendOptions) error {
	_, err := d.gateway.SendMarkup(ctx, d.channel, markup, opts)
	return publishRejected(err)
}

func (d *Dispatcher) reply(ctx context.Context, to origin, markup string) {
	d.replyWith(ctx, to, markup, &SendOptions{ReplyTo: to.replyTo, DisablePreview: true})
}

func (d *Dispatcher) replyWith(ctx context.Context, to origin, markup string, opts *SendOptions) {
	if _, err := d.gateway.SendMarkup(ctx, to.chat, markup, opts); err != nil {
		d.log.Warn().Err(err).
			Stringer("chat_id", to.chat).
			Msg("Failed to send operator feedback")
	}
}

func (d *Dispatcher) answer(ctx context.Context, callbackID, notice string) {
	if err := d.gateway.AnswerCallback(ctx, callbackID, notice); err != nil {
		d.log.Warn().Err(err).Str("callback_id", callbackID).Msg("Failed to answer callback")
	}
}

func (d *Dispatcher) logPublishError(err error, operator int64, kind string) {
	evt := d.log.Error().Err(err).
		Int64("operator_id", operator).
		Str("kind", kind).
		Stringer("channel", d.channel)
	var raw RawResponder
	if errors.As(err, &raw) {
		evt = evt.Str("payload", raw.RawResponse())
	}
	evt.Msg("Publish rejected")
}

func (d *Dispatcher) mirror(ctx context.Context, markup string) {
	if d.Mirror == nil || strings.TrimSpace(markup) == "" {
		return
	}
	if err := d.Mirror.MirrorPost(ctx, markup); err != nil {
		d.log.Warn().Err(err).Msg("Failed to mirror post")
	}
}
