// Copyright 2024-2026 Aiku AI

package channelbot

import (
	"context"
	"errors"

	"github.com/aiku/channel-publisher/pkg/channelbot/htmlfmt"
)

func (d *Dispatcher) runDraftAction(ctx context.Context, operator int64, from origin, action DraftAction) {
	switch action {
	case DraftStart:
		d.sessions.StartDraft(operator)
		d.log.Debug().Int64("operator_id", operator).Msg("Draft started")
		d.reply(ctx, from, msgDraftStarted)
	case DraftCancel:
		d.sessions.DiscardDraft(operator)
		d.reply(ctx, from, msgCancelled)
	case DraftPublish:
		d.publishDraft(ctx, operator, from)
	case DraftPreview:
		d.previewDraft(ctx, operator, from)
	}
}

// publishDraft sends the joined draft to the channel. The draft is cleared
// only when the gateway accepts it.
func (d *Dispatcher) publishDraft(ctx context.Context, operator int64, from origin) {
	draft, ok := d.currentDraft(ctx, operator, from)
	if !ok {
		return
	}
	markup := draft.Markup()
	opts := &SendOptions{
		Buttons:  draft.Buttons,
		CopyText: htmlfmt.PlainText(markup),
	}
	if err := d.publishMarkup(ctx, markup, opts); err != nil {
		d.logPublishError(err, operator, "draft")
		d.reply(ctx, from, msgPublishFailed)
		return
	}
	d.sessions.DiscardDraft(operator)
	d.log.Info().
		Int64("operator_id", operator).
		Int("blocks", len(draft.Blocks)).
		Msg("Draft published")
	d.reply(ctx, from, msgDraftPublished)
	d.mirror(ctx, markup)
}

// previewDraft shows the draft in the operator's chat.
func (d *Dispatcher) previewDraft(ctx context.Context, operator int64, from origin) {
	draft, ok := d.currentDraft(ctx, operator, from)
	if !ok {
		return
	}
	d.replyWith(ctx, from, draft.Markup(), &SendOptions{
		ReplyTo: from.replyTo,
		Buttons: draft.Buttons,
	})
}

// currentDraft returns the open, non-empty draft or reports why there is
// none to the operator.
func (d *Dispatcher) currentDraft(ctx context.Context, operator int64, from origin) (*Draft, bool) {
	draft, err := d.sessions.ReadyDraft(operator)
	switch {
	case errors.Is(err, ErrNoDraft):
		d.reply(ctx, from, msgNoDraft)
		return nil, false
	case errors.Is(err, ErrEmptyDraft):
		d.reply(ctx, from, msgEmptyDraft)
		return nil, false
	}
	return draft, true
}
