// Copyright 2024-2026 Aiku AI

package channelbot

import (
	"context"
	"strings"

	"github.com/aiku/channel-publisher/pkg/channelbot/htmlfmt"
	"github.com/aiku/channel-publisher/pkg/channelbot/mdfmt"
)

type commandHandler func(d *Dispatcher, ctx context.Context, operator int64, from origin, msg *Message, payload string)

var commands = map[string]commandHandler{
	"start":        (*Dispatcher).cmdWelcome,
	"help":         (*Dispatcher).cmdWelcome,
	"menu":         (*Dispatcher).cmdWelcome,
	"post":         (*Dispatcher).cmdPost,
	"post_spoiler": (*Dispatcher).cmdPostSpoiler,
	"post_md":      (*Dispatcher).cmdPostMarkdown,
	"send":         (*Dispatcher).cmdSend,
	"draft": func(d *Dispatcher, ctx context.Context, operator int64, from origin, _ *Message, _ string) {
		d.runDraftAction(ctx, operator, from, DraftStart)
	},
	"publish": func(d *Dispatcher, ctx context.Context, operator int64, from origin, _ *Message, _ string) {
		d.runDraftAction(ctx, operator, from, DraftPublish)
	},
	"preview": func(d *Dispatcher, ctx context.Context, operator int64, from origin, _ *Message, _ string) {
		d.runDraftAction(ctx, operator, from, DraftPreview)
	},
	"cancel": func(d *Dispatcher, ctx context.Context, operator int64, from origin, _ *Message, _ string) {
		d.runDraftAction(ctx, operator, from, DraftCancel)
	},
}

func (d *Dispatcher) runCommand(ctx context.Context, operator int64, from origin, msg *Message, cmd Command) {
	log := d.log.With().Int64("operator_id", operator).Str("command", cmd.Name).Logger()
	if handler, ok := commands[cmd.Name]; ok {
		log.Debug().Msg("Handling command")
		handler(d, ctx, operator, from, msg, cmd.Payload)
		return
	}
	if style, ok := htmlfmt.Lookup(cmd.Name); ok {
		d.selectStyle(ctx, operator, from, style)
		return
	}
	log.Debug().Msg("Unknown command")
	d.reply(ctx, from, msgUnknownCommand)
}

func (d *Dispatcher) cmdWelcome(ctx context.Context, _ int64, from origin, _ *Message, _ string) {
	d.replyWith(ctx, from, welcomeText(), &SendOptions{
		ReplyTo:        from.replyTo,
		Menu:           mainMenu(),
		DisablePreview: true,
	})
}

// cmdPost publishes trusted operator HTML verbatim.
func (d *Dispatcher) cmdPost(ctx context.Context, operator int64, from origin, _ *Message, payload string) {
	if payload == "" {
		d.reply(ctx, from, msgPostUsage)
		return
	}
	d.publishDirect(ctx, operator, from, "html", payload, htmlfmt.PlainText(payload))
}

func (d *Dispatcher) cmdPostSpoiler(ctx context.Context, operator int64, from origin, _ *Message, payload string) {
	if payload == "" {
		d.reply(ctx, from, msgPostSpoilerUsage)
		return
	}
	d.publishDirect(ctx, operator, from, "spoiler", htmlfmt.Spoiler(payload), payload)
}

func (d *Dispatcher) cmdPostMarkdown(ctx context.Context, operator int64, from origin, _ *Message, payload string) {
	markup := mdfmt.Convert(payload)
	if strings.TrimSpace(markup) == "" {
		d.reply(ctx, from, msgPostMarkdownUse)
		return
	}
	d.publishDirect(ctx, operator, from, "markdown", markup, htmlfmt.PlainText(markup))
}

func (d *Dispatcher) publishDirect(ctx context.Context, operator int64, from origin, kind, markup, copyText string) {
	if err := d.publishMarkup(ctx, markup, &SendOptions{CopyText: copyText}); err != nil {
		d.logPublishError(err, operator, kind)
		d.reply(ctx, from, msgPublishFailed)
		return
	}
	d.reply(ctx, from, msgPublished)
	d.mirror(ctx, markup)
}

// cmdSend copies the replied-to message to the channel.
func (d *Dispatcher) cmdSend(ctx context.Context, operator int64, from origin, msg *Message, _ string) {
	source := msg.ReplyTo
	if source == nil {
		d.reply(ctx, from, msgSendUsage)
		return
	}
	copyText := source.CopyableText()
	_, err := d.gateway.CopyMessage(ctx, d.channel, ChatTarget(msg.ChatID), source.ID, &SendOptions{CopyText: copyText})
	if err = publishRejected(err); err != nil {
		d.logPublishError(err, operator, "copy")
		d.reply(ctx, from, msgCopyFailed)
		return
	}
	d.reply(ctx, from, msgCopied)
	d.mirror(ctx, htmlfmt.Escape(copyText))
}
