// Copyright 2024-2026 Aiku AI

package channelbot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aiku/channel-publisher/pkg/channelbot/htmlfmt"
)

// Operator-facing texts. All of them are Telegram HTML.
const (
	msgOwnerOnly      = "⛔ This bot can only be used by its owner."
	msgUnknownCommand = "❓ Unknown command. Send /help for the list of commands."
	msgIdleHint       = "ℹ️ To publish this message as is, reply to it with /send.\n\n" +
		"Or pick a style from the menu (/menu) and then send your text."
	msgPublished        = "✅ Posted to the channel."
	msgPublishFailed    = "❌ The channel did not accept the post. Check the logs and try again."
	msgCopied           = "✅ Message copied to the channel."
	msgCopyFailed       = "❌ Could not copy the message. Check the bot's channel permissions and the message type."
	msgSendUsage        = "Reply to the message you want to publish and send /send."
	msgPostUsage        = "Send the HTML after the command: <code>/post &lt;b&gt;Hello&lt;/b&gt;</code>"
	msgPostSpoilerUsage = "Send the text after the command: <code>/post_spoiler secret</code>"
	msgPostMarkdownUse  = "Send Markdown after the command: <code>/post_md **Hello** world</code>"
	msgDraftStarted     = "📝 Draft started. Pick a style for each block, send the text, then /publish.\n" +
		"/preview shows the draft here, /cancel discards it."
	msgCancelled      = "🗑 Cancelled. Nothing is armed and no draft is open."
	msgNoDraft        = "There is no draft. Start one with /draft."
	msgEmptyDraft     = "The draft is empty. Pick a style and send a block first."
	msgDraftPublished = "✅ Draft published to the channel."
	msgRenderFailed   = "❌ Could not format the text, please try again."
	msgEmptyContent   = "This style needs text. Send a text message (or media with a caption)."
)

func welcomeText() string {
	var b strings.Builder
	b.WriteString("👋 <b>Channel publisher</b>\n\n")
	b.WriteString("Pick a style, then send the text to publish it to the channel.\n\n")
	b.WriteString("<b>Styles</b>\n")
	for _, d := range htmlfmt.Styles() {
		fmt.Fprintf(&b, "/%s · %s\n", d.ID, htmlfmt.Escape(d.Label))
	}
	b.WriteString("\n<b>Drafts</b>\n")
	b.WriteString("/draft · start a multi-block post\n")
	b.WriteString("/preview · show the draft here\n")
	b.WriteString("/publish · publish the draft\n")
	b.WriteString("/cancel · discard the draft and style\n")
	b.WriteString("\n<b>Direct posts</b>\n")
	b.WriteString("/post &lt;html&gt; · publish raw HTML\n")
	b.WriteString("/post_spoiler &lt;text&gt; · publish a spoiler\n")
	b.WriteString("/post_md &lt;markdown&gt; · publish Markdown\n")
	b.WriteString("/send · copy the replied-to message to the channel")
	return b.String()
}

func armedText(session Session) string {
	style := session.Armed
	text := fmt.Sprintf("✏️ <b>%s</b> selected. Send the text now.", htmlfmt.Escape(style.Label()))
	if hint := style.Hint(); hint != "" {
		text += "\n\n" + htmlfmt.Escape(hint)
	}
	if session.Mode == ModeMulti {
		text += "\n\nThe result is added to your draft."
	}
	return text
}

func blockAddedText(index int) string {
	return fmt.Sprintf("➕ Block %d added to the draft. Pick a style for the next block or /publish.", index)
}

// renderErrorText turns a render failure into a corrective hint.
func renderErrorText(style htmlfmt.Style, err error) string {
	if !htmlfmt.IsRenderError(err) {
		return msgRenderFailed
	}
	var reason string
	switch {
	case errors.Is(err, htmlfmt.ErrEmptyContent):
		reason = msgEmptyContent
	case errors.Is(err, htmlfmt.ErrMalformedLink):
		reason = "❗ Use the format <code>title | https://example.com</code>"
	case errors.Is(err, htmlfmt.ErrMalformedTemplate):
		reason = "❗ Some required fields are missing or a button line is malformed."
	default:
		reason = msgRenderFailed
	}
	if hint := style.Hint(); hint != "" && !errors.Is(err, htmlfmt.ErrEmptyContent) {
		reason += "\n\n" + htmlfmt.Escape(hint)
	}
	return reason
}

func mainMenu() [][]CallbackButton {
	const perRow = 3
	var rows [][]CallbackButton
	var row []CallbackButton
	for _, d := range htmlfmt.Styles() {
		row = append(row, CallbackButton{Label: d.Label, Data: StyleCallbackData(d.Style)})
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows,
		[]CallbackButton{
			{Label: "📝 New draft", Data: DraftCallbackData(DraftStart)},
			{Label: "👀 Preview", Data: DraftCallbackData(DraftPreview)},
		},
		[]CallbackButton{
			{Label: "🚀 Publish", Data: DraftCallbackData(DraftPublish)},
			{Label: "🗑 Cancel", Data: DraftCallbackData(DraftCancel)},
		},
	)
	return rows
}
