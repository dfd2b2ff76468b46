// Copyright 2024-2026 Aiku AI

package htmlfmt

import (
	"strings"
	"unicode"
)

const headingRule = "──────────────"

// Rendered is the output of a successful render.
type Rendered struct {
	// Markup is the post body, or the caption when Photo is set.
	Markup string
	// Photo is an image URL or file ID for photo posts (cards).
	Photo   string
	Buttons []Button
	// CopyText is the plain text offered by the post's copy button.
	CopyText string
}

// Inline returns a text-only form of r, suitable as a draft block.
// A photo becomes a link line below the caption.
func (r Rendered) Inline() string {
	if r.Photo == "" {
		return r.Markup
	}
	return r.Markup + "\n🖼 <a href=\"" + EscapeAttr(r.Photo) + "\">Image</a>"
}

// Render converts operator text into Telegram HTML in the given style.
func Render(style Style, text string) (Rendered, error) {
	if !style.Valid() {
		return Rendered{}, renderErr(style, ErrUnknownStyle)
	}
	if strings.TrimSpace(text) == "" {
		return Rendered{}, renderErr(style, ErrEmptyContent)
	}

	switch style {
	case StyleCard:
		return renderCard(text)
	case StyleCTA:
		return renderCTA(text)
	}

	body, buttons, err := SplitActionButtons(text)
	if err != nil {
		return Rendered{}, renderErr(style, err)
	}
	if buttons != nil {
		body = strings.TrimRightFunc(body, unicode.IsSpace)
	}
	if strings.TrimSpace(body) == "" {
		return Rendered{}, renderErr(style, ErrEmptyContent)
	}

	var out Rendered
	if style == StyleLink {
		out, err = renderLink(body)
	} else {
		out.Markup, err = renderText(style, body)
		out.CopyText = body
	}
	if err != nil {
		return Rendered{}, renderErr(style, err)
	}
	out.Buttons = buttons
	return out, nil
}

// renderText handles every style whose input is free text.
func renderText(style Style, text string) (string, error) {
	safe := Escape(text)
	switch style {
	case StyleNormal:
		return safe, nil
	case StyleBold:
		return "<b>" + safe + "</b>", nil
	case StyleItalic:
		return "<i>" + safe + "</i>", nil
	case StyleUnderline:
		return "<u>" + safe + "</u>", nil
	case StyleStrike:
		return "<s>" + safe + "</s>", nil
	case StyleSpoiler:
		return Spoiler(text), nil
	case StyleCode:
		return "<code>" + safe + "</code>", nil
	case StylePre:
		return "<pre>" + safe + "</pre>", nil
	case StyleQuote:
		return "<blockquote>" + safe + "</blockquote>", nil
	case StyleHeading:
		return "🔹 <b>" + strings.TrimSpace(safe) + "</b>\n" + headingRule, nil
	case StyleBullets:
		return renderBullets(safe)
	case StyleNote:
		return "📌 <b>Note:</b> " + safe, nil
	case StyleWarning:
		return "⚠️ <b>Warning:</b> " + safe, nil
	case StyleSuccess:
		return "✅ <b>Success:</b> " + safe, nil
	case StyleInfo:
		return "ℹ️ <b>Info:</b> " + safe, nil
	case StyleNone, StyleLink, StyleCard, StyleCTA:
	}
	return "", ErrUnknownStyle
}

// Spoiler wraps escaped text in a spoiler tag.
func Spoiler(text string) string {
	return "<tg-spoiler>" + Escape(text) + "</tg-spoiler>"
}

func renderBullets(safe string) (string, error) {
	var items []string
	for _, line := range strings.Split(safe, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, "• "+line)
	}
	if len(items) == 0 {
		return "", ErrEmptyContent
	}
	return strings.Join(items, "\n"), nil
}

func renderLink(text string) (Rendered, error) {
	title, url, _ := splitPair(text)
	if title == "" || url == "" {
		return Rendered{}, ErrMalformedLink
	}
	url = NormalizeURL(url)
	return Rendered{
		Markup:   `<a href="` + EscapeAttr(url) + `">` + Escape(title) + `</a>`,
		CopyText: title + " - " + url,
	}, nil
}
