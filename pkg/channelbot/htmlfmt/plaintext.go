// Copyright 2024-2026 Aiku AI

package htmlfmt

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MaxCopyTextLength is the Bot API limit for copy_text buttons.
const MaxCopyTextLength = 256

// PlainText strips tags from Telegram HTML and decodes entities. Line breaks
// are kept as they are; <br> becomes a newline.
func PlainText(markup string) string {
	if markup == "" {
		return ""
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}

// TruncateCopyText cuts text to MaxCopyTextLength runes.
func TruncateCopyText(text string) string {
	if utf8.RuneCountInString(text) <= MaxCopyTextLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxCopyTextLength])
}
