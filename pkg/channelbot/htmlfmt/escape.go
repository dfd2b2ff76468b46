// Copyright 2024-2026 Aiku AI

// Package htmlfmt renders operator text into Telegram HTML markup.
//
// Every style in the catalog escapes the operator's text exactly once before
// wrapping it. Escaping is not idempotent: escaping already escaped text
// double-escapes it, so callers must never feed rendered markup back into
// [Escape] or [Render].
package htmlfmt

import "strings"

// escaper replaces the three characters Telegram's HTML parse mode reserves.
// strings.Replacer matches in a single pass, so "&" is never re-escaped.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// Escape makes raw text safe to embed in Telegram HTML.
func Escape(text string) string {
	if text == "" {
		return ""
	}
	return escaper.Replace(text)
}

// EscapeAttr escapes text for use inside a double-quoted attribute value.
func EscapeAttr(text string) string {
	return strings.ReplaceAll(Escape(text), `"`, "&quot;")
}
