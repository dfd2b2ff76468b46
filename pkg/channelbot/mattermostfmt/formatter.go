// Copyright 2024-2026 Remi Philippe
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mattermostfmt converts Telegram HTML to Mattermost markdown.
package mattermostfmt

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	boldRe       = regexp.MustCompile(`(?s)<(?:b|strong)>(.*?)</(?:b|strong)>`)
	italicRe     = regexp.MustCompile(`(?s)<(?:i|em)>(.*?)</(?:i|em)>`)
	underlineRe  = regexp.MustCompile(`(?s)<(?:u|ins)>(.*?)</(?:u|ins)>`)
	strikeRe     = regexp.MustCompile(`(?s)<(?:s|strike|del)>(.*?)</(?:s|strike|del)>`)
	spoilerRe    = regexp.MustCompile(`(?s)<(?:tg-spoiler|span class="tg-spoiler")>(.*?)</(?:tg-spoiler|span)>`)
	codeRe       = regexp.MustCompile(`(?s)<code>(.*?)</code>`)
	preRe        = regexp.MustCompile(`(?s)<pre>(?:<code[^>]*>)?(.*?)(?:</code>)?</pre>`)
	linkRe       = regexp.MustCompile(`(?s)<a href="([^"]+)"[^>]*>(.*?)</a>`)
	blockquoteRe = regexp.MustCompile(`(?s)<blockquote[^>]*>(.*?)</blockquote>`)
	brRe         = regexp.MustCompile(`<br\s*/?>`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
)

// Parse converts a Telegram HTML post to Mattermost markdown.
func Parse(markup string) string {
	if markup == "" {
		return ""
	}

	text := brRe.ReplaceAllString(markup, "\n")

	// Code blocks first so their content is not touched by inline rules.
	var blocks []string
	text = preRe.ReplaceAllStringFunc(text, func(match string) string {
		parts := preRe.FindStringSubmatch(match)
		blocks = append(blocks, "```\n"+html.UnescapeString(tagRe.ReplaceAllString(parts[1], ""))+"\n```")
		return blockToken(len(blocks) - 1)
	})
	text = codeRe.ReplaceAllString(text, "`$1`")

	// Inline formatting. Mattermost has no underline or spoiler markup.
	text = boldRe.ReplaceAllString(text, "**$1**")
	text = italicRe.ReplaceAllString(text, "_${1}_")
	text = strikeRe.ReplaceAllString(text, "~~$1~~")
	text = underlineRe.ReplaceAllString(text, "$1")
	text = spoilerRe.ReplaceAllString(text, "||$1||")

	// Links.
	text = linkRe.ReplaceAllString(text, "[$2]($1)")

	// Blockquotes.
	text = blockquoteRe.ReplaceAllStringFunc(text, func(match string) string {
		parts := blockquoteRe.FindStringSubmatch(match)
		lines := strings.Split(strings.TrimSpace(parts[1]), "\n")
		for i, line := range lines {
			lines[i] = "> " + strings.TrimSpace(line)
		}
		return strings.Join(lines, "\n")
	})

	// Strip remaining tags and decode entities.
	text = tagRe.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	for i, block := range blocks {
		text = strings.Replace(text, blockToken(i), block, 1)
	}

	return strings.TrimSpace(text)
}

func blockToken(i int) string {
	return "\x00BLOCK" + strconv.Itoa(i) + "\x00"
}
