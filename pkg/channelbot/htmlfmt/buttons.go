// Copyright 2024-2026 Aiku AI

package htmlfmt

import (
	"regexp"
	"strings"
)

// Button is a URL button attached below a post.
type Button struct {
	Label string
	URL   string
}

// ButtonsMarker introduces the inline action-button block. It must stand
// on its own line; each following line is "label | url".
const ButtonsMarker = "buttons:"

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL prepends https:// when url has no http(s) scheme.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" || schemeRe.MatchString(url) {
		return url
	}
	return "https://" + url
}

// splitPair splits "left | right" on the first pipe and trims both halves.
func splitPair(s string) (left, right string, ok bool) {
	left, right, ok = strings.Cut(s, "|")
	if !ok {
		return strings.TrimSpace(s), "", false
	}
	return strings.TrimSpace(left), strings.TrimSpace(right), true
}

// splitFields splits a pipe-delimited template into trimmed fields.
func splitFields(s string) []string {
	fields := strings.Split(s, "|")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// SplitActionButtons separates a trailing action-button block from text.
// Text without the marker line is returned unchanged with no buttons.
func SplitActionButtons(text string) (string, []Button, error) {
	lines := strings.Split(text, "\n")
	markerAt := -1
	for i, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line), ButtonsMarker) {
			markerAt = i
			break
		}
	}
	if markerAt < 0 {
		return text, nil, nil
	}

	var buttons []Button
	for _, line := range lines[markerAt+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		label, url, ok := splitPair(line)
		if !ok || label == "" || url == "" {
			return "", nil, ErrMalformedTemplate
		}
		buttons = append(buttons, Button{Label: label, URL: NormalizeURL(url)})
	}
	if len(buttons) == 0 {
		return "", nil, ErrMalformedTemplate
	}
	return strings.Join(lines[:markerAt], "\n"), buttons, nil
}
