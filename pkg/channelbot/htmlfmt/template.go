// Copyright 2024-2026 Aiku AI

package htmlfmt

import "strings"

// Minimum field counts for the positional templates.
const (
	cardMinFields = 4
	ctaMinFields  = 3
)

// renderCard parses "title | description | image | label | target".
// The target is optional; without it the label is shown as a call-to-action
// line in the caption instead of a button.
func renderCard(text string) (Rendered, error) {
	fields := splitFields(text)
	if len(fields) < cardMinFields {
		return Rendered{}, renderErr(StyleCard, ErrMalformedTemplate)
	}
	title, desc, image, label := fields[0], fields[1], fields[2], fields[3]
	if title == "" || image == "" || label == "" {
		return Rendered{}, renderErr(StyleCard, ErrMalformedTemplate)
	}
	var target string
	if len(fields) > cardMinFields {
		target = fields[4]
	}

	var caption strings.Builder
	caption.WriteString("<b>" + Escape(title) + "</b>")
	if desc != "" {
		caption.WriteString("\n\n" + Escape(desc))
	}
	out := Rendered{
		Photo:    image,
		CopyText: strings.TrimSpace(title + "\n" + desc),
	}
	if target != "" {
		out.Buttons = []Button{{Label: label, URL: NormalizeURL(target)}}
	} else {
		caption.WriteString("\n\n👉 <b>" + Escape(label) + "</b>")
	}
	out.Markup = caption.String()
	return out, nil
}

// renderCTA parses "title | label1 | url1 | label2 | url2". The second
// pair is used only when both of its halves are present.
func renderCTA(text string) (Rendered, error) {
	fields := splitFields(text)
	if len(fields) < ctaMinFields {
		return Rendered{}, renderErr(StyleCTA, ErrMalformedTemplate)
	}
	title, label1, url1 := fields[0], fields[1], fields[2]
	if title == "" || label1 == "" || url1 == "" {
		return Rendered{}, renderErr(StyleCTA, ErrMalformedTemplate)
	}
	buttons := []Button{{Label: label1, URL: NormalizeURL(url1)}}
	if len(fields) >= 5 && fields[3] != "" && fields[4] != "" {
		buttons = append(buttons, Button{Label: fields[3], URL: NormalizeURL(fields[4])})
	}
	return Rendered{
		Markup:   "🚀 <b>" + Escape(title) + "</b>",
		Buttons:  buttons,
		CopyText: title,
	}, nil
}
