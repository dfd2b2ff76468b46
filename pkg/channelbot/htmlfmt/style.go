// Copyright 2024-2026 Aiku AI

package htmlfmt

// Style identifies one entry of the closed style catalog. The zero value
// StyleNone means no style is selected.
type Style int

const (
	StyleNone Style = iota
	StyleNormal
	StyleBold
	StyleItalic
	StyleUnderline
	StyleStrike
	StyleSpoiler
	StyleCode
	StylePre
	StyleQuote
	StyleHeading
	StyleBullets
	StyleNote
	StyleWarning
	StyleSuccess
	StyleInfo
	StyleLink
	StyleCard
	StyleCTA

	styleCount
)

// Descriptor is the static catalog entry for a style.
type Descriptor struct {
	Style Style
	// ID is the command name and callback value, e.g. "bold".
	ID    string
	Label string
	// Hint describes the expected input. Empty for free-form styles.
	Hint string
}

var catalog = [styleCount]Descriptor{
	StyleNone:      {StyleNone, "", "None", ""},
	StyleNormal:    {StyleNormal, "normal", "Normal", ""},
	StyleBold:      {StyleBold, "bold", "Bold", ""},
	StyleItalic:    {StyleItalic, "italic", "Italic", ""},
	StyleUnderline: {StyleUnderline, "underline", "Underline", ""},
	StyleStrike:    {StyleStrike, "strike", "Strikethrough", ""},
	StyleSpoiler:   {StyleSpoiler, "spoiler", "Spoiler / Blur", ""},
	StyleCode:      {StyleCode, "code", "Inline Code", ""},
	StylePre:       {StylePre, "pre", "Code Block", ""},
	StyleQuote:     {StyleQuote, "quote", "Quote", ""},
	StyleHeading:   {StyleHeading, "heading", "Heading", "Send a one-line heading."},
	StyleBullets: {StyleBullets, "bullets", "Bullet List",
		"Put every point on its own line, e.g.\nPoint 1\nPoint 2\nPoint 3"},
	StyleNote:    {StyleNote, "note", "Note", ""},
	StyleWarning: {StyleWarning, "warning", "Warning", ""},
	StyleSuccess: {StyleSuccess, "success", "Success", ""},
	StyleInfo:    {StyleInfo, "info", "Info", ""},
	StyleLink: {StyleLink, "link", "Link",
		"Format: title | https://example.com\nExample: My site | https://example.com"},
	StyleCard: {StyleCard, "card", "Card",
		"Format: title | description | image URL | button label | button URL\nThe button URL is optional."},
	StyleCTA: {StyleCTA, "cta", "Call to Action",
		"Format: title | label 1 | URL 1 | label 2 | URL 2\nThe second button is optional."},
}

var byID = func() map[string]Style {
	m := make(map[string]Style, styleCount)
	for _, d := range catalog {
		if d.ID != "" {
			m[d.ID] = d.Style
		}
	}
	return m
}()

// Lookup resolves a style identifier. Unknown identifiers return false; they
// never fall back to the plain style.
func Lookup(id string) (Style, bool) {
	s, ok := byID[id]
	return s, ok
}

// Styles lists every selectable style in catalog order.
func Styles() []Descriptor {
	out := make([]Descriptor, 0, styleCount-1)
	return append(out, catalog[StyleNormal:]...)
}

// Valid reports whether s is a selectable catalog style.
func (s Style) Valid() bool {
	return s > StyleNone && s < styleCount
}

// Descriptor returns the catalog entry for s.
func (s Style) Descriptor() Descriptor {
	if s < StyleNone || s >= styleCount {
		return Descriptor{Style: s, Label: "Unknown"}
	}
	return catalog[s]
}

func (s Style) String() string {
	if !s.Valid() {
		if s == StyleNone {
			return "none"
		}
		return "unknown"
	}
	return catalog[s].ID
}

// Label returns the human label of s.
func (s Style) Label() string {
	return s.Descriptor().Label
}

// Hint returns the structured-input hint of s, if any.
func (s Style) Hint() string {
	return s.Descriptor().Hint
}
