// Copyright 2024-2026 Aiku AI

package htmlfmt

import (
	"errors"
	"strings"
	"testing"
)

func TestEscape(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<b>", "&lt;b&gt;"},
		{"&lt;", "&amp;lt;"},
		{`"quoted"`, `"quoted"`},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeNotIdempotent(t *testing.T) {
	t.Parallel()
	once := Escape("<")
	twice := Escape(once)
	if once == twice {
		t.Fatalf("escaping twice should double-escape, got %q both times", once)
	}
	if twice != "&amp;lt;" {
		t.Errorf("double escape: got %q", twice)
	}
}

func TestEscapeAttr(t *testing.T) {
	t.Parallel()
	got := EscapeAttr(`https://x.io/?a=1&b="2"`)
	want := `https://x.io/?a=1&amp;b=&quot;2&quot;`
	if got != want {
		t.Errorf("EscapeAttr: got %q, want %q", got, want)
	}
}

func TestRenderWrappingStyles(t *testing.T) {
	t.Parallel()
	tests := []struct {
		style Style
		want  string
	}{
		{StyleNormal, "hi &amp; bye"},
		{StyleBold, "<b>hi &amp; bye</b>"},
		{StyleItalic, "<i>hi &amp; bye</i>"},
		{StyleUnderline, "<u>hi &amp; bye</u>"},
		{StyleStrike, "<s>hi &amp; bye</s>"},
		{StyleSpoiler, "<tg-spoiler>hi &amp; bye</tg-spoiler>"},
		{StyleCode, "<code>hi &amp; bye</code>"},
		{StylePre, "<pre>hi &amp; bye</pre>"},
		{StyleQuote, "<blockquote>hi &amp; bye</blockquote>"},
		{StyleHeading, "🔹 <b>hi &amp; bye</b>\n" + headingRule},
		{StyleNote, "📌 <b>Note:</b> hi &amp; bye"},
		{StyleWarning, "⚠️ <b>Warning:</b> hi &amp; bye"},
		{StyleSuccess, "✅ <b>Success:</b> hi &amp; bye"},
		{StyleInfo, "ℹ️ <b>Info:</b> hi &amp; bye"},
	}
	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			t.Parallel()
			got, err := Render(tt.style, "hi & bye")
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got.Markup != tt.want {
				t.Errorf("Markup: got %q, want %q", got.Markup, tt.want)
			}
			if got.CopyText != "hi & bye" {
				t.Errorf("CopyText: got %q, want raw text", got.CopyText)
			}
			if got.Photo != "" || got.Buttons != nil {
				t.Errorf("unexpected photo/buttons: %+v", got)
			}
		})
	}
}

func TestRenderBoldEscapesOnce(t *testing.T) {
	t.Parallel()
	got, err := Render(StyleBold, "<b>")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got.Markup != "<b>&lt;b&gt;</b>" {
		t.Errorf("Markup: got %q, want %q", got.Markup, "<b>&lt;b&gt;</b>")
	}
}

func TestRenderBullets(t *testing.T) {
	t.Parallel()
	got, err := Render(StyleBullets, "a\nb\n\nc")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "• a\n• b\n• c"
	if got.Markup != want {
		t.Errorf("Markup: got %q, want %q", got.Markup, want)
	}
}

func TestRenderBulletsTrimsLines(t *testing.T) {
	t.Parallel()
	got, err := Render(StyleBullets, "  first  \r\n\t\n second<")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "• first\n• second&lt;"
	if got.Markup != want {
		t.Errorf("Markup: got %q, want %q", got.Markup, want)
	}
}

func TestRenderEmptyInput(t *testing.T) {
	t.Parallel()
	for _, d := range Styles() {
		_, err := Render(d.Style, " \n\n \t")
		if !errors.Is(err, ErrEmptyContent) {
			t.Errorf("%s: got %v, want ErrEmptyContent", d.ID, err)
		}
		if !IsRenderError(err) {
			t.Errorf("%s: error should be a *RenderError, got %T", d.ID, err)
		}
	}
}

func TestRenderLink(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		in       string
		markup   string
		copyText string
	}{
		{
			name:     "default scheme",
			in:       "Title | example.com",
			markup:   `<a href="https://example.com">Title</a>`,
			copyText: "Title - https://example.com",
		},
		{
			name:     "keeps http",
			in:       "Old|http://example.com/a?b=1&c=2",
			markup:   `<a href="http://example.com/a?b=1&amp;c=2">Old</a>`,
			copyText: "Old - http://example.com/a?b=1&c=2",
		},
		{
			name:     "uppercase scheme",
			in:       "X | HTTPS://EXAMPLE.COM",
			markup:   `<a href="HTTPS://EXAMPLE.COM">X</a>`,
			copyText: "X - HTTPS://EXAMPLE.COM",
		},
		{
			name:     "splits on first pipe",
			in:       "A & B | example.com/x|y",
			markup:   `<a href="https://example.com/x|y">A &amp; B</a>`,
			copyText: "A & B - https://example.com/x|y",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Render(StyleLink, tt.in)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got.Markup != tt.markup {
				t.Errorf("Markup: got %q, want %q", got.Markup, tt.markup)
			}
			if got.CopyText != tt.copyText {
				t.Errorf("CopyText: got %q, want %q", got.CopyText, tt.copyText)
			}
		})
	}
}

func TestRenderLinkMalformed(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"x", "title |", "| example.com", " | "} {
		_, err := Render(StyleLink, in)
		if !errors.Is(err, ErrMalformedLink) {
			t.Errorf("Render(link, %q): got %v, want ErrMalformedLink", in, err)
		}
	}
}

func TestRenderUnknownStyle(t *testing.T) {
	t.Parallel()
	for _, s := range []Style{StyleNone, Style(-1), styleCount, styleCount + 3} {
		_, err := Render(s, "text")
		if !errors.Is(err, ErrUnknownStyle) {
			t.Errorf("Render(%d): got %v, want ErrUnknownStyle", s, err)
		}
	}
}

func TestRenderActionButtons(t *testing.T) {
	t.Parallel()
	got, err := Render(StyleBold, "Big news\n\nButtons:\nRead | example.com/post\nJoin | https://t.me/x")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got.Markup != "<b>Big news</b>" {
		t.Errorf("Markup: got %q", got.Markup)
	}
	want := []Button{
		{Label: "Read", URL: "https://example.com/post"},
		{Label: "Join", URL: "https://t.me/x"},
	}
	if len(got.Buttons) != len(want) {
		t.Fatalf("Buttons: got %+v, want %+v", got.Buttons, want)
	}
	for i := range want {
		if got.Buttons[i] != want[i] {
			t.Errorf("Buttons[%d]: got %+v, want %+v", i, got.Buttons[i], want[i])
		}
	}
}

func TestRenderActionButtonsMalformed(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"text\nbuttons:\nno pipe here",
		"text\nbuttons:\n | example.com",
		"text\nbuttons:\n\n",
	}
	for _, in := range inputs {
		_, err := Render(StyleNormal, in)
		if !errors.Is(err, ErrMalformedTemplate) {
			t.Errorf("Render(%q): got %v, want ErrMalformedTemplate", in, err)
		}
	}
}

func TestRenderOnlyButtonsIsEmpty(t *testing.T) {
	t.Parallel()
	_, err := Render(StyleItalic, "buttons:\nA | a.io")
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("got %v, want ErrEmptyContent", err)
	}
}

func TestRenderedInline(t *testing.T) {
	t.Parallel()
	r := Rendered{Markup: "<b>T</b>"}
	if r.Inline() != "<b>T</b>" {
		t.Errorf("Inline without photo: got %q", r.Inline())
	}
	r.Photo = "https://img.io/a.png?x=1&y=2"
	want := "<b>T</b>\n🖼 <a href=\"https://img.io/a.png?x=1&amp;y=2\">Image</a>"
	if r.Inline() != want {
		t.Errorf("Inline with photo: got %q, want %q", r.Inline(), want)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()
	for _, d := range Styles() {
		s, ok := Lookup(d.ID)
		if !ok || s != d.Style {
			t.Errorf("Lookup(%q): got (%v, %v), want (%v, true)", d.ID, s, ok, d.Style)
		}
		if !strings.EqualFold(s.String(), d.ID) {
			t.Errorf("String(): got %q, want %q", s.String(), d.ID)
		}
	}
	for _, id := range []string{"", "Bold", "bolt", "none"} {
		if _, ok := Lookup(id); ok {
			t.Errorf("Lookup(%q) should fail", id)
		}
	}
}

func TestStylesCatalog(t *testing.T) {
	t.Parallel()
	styles := Styles()
	if len(styles) != int(styleCount)-1 {
		t.Fatalf("Styles: got %d entries, want %d", len(styles), styleCount-1)
	}
	for i, d := range styles {
		if d.Style != Style(i+1) {
			t.Errorf("catalog entry %d has style %d", i, d.Style)
		}
		if d.ID == "" || d.Label == "" {
			t.Errorf("catalog entry %d incomplete: %+v", i, d)
		}
	}
	for _, s := range []Style{StyleLink, StyleBullets, StyleCard, StyleCTA, StyleHeading} {
		if s.Hint() == "" {
			t.Errorf("%s should carry an input hint", s)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want string }{
		{"example.com", "https://example.com"},
		{" example.com ", "https://example.com"},
		{"http://a.io", "http://a.io"},
		{"https://a.io", "https://a.io"},
		{"", ""},
		{"ftp://a.io", "https://ftp://a.io"},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateCopyText(t *testing.T) {
	t.Parallel()
	short := "hello"
	if TruncateCopyText(short) != short {
		t.Errorf("short text should pass through")
	}
	long := strings.Repeat("আ", MaxCopyTextLength+10)
	got := TruncateCopyText(long)
	if n := len([]rune(got)); n != MaxCopyTextLength {
		t.Errorf("truncated rune count: got %d, want %d", n, MaxCopyTextLength)
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()
	if got := PlainText(""); got != "" {
		t.Errorf("empty: got %q", got)
	}
	got := PlainText("<b>Hello</b> &amp; <i>bye</i>")
	if got != "Hello & bye" {
		t.Errorf("PlainText: got %q, want %q", got, "Hello & bye")
	}
	got = PlainText("<b>one</b>\n<s>two</s>")
	if got != "one\ntwo" {
		t.Errorf("PlainText multiline: got %q, want %q", got, "one\ntwo")
	}
}
