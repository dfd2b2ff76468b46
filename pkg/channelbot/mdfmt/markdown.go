// Copyright 2024-2026 Aiku AI

// Package mdfmt converts operator Markdown to the Telegram HTML subset.
package mdfmt

import (
	"bytes"
	"html"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/aiku/channel-publisher/pkg/channelbot/htmlfmt"
)

const ruleLine = "──────────────"

var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once

	backslashRe = regexp.MustCompile(`\\([[:punct:]])`)
	safeLinkRe  = regexp.MustCompile(`(?i)^(?:https?://|mailto:|tg://)`)
)

func getParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.Strikethrough,
				extension.Linkify,
			),
		)
	})
	return parserInstance
}

// Convert renders Markdown as Telegram HTML. Raw HTML in the source is
// dropped and links with schemes other than http, https, mailto and tg
// are reduced to their text. Unsupported blocks degrade to plain text:
// headings become bold lines and list items get bullet or number prefixes.
func Convert(markdown string) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	source := []byte(markdown)
	document := getParser().Parser().Parse(text.NewReader(source))

	r := &telegramRenderer{source: source}
	_ = ast.Walk(document, r.walk)
	return strings.TrimSpace(string(r.out))
}

type listState struct {
	ordered bool
	counter int
}

type telegramRenderer struct {
	source []byte
	out    []byte
	lists  []listState
	// links records, per open link, whether an anchor tag was written.
	links []bool
}

func (r *telegramRenderer) write(s string) {
	r.out = append(r.out, s...)
}

func (r *telegramRenderer) trailingNewlines() int {
	n := 0
	for i := len(r.out) - 1; i >= 0 && r.out[i] == '\n'; i-- {
		n++
	}
	return n
}

func (r *telegramRenderer) ensureNewline() {
	if len(r.out) > 0 && r.trailingNewlines() < 1 {
		r.write("\n")
	}
}

func (r *telegramRenderer) ensureBlankLine() {
	if len(r.out) == 0 {
		return
	}
	for r.trailingNewlines() < 2 {
		r.write("\n")
	}
}

func (r *telegramRenderer) trimNewlines() {
	r.out = bytes.TrimRight(r.out, "\n")
}

func (r *telegramRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if !entering {
			r.ensureNewline()
			if len(r.lists) == 0 {
				r.ensureBlankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			r.ensureBlankLine()
			r.write("<b>")
		} else {
			r.write("</b>")
			r.ensureBlankLine()
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			r.writeCode(block, string(block.Language(r.source)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			r.writeCode(node, "")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			r.ensureBlankLine()
			r.write("<blockquote>")
		} else {
			r.trimNewlines()
			r.write("</blockquote>")
			r.ensureBlankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			r.lists = append(r.lists, listState{ordered: list.IsOrdered(), counter: list.Start})
		} else {
			r.lists = r.lists[:len(r.lists)-1]
			if len(r.lists) == 0 {
				r.ensureBlankLine()
			} else {
				r.ensureNewline()
			}
		}

	case ast.KindListItem:
		if entering {
			r.enterListItem()
		} else {
			r.ensureNewline()
		}

	case ast.KindThematicBreak:
		if entering {
			r.ensureBlankLine()
			r.write(ruleLine)
			r.ensureBlankLine()
		}

	case ast.KindHTMLBlock, ast.KindRawHTML:
		return ast.WalkSkipChildren, nil

	case ast.KindText:
		if entering {
			node := node.(*ast.Text)
			r.write(htmlfmt.Escape(unescapeText(node.Segment.Value(r.source))))
			if node.SoftLineBreak() || node.HardLineBreak() {
				r.write("\n")
			}
		}

	case ast.KindString:
		if entering {
			r.write(htmlfmt.Escape(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		tag := "i"
		if node.(*ast.Emphasis).Level >= 2 {
			tag = "b"
		}
		if entering {
			r.write("<" + tag + ">")
		} else {
			r.write("</" + tag + ">")
		}

	case extast.KindStrikethrough:
		if entering {
			r.write("<s>")
		} else {
			r.write("</s>")
		}

	case ast.KindCodeSpan:
		if entering {
			r.write("<code>" + htmlfmt.Escape(r.childText(node)) + "</code>")
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		link := node.(*ast.Link)
		if entering {
			dest := string(link.Destination)
			safe := safeLinkRe.MatchString(dest)
			if safe {
				r.write(`<a href="` + htmlfmt.EscapeAttr(dest) + `">`)
			}
			r.links = append(r.links, safe)
		} else {
			if r.links[len(r.links)-1] {
				r.write("</a>")
			}
			r.links = r.links[:len(r.links)-1]
		}

	case ast.KindAutoLink:
		if entering {
			link := node.(*ast.AutoLink)
			url := string(link.URL(r.source))
			label := htmlfmt.Escape(string(link.Label(r.source)))
			if safeLinkRe.MatchString(url) {
				r.write(`<a href="` + htmlfmt.EscapeAttr(url) + `">` + label + `</a>`)
			} else {
				r.write(label)
			}
		}

	case ast.KindImage:
		if entering {
			image := node.(*ast.Image)
			dest := string(image.Destination)
			alt := htmlfmt.Escape(r.childText(node))
			if alt == "" {
				alt = "Image"
			}
			if safeLinkRe.MatchString(dest) {
				r.write("🖼 " + `<a href="` + htmlfmt.EscapeAttr(dest) + `">` + alt + `</a>`)
			} else {
				r.write(alt)
			}
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (r *telegramRenderer) enterListItem() {
	r.ensureNewline()
	if len(r.lists) == 0 {
		return
	}
	top := &r.lists[len(r.lists)-1]
	r.write(strings.Repeat("  ", len(r.lists)-1))
	if top.ordered {
		r.write(strconv.Itoa(top.counter) + ". ")
		top.counter++
	} else {
		r.write("• ")
	}
}

func (r *telegramRenderer) writeCode(node ast.Node, language string) {
	var code strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(r.source))
	}
	body := htmlfmt.Escape(strings.TrimRight(code.String(), "\n"))

	r.ensureBlankLine()
	if language != "" {
		r.write(`<pre><code class="language-` + htmlfmt.EscapeAttr(language) + `">` + body + `</code></pre>`)
	} else {
		r.write("<pre>" + body + "</pre>")
	}
	r.ensureBlankLine()
}

// childText collects the literal text below node.
func (r *telegramRenderer) childText(node ast.Node) string {
	var b strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch child := child.(type) {
		case *ast.Text:
			b.Write(child.Segment.Value(r.source))
		case *ast.String:
			b.Write(child.Value)
		default:
			b.WriteString(r.childText(child))
		}
	}
	return b.String()
}

// unescapeText resolves entity references and backslash escapes left in
// raw text segments.
func unescapeText(segment []byte) string {
	return html.UnescapeString(backslashRe.ReplaceAllString(string(segment), "$1"))
}
