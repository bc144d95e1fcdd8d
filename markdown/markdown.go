// Package markdown renders post content to HTML and reports the headings the
// table of contents is built from.
package markdown

import (
	"bytes"
	"io"

	chtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"scribe/toc"
)

// CodeStyle is the chroma style fenced code blocks are highlighted with.
const CodeStyle = "github"

// Document is one rendering of a Markdown source.
type Document struct {
	HTML     []byte
	Headings []toc.Heading
}

type Renderer struct {
	md  goldmark.Markdown
	pol *bluemonday.Policy
}

// NewRenderer builds a GFM renderer. Raw HTML in the source passes through;
// with sanitize set the output is cleaned with bluemonday's UGC policy,
// which is what you want for authors you don't trust.
func NewRenderer(sanitize bool) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			highlighting.NewHighlighting(
				highlighting.WithStyle(CodeStyle),
				highlighting.WithFormatOptions(codeFormatOptions()...),
			),
			&headingAnchors{},
		),
		goldmark.WithParserOptions(parser.WithAttribute()),
		goldmark.WithRendererOptions(
			htmlrenderer.WithUnsafe(),
		),
	)
	r := &Renderer{md: md}
	if sanitize {
		r.pol = bluemonday.UGCPolicy()
		// keep the highlighter's classes
		r.pol.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("pre", "code", "span")
	}
	return r
}

func codeFormatOptions() []chtml.Option {
	return []chtml.Option{
		chtml.TabWidth(4),
		chtml.WithClasses(true),
	}
}

// WriteCodeCSS writes the stylesheet for the classes in highlighted code.
func WriteCodeCSS(w io.Writer) error {
	return chtml.New(codeFormatOptions()...).WriteCSS(w, styles.Get(CodeStyle))
}

func (r *Renderer) Render(src []byte) (Document, error) {
	var buf bytes.Buffer

	pctx := parser.NewContext()
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(pctx))
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return Document{}, err
	}

	out := buf.Bytes()
	if r.pol != nil {
		out = r.pol.SanitizeBytes(out)
	}
	headings, _ := pctx.Get(headingsKey).([]toc.Heading)
	return Document{HTML: out, Headings: headings}, nil
}
