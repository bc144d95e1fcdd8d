package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"scribe/toc"
)

var _ parser.ASTTransformer = &anchorTransformer{}

var headingsKey = parser.NewContextKey()

// anchorTransformer gives every level 1-3 heading the id toc.AnchorID(i),
// overriding any {#id} the author wrote, and records the headings in the
// parser context.
type anchorTransformer struct{}

func (at *anchorTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var headings []toc.Heading
	_ = ast.Walk(doc, func(n ast.Node, enter bool) (ast.WalkStatus, error) {
		if !enter {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level < toc.MinLevel || h.Level > toc.MaxLevel {
			return ast.WalkSkipChildren, nil
		}

		id := toc.AnchorID(len(headings))
		h.SetAttributeString("id", []byte(id))
		headings = append(headings, toc.Heading{
			ID:    id,
			Text:  headingText(h, source),
			Level: h.Level,
		})
		return ast.WalkSkipChildren, nil
	})
	pc.Set(headingsKey, headings)
}

func headingText(h ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(h, func(n ast.Node, enter bool) (ast.WalkStatus, error) {
		if !enter {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

type headingAnchors struct{}

func (*headingAnchors) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithASTTransformers(util.Prioritized(&anchorTransformer{}, 100)),
	)
}
