package render

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// Heading is a section heading of an article. ID matches the id attribute
// the renderer emits for it.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Outline returns the text of the first level-1 heading of source (empty if
// there is none) and its level 2 and 3 headings in document order.
func (r *Renderer) Outline(source []byte) (title string, headings []Heading) {
	doc := r.md.Parser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		headingText := nodeText(heading, source)
		switch {
		case heading.Level == 1 && title == "":
			title = headingText
		case heading.Level == 2 || heading.Level == 3:
			var id string
			if v, ok := heading.AttributeString("id"); ok {
				if b, ok := v.([]byte); ok {
					id = string(b)
				}
			}
			headings = append(headings, Heading{ID: id, Text: headingText, Level: heading.Level})
		}
		return ast.WalkSkipChildren, nil
	})

	return title, headings
}

// nodeText concatenates the inline text under n. Typographer output is
// stored as entities and is decoded.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.WriteString(html.UnescapeString(string(v.Value)))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}
