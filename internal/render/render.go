// Package render turns article markdown into HTML trees ready for
// highlighting.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	ghhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ContainerID is the id of the element that wraps rendered article content.
const ContainerID = "markdown-content"

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer with GitHub-flavored markdown, automatic heading
// ids and payoff chart replacement for strategy code blocks.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.TaskList,
				extension.Strikethrough,
				extension.Linkify,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithUnsafe(),
				renderer.WithNodeRenderers(
					util.Prioritized(&payoffBlockRenderer{}, 100),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// RenderHTML converts markdown source to an HTML fragment.
func (r *Renderer) RenderHTML(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Render converts markdown source to a fresh tree rooted at a
// <div id="markdown-content"> element.
func (r *Renderer) Render(source []byte) (*html.Node, error) {
	fragment, err := r.RenderHTML(source)
	if err != nil {
		return nil, err
	}
	return ParseFragment(fragment)
}

// ParseFragment parses an HTML fragment into a new content container. Each
// call returns an independent tree.
func ParseFragment(fragment string) (*html.Node, error) {
	container := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Div.String(),
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "id", Val: ContainerID}},
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), container)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered html: %w", err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("failed to serialize html: %w", err)
		}
	}
	return buf.String(), nil
}
