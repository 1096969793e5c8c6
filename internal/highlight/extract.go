// Package highlight anchors user selections in rendered documents and
// re-applies them after the document is rendered again.
//
// All offsets are byte offsets into TextIndex.Text. Browsers report
// character offsets; use TextIndex.ByteOffset to convert.
package highlight

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Run maps one text node of the rendered tree to its span in the flat text.
type Run struct {
	Node  *html.Node
	Start int
	End   int
}

// TextIndex is the flat text of a rendered tree plus the runs that produced it.
// Runs cover Text contiguously: Runs[i].End == Runs[i+1].Start.
type TextIndex struct {
	Text string
	Runs []Run
	root *html.Node
}

// SkipAttr marks an element whose text is not part of the readable content
// (chart graphics, navigation helpers).
const SkipAttr = "data-highlight-skip"

// Extract flattens the visible text under root in document order.
func Extract(root *html.Node) *TextIndex {
	idx := &TextIndex{root: root}
	if root == nil {
		return idx
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if n.Data == "" {
				return
			}
			start := b.Len()
			b.WriteString(n.Data)
			idx.Runs = append(idx.Runs, Run{Node: n, Start: start, End: b.Len()})
			return
		case html.CommentNode, html.DoctypeNode, html.RawNode:
			return
		case html.ElementNode:
			if invisible(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	idx.Text = b.String()
	return idx
}

func invisible(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Head, atom.Title,
		atom.Noscript, atom.Textarea, atom.Iframe, atom.Svg:
		return true
	}
	for _, a := range n.Attr {
		if a.Key == SkipAttr {
			return true
		}
	}
	return false
}

// Root returns the tree the index was extracted from.
func (idx *TextIndex) Root() *html.Node {
	return idx.root
}

// Len returns the flat text length in bytes.
func (idx *TextIndex) Len() int {
	return len(idx.Text)
}

// ByteOffset converts a character (rune) offset into a byte offset.
// The offset equal to the rune count maps to len(Text).
func (idx *TextIndex) ByteOffset(runeOffset int) (int, bool) {
	if runeOffset < 0 {
		return 0, false
	}
	n := 0
	for i := range idx.Text {
		if n == runeOffset {
			return i, true
		}
		n++
	}
	if n == runeOffset {
		return len(idx.Text), true
	}
	return 0, false
}

// RuneOffset converts a byte offset into a character offset.
func (idx *TextIndex) RuneOffset(byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(idx.Text) {
		byteOffset = len(idx.Text)
	}
	return utf8.RuneCountInString(idx.Text[:byteOffset])
}

// overlapping returns the runs that share at least one byte with rng.
func (idx *TextIndex) overlapping(rng Range) []Run {
	var out []Run
	for _, run := range idx.Runs {
		if run.End <= rng.Start {
			continue
		}
		if run.Start >= rng.End {
			break
		}
		out = append(out, run)
	}
	return out
}
