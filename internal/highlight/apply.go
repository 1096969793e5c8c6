package highlight

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// MarkerClass is the class of every highlight wrapper element.
	MarkerClass = "highlighted-text"
	// AnchorAttr carries the owning anchor id on a highlight wrapper.
	AnchorAttr = "data-annotation-id"
)

// ApplyHighlight wraps the text of rng in highlight markers owned by anchorID.
// Each text node touched by rng is split in place; the parts inside rng are
// wrapped in <mark> elements that all carry anchorID. The flat text of the
// tree does not change.
//
// The tree is checked before it is modified: a stale index or a range that
// touches an existing highlight leaves the tree untouched.
func ApplyHighlight(idx *TextIndex, rng Range, anchorID string) error {
	if rng.Start < 0 || rng.End > len(idx.Text) || rng.Start >= rng.End {
		return fmt.Errorf("%w: [%d,%d) in text of length %d", ErrInvalidRange, rng.Start, rng.End, len(idx.Text))
	}

	runs := idx.overlapping(rng)
	for _, run := range runs {
		n := run.Node
		if n == nil || n.Type != html.TextNode || n.Parent == nil || n.Data != idx.Text[run.Start:run.End] {
			return fmt.Errorf("%w: run [%d,%d)", ErrStaleIndex, run.Start, run.End)
		}
		if owner, ok := HighlightOwner(n); ok {
			return fmt.Errorf("%w: [%d,%d) touches highlight %s", ErrOverlappingHighlight, rng.Start, rng.End, owner)
		}
	}

	for _, run := range runs {
		lo := max(rng.Start, run.Start) - run.Start
		hi := min(rng.End, run.End) - run.Start
		wrap(run.Node, lo, hi, anchorID)
	}
	return nil
}

// wrap splits text node n into before/inside/after and moves the inside
// part into a marker. Whitespace-only parts stay unwrapped so that table
// and list structure keeps its valid children.
func wrap(n *html.Node, lo, hi int, anchorID string) {
	before, inside, after := n.Data[:lo], n.Data[lo:hi], n.Data[hi:]
	if strings.TrimSpace(inside) == "" {
		return
	}

	parent := n.Parent
	if before != "" {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: before}, n)
	}
	marker := newMarker(anchorID)
	parent.InsertBefore(marker, n)
	parent.RemoveChild(n)
	n.Data = inside
	marker.AppendChild(n)
	if after != "" {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: after}, marker.NextSibling)
	}
}

func newMarker(anchorID string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Mark.String(),
		DataAtom: atom.Mark,
		Attr: []html.Attribute{
			{Key: "class", Val: MarkerClass},
			{Key: AnchorAttr, Val: anchorID},
			{Key: "title", Val: "Click to remove highlight"},
		},
	}
}

func isMarker(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Mark && markerID(n) != ""
}

func markerID(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == AnchorAttr {
			return a.Val
		}
	}
	return ""
}

// HighlightOwner returns the id of the highlight that wraps n, if any.
func HighlightOwner(n *html.Node) (string, bool) {
	for p := n; p != nil; p = p.Parent {
		if isMarker(p) {
			return markerID(p), true
		}
	}
	return "", false
}

// HighlightIDs lists the ids of applied highlights in document order, once each.
func HighlightIDs(root *html.Node) []string {
	var ids []string
	seen := make(map[string]bool)
	goquery.NewDocumentFromNode(root).Find("mark." + MarkerClass).Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr(AnchorAttr)
		if !ok || id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	})
	return ids
}

// RemoveHighlight unwraps every marker owned by anchorID and merges the
// text nodes it leaves behind. It returns the number of markers removed.
func RemoveHighlight(root *html.Node, anchorID string) int {
	markers := goquery.NewDocumentFromNode(root).
		Find("mark." + MarkerClass).
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			id, _ := s.Attr(AnchorAttr)
			return id == anchorID
		})

	parents := make(map[*html.Node]struct{})
	for _, m := range markers.Nodes {
		parent := m.Parent
		if parent == nil {
			continue
		}
		for c := m.FirstChild; c != nil; {
			next := c.NextSibling
			m.RemoveChild(c)
			parent.InsertBefore(c, m)
			c = next
		}
		parent.RemoveChild(m)
		parents[parent] = struct{}{}
	}
	for p := range parents {
		mergeText(p)
	}
	return markers.Length()
}

// mergeText joins adjacent text children of n.
func mergeText(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.TextNode && next != nil && next.Type == html.TextNode {
			c.Data += next.Data
			n.RemoveChild(next)
			continue
		}
		c = next
	}
}
