package highlight

import (
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ContextWindow is the number of characters captured on each side of a
// highlight to tell repeated occurrences apart.
const ContextWindow = 20

// Anchor is the persisted description of one highlight. Anchors are never
// edited; an edit is a remove followed by a new anchor.
type Anchor struct {
	ID            string `json:"id"`
	DocID         string `json:"docId,omitempty"`
	Text          string `json:"text"`
	ContextBefore string `json:"contextBefore,omitempty"`
	ContextAfter  string `json:"contextAfter,omitempty"`
}

// SameContent reports whether two anchors describe the same highlight,
// ignoring their ids.
func (a Anchor) SameContent(b Anchor) bool {
	return a.Text == b.Text &&
		a.ContextBefore == b.ContextBefore &&
		a.ContextAfter == b.ContextAfter
}

// HasContext reports whether the anchor carries any surrounding context.
// Anchors saved before context capture existed have none.
func (a Anchor) HasContext() bool {
	return a.ContextBefore != "" || a.ContextAfter != ""
}

// BuildAnchor captures the selection [start, end) of idx as a new anchor.
// Leading and trailing whitespace is trimmed before context is taken.
func BuildAnchor(idx *TextIndex, start, end int, docID string) (Anchor, error) {
	rng, err := TrimSelection(idx.Text, start, end)
	if err != nil {
		return Anchor{}, err
	}

	return Anchor{
		ID:            uuid.NewString(),
		DocID:         docID,
		Text:          idx.Text[rng.Start:rng.End],
		ContextBefore: lastRunes(idx.Text[:rng.Start], ContextWindow),
		ContextAfter:  firstRunes(idx.Text[rng.End:], ContextWindow),
	}, nil
}

// BuildAnchorFromRunes is BuildAnchor for character offsets, as reported by
// a browser selection.
func BuildAnchorFromRunes(idx *TextIndex, runeStart, runeEnd int, docID string) (Anchor, error) {
	start, ok := idx.ByteOffset(runeStart)
	if !ok {
		return Anchor{}, &SelectionError{Start: runeStart, End: runeEnd, Reason: "start out of bounds"}
	}
	end, ok := idx.ByteOffset(runeEnd)
	if !ok {
		return Anchor{}, &SelectionError{Start: runeStart, End: runeEnd, Reason: "end out of bounds"}
	}
	return BuildAnchor(idx, start, end, docID)
}

// TrimSelection validates [start, end) against text and shrinks it past
// surrounding whitespace.
func TrimSelection(text string, start, end int) (Range, error) {
	switch {
	case start >= end:
		return Range{}, &SelectionError{Start: start, End: end, Reason: "empty or inverted"}
	case start < 0 || end > len(text):
		return Range{}, &SelectionError{Start: start, End: end, Reason: "out of bounds"}
	case !onBoundary(text, start) || !onBoundary(text, end):
		return Range{}, &SelectionError{Start: start, End: end, Reason: "splits a character"}
	}

	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	if start == end {
		return Range{}, &SelectionError{Start: start, End: end, Reason: "only whitespace"}
	}
	return Range{Start: start, End: end}, nil
}

func onBoundary(s string, i int) bool {
	return i == len(s) || utf8.RuneStart(s[i])
}

// lastRunes returns at most n trailing runes of s.
func lastRunes(s string, n int) string {
	i := len(s)
	for count := 0; count < n && i > 0; count++ {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}

// firstRunes returns at most n leading runes of s.
func firstRunes(s string, n int) string {
	i := 0
	for count := 0; count < n && i < len(s); count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}
