package highlight

import (
	"strings"
	"unicode/utf8"
)

// Range is a [Start, End) byte span of a flat text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// Candidate is one literal occurrence of an anchor's text with its context score.
type Candidate struct {
	Range Range
	Score int
}

// Candidates lists every occurrence of a.Text in idx, in document order.
// Occurrences may overlap ("aa" occurs twice in "aaa").
func Candidates(idx *TextIndex, a Anchor) []Candidate {
	if a.Text == "" {
		return nil
	}

	text := idx.Text
	var out []Candidate
	for from := 0; from+len(a.Text) <= len(text); {
		i := strings.Index(text[from:], a.Text)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(a.Text)
		out = append(out, Candidate{
			Range: Range{Start: start, End: end},
			Score: contextScore(text, start, end, a),
		})
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return out
}

// Resolve locates a in idx. Only exact occurrences of a.Text are considered.
// With several occurrences the one whose surroundings agree best with the
// recorded context wins; ties and context-free anchors take the first
// occurrence in document order.
func Resolve(idx *TextIndex, a Anchor) (Range, bool) {
	cands := Candidates(idx, a)
	if len(cands) == 0 {
		return Range{}, false
	}
	if len(cands) == 1 || !a.HasContext() {
		return cands[0].Range, true
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best.Range, true
}

// contextScore counts matching characters: the recorded before-context is
// compared backwards from start, the after-context forwards from end.
func contextScore(text string, start, end int, a Anchor) int {
	return commonSuffix(a.ContextBefore, text[:start]) + commonPrefix(a.ContextAfter, text[end:])
}

func commonSuffix(a, b string) int {
	n := 0
	for a != "" && b != "" {
		ra, sa := utf8.DecodeLastRuneInString(a)
		rb, sb := utf8.DecodeLastRuneInString(b)
		if ra != rb {
			break
		}
		a, b = a[:len(a)-sa], b[:len(b)-sb]
		n++
	}
	return n
}

func commonPrefix(a, b string) int {
	n := 0
	for a != "" && b != "" {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)
		if ra != rb {
			break
		}
		a, b = a[sa:], b[sb:]
		n++
	}
	return n
}
