package highlight

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment parses s into a <div> container.
func parseFragment(t *testing.T, s string) *html.Node {
	t.Helper()
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(s), container)
	if err != nil {
		t.Fatalf("ParseFragment(%q) error = %v", s, err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container
}

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func apply(t *testing.T, root *html.Node, rng Range, id string) {
	t.Helper()
	if err := ApplyHighlight(Extract(root), rng, id); err != nil {
		t.Fatalf("ApplyHighlight(%+v, %s) error = %v", rng, id, err)
	}
}

func checkContiguous(t *testing.T, idx *TextIndex) {
	t.Helper()
	if len(idx.Runs) == 0 {
		if idx.Text != "" {
			t.Errorf("no runs but text %q", idx.Text)
		}
		return
	}
	if idx.Runs[0].Start != 0 {
		t.Errorf("first run starts at %d", idx.Runs[0].Start)
	}
	for i := 0; i+1 < len(idx.Runs); i++ {
		if idx.Runs[i].End != idx.Runs[i+1].Start {
			t.Errorf("gap after run %d: %d != %d", i, idx.Runs[i].End, idx.Runs[i+1].Start)
		}
	}
	if last := idx.Runs[len(idx.Runs)-1].End; last != len(idx.Text) {
		t.Errorf("last run ends at %d, text length %d", last, len(idx.Text))
	}
	for _, run := range idx.Runs {
		if got := idx.Text[run.Start:run.End]; got != run.Node.Data {
			t.Errorf("run [%d,%d) = %q, node holds %q", run.Start, run.End, got, run.Node.Data)
		}
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		wantText string
		wantRuns int
	}{
		{
			name:     "inline elements",
			fragment: "<p>Hello <em>brave</em> world</p><p>Bye</p>",
			wantText: "Hello brave worldBye",
			wantRuns: 4,
		},
		{
			name:     "invisible elements contribute nothing",
			fragment: "<p>a<script>var x = 1;</script>b<style>p{}</style>c</p><svg><text>chart</text></svg>",
			wantText: "abc",
			wantRuns: 3,
		},
		{
			name:     "skip attribute",
			fragment: `<p>one</p><figure data-highlight-skip><figcaption>caption</figcaption></figure><p>two</p>`,
			wantText: "onetwo",
			wantRuns: 2,
		},
		{
			name:     "entities decoded",
			fragment: "<p>a &amp; b &lt; c</p>",
			wantText: "a & b < c",
			wantRuns: 1,
		},
		{
			name:     "comments ignored",
			fragment: "<p>x<!-- hidden -->y</p>",
			wantText: "xy",
			wantRuns: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := Extract(parseFragment(t, tt.fragment))
			if idx.Text != tt.wantText {
				t.Errorf("Extract() text = %q, want %q", idx.Text, tt.wantText)
			}
			if len(idx.Runs) != tt.wantRuns {
				t.Errorf("Extract() runs = %d, want %d", len(idx.Runs), tt.wantRuns)
			}
			checkContiguous(t, idx)
		})
	}
}

func TestExtract_Empty(t *testing.T) {
	for name, root := range map[string]*html.Node{"empty fragment": parseFragment(t, ""), "nil root": nil} {
		idx := Extract(root)
		if idx.Text != "" || len(idx.Runs) != 0 {
			t.Errorf("%s: Extract() = %q with %d runs, want empty", name, idx.Text, len(idx.Runs))
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	const fragment = "<h2>Title</h2><ul><li>one <strong>two</strong></li><li>three</li></ul>"
	first := Extract(parseFragment(t, fragment))
	second := Extract(parseFragment(t, fragment))

	if first.Text != second.Text {
		t.Errorf("Extract() text differs: %q vs %q", first.Text, second.Text)
	}
	spans := func(idx *TextIndex) [][2]int {
		out := make([][2]int, 0, len(idx.Runs))
		for _, r := range idx.Runs {
			out = append(out, [2]int{r.Start, r.End})
		}
		return out
	}
	if diff := cmp.Diff(spans(first), spans(second)); diff != "" {
		t.Errorf("run spans differ (-first +second):\n%s", diff)
	}
}

func TestTextIndex_Offsets(t *testing.T) {
	idx := &TextIndex{Text: "añb€c"}

	tests := []struct {
		runes int
		bytes int
		ok    bool
	}{
		{0, 0, true},
		{1, 1, true},
		{2, 3, true},
		{3, 4, true},
		{4, 7, true},
		{5, 8, true},
		{6, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := idx.ByteOffset(tt.runes)
		if ok != tt.ok {
			t.Errorf("ByteOffset(%d) ok = %v, want %v", tt.runes, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if got != tt.bytes {
			t.Errorf("ByteOffset(%d) = %d, want %d", tt.runes, got, tt.bytes)
		}
		if back := idx.RuneOffset(got); back != tt.runes {
			t.Errorf("RuneOffset(%d) = %d, want %d", got, back, tt.runes)
		}
	}
}

func TestBuildAnchor(t *testing.T) {
	idx := &TextIndex{Text: "The quick brown fox jumps over the lazy fox."}

	tests := []struct {
		name       string
		start, end int
		want       Anchor
		wantErr    bool
	}{
		{
			name:  "second fox",
			start: 40, end: 43,
			want: Anchor{DocID: "doc", Text: "fox", ContextBefore: "jumps over the lazy ", ContextAfter: "."},
		},
		{
			name:  "clipped at start",
			start: 0, end: 3,
			want: Anchor{DocID: "doc", Text: "The", ContextBefore: "", ContextAfter: " quick brown fox jum"},
		},
		{
			name:  "whitespace trimmed before context",
			start: 15, end: 20,
			want: Anchor{DocID: "doc", Text: "fox", ContextBefore: "The quick brown ", ContextAfter: " jumps over the lazy"},
		},
		{name: "inverted", start: 10, end: 5, wantErr: true},
		{name: "empty", start: 5, end: 5, wantErr: true},
		{name: "negative", start: -1, end: 3, wantErr: true},
		{name: "past end", start: 40, end: 45, wantErr: true},
		{name: "only whitespace", start: 3, end: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildAnchor(idx, tt.start, tt.end, "doc")
			if tt.wantErr {
				var selErr *SelectionError
				if !errors.Is(err, ErrInvalidSelection) || !errors.As(err, &selErr) {
					t.Errorf("BuildAnchor() error = %v, want *SelectionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildAnchor() error = %v", err)
			}
			if got.ID == "" {
				t.Error("BuildAnchor() left the id empty")
			}
			got.ID = ""
			if got != tt.want {
				t.Errorf("BuildAnchor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuildAnchor_Multibyte(t *testing.T) {
	idx := &TextIndex{Text: "Preis: 100 € pro Stück — günstig"}

	a, err := BuildAnchorFromRunes(idx, 17, 22, "doc")
	if err != nil {
		t.Fatalf("BuildAnchorFromRunes() error = %v", err)
	}
	if a.Text != "Stück" || a.ContextBefore != "Preis: 100 € pro " || a.ContextAfter != " — günstig" {
		t.Errorf("BuildAnchorFromRunes() = %+v", a)
	}

	if _, err := BuildAnchor(idx, 12, 13, "doc"); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("BuildAnchor() inside a character error = %v, want ErrInvalidSelection", err)
	}
	if _, err := BuildAnchorFromRunes(idx, 0, 99, "doc"); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("BuildAnchorFromRunes() past end error = %v, want ErrInvalidSelection", err)
	}
}

func TestBuildAnchor_FreshIDs(t *testing.T) {
	idx := &TextIndex{Text: "foo bar foo"}
	a, errA := BuildAnchor(idx, 0, 3, "doc")
	b, errB := BuildAnchor(idx, 0, 3, "doc")
	if errA != nil || errB != nil {
		t.Fatalf("BuildAnchor() errors = %v, %v", errA, errB)
	}

	if a.ID == b.ID {
		t.Errorf("BuildAnchor() reused id %s", a.ID)
	}
	if !a.SameContent(b) {
		t.Error("SameContent() = false for identical selections")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		anchor Anchor
		want   Range
		found  bool
	}{
		{
			name:   "context picks middle occurrence",
			text:   "foo bar foo baz foo",
			anchor: Anchor{Text: "foo", ContextBefore: "foo bar ", ContextAfter: " baz foo"},
			want:   Range{Start: 8, End: 11},
			found:  true,
		},
		{
			name:   "no context takes first occurrence",
			text:   "foo bar foo",
			anchor: Anchor{Text: "foo"},
			want:   Range{Start: 0, End: 3},
			found:  true,
		},
		{
			name:   "single occurrence ignores mismatched context",
			text:   "alpha beta gamma",
			anchor: Anchor{Text: "beta", ContextBefore: "zzz", ContextAfter: "yyy"},
			want:   Range{Start: 6, End: 10},
			found:  true,
		},
		{
			name:   "partial match is not found",
			text:   "foo bar foo",
			anchor: Anchor{Text: "foo baz"},
		},
		{
			name:   "absent text",
			text:   "foo bar foo",
			anchor: Anchor{Text: "fob", ContextBefore: "x"},
		},
		{
			name:   "empty text",
			text:   "foo",
			anchor: Anchor{},
		},
		{
			name:   "metacharacters are literal",
			text:   "a.b a+b axb",
			anchor: Anchor{Text: "a+b"},
			want:   Range{Start: 4, End: 7},
			found:  true,
		},
		{
			name:   "before context only",
			text:   "x foo y foo",
			anchor: Anchor{Text: "foo", ContextBefore: "y "},
			want:   Range{Start: 8, End: 11},
			found:  true,
		},
		{
			name:   "after context only",
			text:   "foo. foo!",
			anchor: Anchor{Text: "foo", ContextAfter: "!"},
			want:   Range{Start: 5, End: 8},
			found:  true,
		},
		{
			name:   "tie goes to first",
			text:   "ab foo ab foo",
			anchor: Anchor{Text: "foo", ContextBefore: "q"},
			want:   Range{Start: 3, End: 6},
			found:  true,
		},
		{
			name:   "scenario second fox",
			text:   "The quick brown fox jumps over the lazy fox.",
			anchor: Anchor{Text: "fox", ContextBefore: "lazy ", ContextAfter: "."},
			want:   Range{Start: 40, End: 43},
			found:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(&TextIndex{Text: tt.text}, tt.anchor)
			if ok != tt.found {
				t.Fatalf("Resolve() found = %v, want %v", ok, tt.found)
			}
			if ok && got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_StableAcrossCalls(t *testing.T) {
	idx := &TextIndex{Text: "foo bar foo"}
	a := Anchor{Text: "foo"}
	for i := 0; i < 10; i++ {
		if got, ok := Resolve(idx, a); !ok || got != (Range{Start: 0, End: 3}) {
			t.Fatalf("Resolve() call %d = %+v, %v", i, got, ok)
		}
	}
}

func TestCandidates_Overlapping(t *testing.T) {
	cands := Candidates(&TextIndex{Text: "aaa"}, Anchor{Text: "aa"})

	var got []Range
	for _, c := range cands {
		got = append(got, c.Range)
	}
	want := []Range{{Start: 0, End: 2}, {Start: 1, End: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Candidates() mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	root := parseFragment(t, "<h1>Foxes</h1><p>The quick brown <em>fox</em> jumps over the lazy fox.</p><p>A fox, again.</p>")
	idx := Extract(root)

	for start := 0; start < len(idx.Text); start++ {
		for end := start + 1; end <= len(idx.Text); end++ {
			trimmed, err := TrimSelection(idx.Text, start, end)
			if err != nil {
				continue
			}
			a, err := BuildAnchor(idx, start, end, "foxes")
			if err != nil {
				t.Fatalf("BuildAnchor(%d, %d) error = %v", start, end, err)
			}

			got, ok := Resolve(Extract(root), a)
			if !ok || got != trimmed {
				t.Fatalf("selection [%d,%d) %q resolved to %+v, %v; want %+v", start, end, a.Text, got, ok, trimmed)
			}
		}
	}
}

func TestApplyHighlight_AcrossElements(t *testing.T) {
	root := parseFragment(t, "<p>Hello <em>brave</em> world</p>")
	idx := Extract(root)
	before := idx.Text
	if idx.Root() != root {
		t.Fatal("Root() is not the extracted tree")
	}

	if err := ApplyHighlight(idx, Range{Start: 3, End: 14}, "a1"); err != nil {
		t.Fatalf("ApplyHighlight() error = %v", err)
	}

	mark := `<mark class="highlighted-text" data-annotation-id="a1" title="Click to remove highlight">`
	want := "<div><p>Hel" + mark + "lo </mark><em>" + mark + "brave</mark></em>" + mark + " wo</mark>rld</p></div>"
	if got := render(t, root); got != want {
		t.Errorf("ApplyHighlight() tree =\n%s\nwant\n%s", got, want)
	}

	after := Extract(root)
	if after.Text != before {
		t.Errorf("flat text changed: %q -> %q", before, after.Text)
	}
	checkContiguous(t, after)
	if diff := cmp.Diff([]string{"a1"}, HighlightIDs(root)); diff != "" {
		t.Errorf("HighlightIDs() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyHighlight_WhitespaceRunsStayUnwrapped(t *testing.T) {
	root := parseFragment(t, "<ul>\n<li>one</li>\n<li>two</li>\n</ul>")
	idx := Extract(root)
	start := strings.Index(idx.Text, "one")
	end := strings.Index(idx.Text, "two") + len("two")

	if err := ApplyHighlight(idx, Range{Start: start, End: end}, "list"); err != nil {
		t.Fatalf("ApplyHighlight() error = %v", err)
	}

	out := render(t, root)
	for _, want := range []string{"<ul>\n<li><mark", "</li>\n<li>"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered list %q missing %q", out, want)
		}
	}
	if got := Extract(root).Text; got != idx.Text {
		t.Errorf("flat text changed: %q -> %q", idx.Text, got)
	}
}

func TestApplyHighlight_Errors(t *testing.T) {
	t.Run("invalid range", func(t *testing.T) {
		idx := Extract(parseFragment(t, "<p>abc</p>"))
		for _, rng := range []Range{{Start: 2, End: 2}, {Start: 0, End: 4}} {
			if err := ApplyHighlight(idx, rng, "x"); !errors.Is(err, ErrInvalidRange) {
				t.Errorf("ApplyHighlight(%+v) error = %v, want ErrInvalidRange", rng, err)
			}
		}
	})

	t.Run("overlap leaves tree untouched", func(t *testing.T) {
		root := parseFragment(t, "<p>one two three</p>")
		apply(t, root, Range{Start: 4, End: 7}, "first")
		snapshot := render(t, root)

		if err := ApplyHighlight(Extract(root), Range{Start: 0, End: 9}, "second"); !errors.Is(err, ErrOverlappingHighlight) {
			t.Errorf("ApplyHighlight() error = %v, want ErrOverlappingHighlight", err)
		}
		if got := render(t, root); got != snapshot {
			t.Errorf("tree changed after rejected highlight:\n%s", got)
		}
	})

	t.Run("adjacent highlights are allowed", func(t *testing.T) {
		root := parseFragment(t, "<p>one two three</p>")
		apply(t, root, Range{Start: 4, End: 7}, "first")
		apply(t, root, Range{Start: 8, End: 13}, "second")
		if diff := cmp.Diff([]string{"first", "second"}, HighlightIDs(root)); diff != "" {
			t.Errorf("HighlightIDs() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stale index", func(t *testing.T) {
		root := parseFragment(t, "<p>one two three</p>")
		idx := Extract(root)
		if err := ApplyHighlight(idx, Range{Start: 0, End: 3}, "first"); err != nil {
			t.Fatalf("ApplyHighlight() error = %v", err)
		}
		if err := ApplyHighlight(idx, Range{Start: 8, End: 13}, "second"); !errors.Is(err, ErrStaleIndex) {
			t.Errorf("ApplyHighlight() on stale index error = %v, want ErrStaleIndex", err)
		}
	})
}

func TestRemoveHighlight(t *testing.T) {
	root := parseFragment(t, "<p>Hello <em>brave</em> world</p>")
	original := render(t, root)

	apply(t, root, Range{Start: 3, End: 14}, "a1")
	if n := RemoveHighlight(root, "unknown"); n != 0 {
		t.Errorf("RemoveHighlight(unknown) = %d, want 0", n)
	}
	if n := RemoveHighlight(root, "a1"); n != 3 {
		t.Errorf("RemoveHighlight(a1) = %d, want 3", n)
	}

	if got := render(t, root); got != original {
		t.Errorf("tree after removal = %s, want %s", got, original)
	}
	if ids := HighlightIDs(root); len(ids) != 0 {
		t.Errorf("HighlightIDs() = %v, want none", ids)
	}
	checkContiguous(t, Extract(root))
}

func TestHighlightOwner(t *testing.T) {
	root := parseFragment(t, "<p>alpha beta</p>")
	apply(t, root, Range{Start: 6, End: 10}, "owner")

	idx := Extract(root)
	if len(idx.Runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(idx.Runs))
	}
	if id, ok := HighlightOwner(idx.Runs[0].Node); ok {
		t.Errorf("HighlightOwner(plain) = %s, want none", id)
	}
	if id, ok := HighlightOwner(idx.Runs[1].Node); !ok || id != "owner" {
		t.Errorf("HighlightOwner(marked) = %s, %v; want owner", id, ok)
	}
}

func TestAnnotate(t *testing.T) {
	root := parseFragment(t, "<p>The quick brown fox jumps over the lazy fox.</p>")
	idx := Extract(root)

	second, err := BuildAnchor(idx, 40, 43, "fox")
	if err != nil {
		t.Fatalf("BuildAnchor() error = %v", err)
	}
	overlapping, err := BuildAnchor(idx, 35, 43, "fox")
	if err != nil {
		t.Fatalf("BuildAnchor() error = %v", err)
	}
	missing := Anchor{ID: "gone", Text: "wolf"}

	report := Annotate(root, []Anchor{second, missing, overlapping})

	outcomes := map[Outcome][]string{
		OutcomeApplied:     {second.ID},
		OutcomeNotFound:    {"gone"},
		OutcomeOverlapping: {overlapping.ID},
	}
	for outcome, want := range outcomes {
		if diff := cmp.Diff(want, report.IDs(outcome)); diff != "" {
			t.Errorf("IDs(%s) mismatch (-want +got):\n%s", outcome, diff)
		}
	}
	if n := report.Count(OutcomeFailed); n != 0 {
		t.Errorf("Count(failed) = %d, want 0", n)
	}
	if got := report.Results[0].Range; got != (Range{Start: 40, End: 43}) {
		t.Errorf("applied range = %+v, want [40,43)", got)
	}

	if got := Extract(root).Text; got != idx.Text {
		t.Errorf("flat text changed: %q -> %q", idx.Text, got)
	}
	if out := render(t, root); !strings.Contains(out, `lazy <mark class="highlighted-text" data-annotation-id="`+second.ID) {
		t.Errorf("rendered tree %s lacks the second fox highlight", out)
	}
}
