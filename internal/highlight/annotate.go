package highlight

import (
	"errors"

	"golang.org/x/net/html"
)

// Outcome is the result of re-applying one stored anchor.
type Outcome string

const (
	OutcomeApplied     Outcome = "applied"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeOverlapping Outcome = "overlapping"
	OutcomeFailed      Outcome = "failed"
)

// Result records what happened to one anchor during Annotate.
type Result struct {
	AnchorID string
	Outcome  Outcome
	Range    Range
	Err      error
}

// Report summarizes an Annotate pass.
type Report struct {
	Results []Result
}

// Count returns how many anchors ended with outcome o.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// IDs returns the anchor ids that ended with outcome o, in pass order.
func (r Report) IDs(o Outcome) []string {
	var ids []string
	for _, res := range r.Results {
		if res.Outcome == o {
			ids = append(ids, res.AnchorID)
		}
	}
	return ids
}

// Annotate resolves and applies anchors to root in the given order.
// The tree is re-extracted before every anchor so earlier markers are
// visible to the overlap check. Anchors that cannot be placed are reported
// and skipped; they are not dropped by this package.
func Annotate(root *html.Node, anchors []Anchor) Report {
	report := Report{Results: make([]Result, 0, len(anchors))}
	for _, a := range anchors {
		idx := Extract(root)
		rng, ok := Resolve(idx, a)
		if !ok {
			report.Results = append(report.Results, Result{AnchorID: a.ID, Outcome: OutcomeNotFound})
			continue
		}

		res := Result{AnchorID: a.ID, Range: rng, Outcome: OutcomeApplied}
		if err := ApplyHighlight(idx, rng, a.ID); err != nil {
			res.Err = err
			res.Outcome = OutcomeFailed
			if errors.Is(err, ErrOverlappingHighlight) {
				res.Outcome = OutcomeOverlapping
			}
		}
		report.Results = append(report.Results, res)
	}
	return report
}
