// Package payoff parses option-strategy markers found in article code blocks
// and computes the payoff curve drawn in their place.
package payoff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Strategy identifies a payoff formula.
type Strategy string

const (
	LongCall           Strategy = "long-call"
	LongPut            Strategy = "long-put"
	ShortCall          Strategy = "short-call"
	ShortPut           Strategy = "short-put"
	LongStraddle       Strategy = "long-straddle"
	ShortStraddle      Strategy = "short-straddle"
	LongStrangle       Strategy = "long-strangle"
	BullCallSpread     Strategy = "bull-call-spread"
	BearPutSpread      Strategy = "bear-put-spread"
	DualCurrency       Strategy = "dual_currency"
	PrincipalProtected Strategy = "principal_protected"
	CoveredCall        Strategy = "covered_call"
	CashSecuredPut     Strategy = "cash_secured_put"
	IronCondor         Strategy = "iron_condor"
)

var titles = map[Strategy]string{
	LongCall:           "Long Call Payoff",
	LongPut:            "Long Put Payoff",
	ShortCall:          "Short Call Payoff",
	ShortPut:           "Short Put Payoff",
	LongStraddle:       "Long Straddle Payoff",
	ShortStraddle:      "Short Straddle Payoff",
	LongStrangle:       "Long Strangle Payoff",
	BullCallSpread:     "Bull Call Spread Payoff",
	BearPutSpread:      "Bear Put Spread Payoff",
	DualCurrency:       "Dual Currency Deposit Payoff",
	PrincipalProtected: "Principal Protected Note Payoff",
	CoveredCall:        "Covered Call Payoff",
	CashSecuredPut:     "Cash-Secured Put Payoff",
	IronCondor:         "Iron Condor Payoff",
}

// Title returns the chart title of s.
func (s Strategy) Title() string {
	if t, ok := titles[s]; ok {
		return t
	}
	return "Option Payoff"
}

// Known reports whether s has a payoff formula.
func (s Strategy) Known() bool {
	_, ok := titles[s]
	return ok
}

// Defaults used when a marker leaves them out.
const (
	DefaultStrike  = 100.0
	DefaultPremium = 10.0
)

// ErrNoStrategy is returned when a block carries no recognizable marker.
var ErrNoStrategy = errors.New("no payoff strategy marker")

// Params are the inputs of a payoff chart. Zero strikes mean "derive from
// Strike".
type Params struct {
	Strategy Strategy `json:"strategy"`
	Strike   float64  `json:"strike"`
	Strike2  float64  `json:"strike2,omitempty"`
	Strike3  float64  `json:"strike3,omitempty"`
	Strike4  float64  `json:"strike4,omitempty"`
	Premium  float64  `json:"premium"`
}

// markerLine matches "STRATEGY: <name> :: <params>"; the params part is optional.
var markerLine = regexp.MustCompile(`(?mi)^STRATEGY:\s*(.*?)\s*(?:::(.*))?$`)

// IsMarkerBlock reports whether a code block should be considered for a
// payoff chart: it is tagged "ascii" or its content starts with a marker.
func IsMarkerBlock(language, content string) bool {
	if strings.EqualFold(language, "ascii") {
		return true
	}
	return len(content) >= len("STRATEGY:") && strings.EqualFold(content[:len("STRATEGY:")], "STRATEGY:")
}

// Parse reads the strategy marker of a code block. Names are matched
// case-insensitively, with spaces, hyphens and underscores treated alike.
// A block without a marker that mentions a bull call spread is still
// recognized. K1 takes precedence over K for the primary strike.
func Parse(content string) (Params, error) {
	p := Params{Premium: DefaultPremium}

	m := markerLine.FindStringSubmatch(content)
	if m == nil {
		if strings.Contains(strings.ToLower(content), "bull call spread") {
			p.Strategy = BullCallSpread
			p.Strike = DefaultStrike
			return p, nil
		}
		return Params{}, ErrNoStrategy
	}

	s, ok := lookup(m[1])
	if !ok {
		return Params{}, fmt.Errorf("%w: unknown strategy %q", ErrNoStrategy, strings.TrimSpace(m[1]))
	}
	p.Strategy = s

	values := parseValues(m[2])
	switch {
	case values["k1"] > 0:
		p.Strike = values["k1"]
	case values["k"] > 0:
		p.Strike = values["k"]
	default:
		p.Strike = DefaultStrike
	}
	p.Strike2 = values["k2"]
	p.Strike3 = values["k3"]
	p.Strike4 = values["k4"]
	if v := values["premium"]; v > 0 {
		p.Premium = v
	}
	return p, nil
}

func lookup(name string) (Strategy, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	for s := range titles {
		norm := strings.NewReplacer("-", "", "_", "").Replace(string(s))
		if norm == key {
			return s, true
		}
	}
	return "", false
}

// parseValues reads whitespace or comma separated key=value pairs. Keys are
// lowercased; values that are not positive numbers are ignored.
func parseValues(s string) map[string]float64 {
	out := make(map[string]float64)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || n <= 0 {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(k))] = n
	}
	return out
}
