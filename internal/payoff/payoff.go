package payoff

import "math"

// Points is the number of price samples in a chart.
const Points = 21

// Point is one sample of a payoff curve.
type Point struct {
	Price  float64 `json:"price"`
	Payoff float64 `json:"payoff"`
}

// Chart is a computed payoff curve.
type Chart struct {
	Params
	Title  string  `json:"title"`
	Points []Point `json:"points"`
}

// Compute samples the payoff of p at Points prices spread evenly from half
// to one and a half times the primary strike.
func Compute(p Params) Chart {
	if p.Strike <= 0 {
		p.Strike = DefaultStrike
	}
	if p.Premium <= 0 {
		p.Premium = DefaultPremium
	}

	f := formula(p)
	lo, hi := p.Strike*0.5, p.Strike*1.5
	step := (hi - lo) / float64(Points-1)

	c := Chart{Params: p, Title: p.Strategy.Title(), Points: make([]Point, Points)}
	for i := range c.Points {
		price := lo + float64(i)*step
		c.Points[i] = Point{Price: price, Payoff: f(price)}
	}
	return c
}

// Range returns the smallest and largest payoff of c.
func (c Chart) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, pt := range c.Points {
		lo = math.Min(lo, pt.Payoff)
		hi = math.Max(hi, pt.Payoff)
	}
	return lo, hi
}

func or(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

func formula(p Params) func(float64) float64 {
	k1, prem := p.Strike, p.Premium

	switch p.Strategy {
	case LongCall:
		return func(s float64) float64 { return math.Max(-prem, s-k1-prem) }
	case LongPut:
		return func(s float64) float64 { return math.Max(-prem, k1-s-prem) }
	case ShortCall:
		return func(s float64) float64 { return math.Min(prem, prem-(s-k1)) }
	case ShortPut:
		return func(s float64) float64 { return math.Min(prem, prem-(k1-s)) }
	case LongStraddle:
		return func(s float64) float64 { return math.Max(-2*prem, math.Abs(s-k1)-2*prem) }
	case ShortStraddle:
		return func(s float64) float64 { return math.Min(2*prem, 2*prem-math.Abs(s-k1)) }
	case LongStrangle:
		put, call := or(p.Strike2, k1*0.9), or(p.Strike3, k1*1.1)
		return func(s float64) float64 {
			switch {
			case s <= put:
				return put - s - prem
			case s >= call:
				return s - call - prem
			default:
				return -prem
			}
		}
	case BullCallSpread:
		k2 := or(p.Strike2, k1*1.2)
		return func(s float64) float64 {
			switch {
			case s <= k1:
				return -prem
			case s >= k2:
				return k2 - k1 - prem
			default:
				return s - k1 - prem
			}
		}
	case BearPutSpread:
		k2 := or(p.Strike2, k1*0.8)
		return func(s float64) float64 {
			switch {
			case s >= k1:
				return -prem
			case s <= k2:
				return k1 - k2 - prem
			default:
				return k1 - s - prem
			}
		}
	case DualCurrency:
		// The deposit earns its yield in either currency.
		return func(float64) float64 { return prem }
	case PrincipalProtected:
		const participation = 0.5
		initial := k1 * 0.8
		return func(s float64) float64 {
			return k1 * participation * math.Max(0, (s-initial)/initial)
		}
	case CoveredCall:
		return func(s float64) float64 {
			if s <= k1 {
				return prem + (s - k1)
			}
			return prem
		}
	case CashSecuredPut:
		return func(s float64) float64 {
			if s >= k1 {
				return prem
			}
			return prem + (s - k1)
		}
	case IronCondor:
		k2, k3, k4 := or(p.Strike2, k1*1.1), or(p.Strike3, k1*1.2), or(p.Strike4, k1*1.3)
		return func(s float64) float64 {
			switch {
			case s >= k2 && s <= k3:
				return prem
			case s >= k1 && s < k2:
				return (s - k1) / (k2 - k1) * prem
			case s > k3 && s <= k4:
				return (k4 - s) / (k4 - k3) * prem
			default:
				return 0
			}
		}
	default:
		return func(float64) float64 { return 0 }
	}
}
