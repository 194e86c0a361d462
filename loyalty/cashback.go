package loyalty

import (
	"math"
	"strconv"
)

// Tier is one cashback bracket. Brackets are half-open [Min, Max) and
// contiguous over [0, ∞); the last bracket runs to infinity.
type Tier struct {
	Min  float64
	Max  float64
	Rate float64
	Name string
}

var tiers = []Tier{
	{0, 10000, 0.005, "Novice"},
	{10000, 20000, 0.01, "Loyal"},
	{20000, 30000, 0.02, "Regular"},
	{30000, 40000, 0.03, "Premium"},
	{40000, 50000, 0.05, "VIP"},
	{50000, math.Inf(1), 0.05, "Elite"},
}

// Cashback is the result of a tier lookup. Amount keeps full precision;
// rounding happens only at display time.
type Cashback struct {
	Rate    float64 `json:"rate"`
	Amount  float64 `json:"amount"`
	Tier    string  `json:"tier"`
	Percent string  `json:"percent"`
}

// Compute maps an order amount to its loyalty tier and cashback value.
// Negative amounts are clamped to 0.
func Compute(amount float64) Cashback {
	if amount < 0 {
		amount = 0
	}
	t := tiers[len(tiers)-1]
	for _, candidate := range tiers {
		if amount >= candidate.Min && amount < candidate.Max {
			t = candidate
			break
		}
	}
	return Cashback{
		Rate:    t.Rate,
		Amount:  amount * t.Rate,
		Tier:    t.Name,
		Percent: strconv.FormatFloat(t.Rate*100, 'f', 1, 64),
	}
}

// Tiers returns a copy of the bracket table for display.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}
