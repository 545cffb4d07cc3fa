package game

import (
	"duo-casino/internal/rng"

	"github.com/shopspring/decimal"
)

// Segment is one face of the bonus wheel. Multiplier is the total returned
// per unit staked, so 2 pays back twice the bet.
type Segment struct {
	Label      string
	Multiplier decimal.Decimal
	Weight     int
}

// DefaultWheel mirrors the demo table: the x0 face is shown but carries no
// weight.
var DefaultWheel = []Segment{
	{Label: "x0", Multiplier: decimal.Zero, Weight: 0},
	{Label: "x0.5", Multiplier: decimal.RequireFromString("0.5"), Weight: 20},
	{Label: "x1", Multiplier: decimal.NewFromInt(1), Weight: 20},
	{Label: "x1.5", Multiplier: decimal.RequireFromString("1.5"), Weight: 20},
	{Label: "x2", Multiplier: decimal.NewFromInt(2), Weight: 20},
	{Label: "x2.5", Multiplier: decimal.RequireFromString("2.5"), Weight: 20},
}

type SegmentView struct {
	Label  string  `json:"label"`
	Mult   float64 `json:"mult"`
	Weight int     `json:"weight"`
}

func (s Segment) View() SegmentView {
	return SegmentView{Label: s.Label, Mult: s.Multiplier.InexactFloat64(), Weight: s.Weight}
}

type WheelResult struct {
	SegmentIndex int
	Segment      Segment
	Bet          int64
	PayoutTotal  int64
}

func (w WheelResult) Profit() int64 {
	return w.PayoutTotal - w.Bet
}

// SpinWheel selects a segment by weight and pays floor(bet * multiplier).
func SpinWheel(r *rng.Resolver, segments []Segment, bet int64) WheelResult {
	weights := make([]int, len(segments))
	for i, s := range segments {
		weights[i] = s.Weight
	}
	idx := r.WeightedPick(weights)
	if idx < 0 {
		idx = 0
	}
	seg := segments[idx]
	return WheelResult{
		SegmentIndex: idx,
		Segment:      seg,
		Bet:          bet,
		PayoutTotal:  WheelPayout(bet, seg.Multiplier),
	}
}

func WheelPayout(bet int64, mult decimal.Decimal) int64 {
	return decimal.NewFromInt(bet).Mul(mult).Floor().IntPart()
}

// SpinPrizeWheel stands the wheel face in for a list of prize labels and
// returns a uniformly drawn index into it, or -1 for an empty list.
func SpinPrizeWheel(r *rng.Resolver, items []string) int {
	if len(items) == 0 {
		return -1
	}
	return r.Uniform(len(items))
}
