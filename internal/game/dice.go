package game

import (
	"duo-casino/internal/rng"
)

// Side is a tai/xiu (big/small) pick.
type Side string

const (
	Tai Side = "tai"
	Xiu Side = "xiu"
)

// ParseSide mirrors the table client: anything that is not "tai" is xiu.
func ParseSide(s string) Side {
	if Side(s) == Tai {
		return Tai
	}
	return Xiu
}

type DiceResult struct {
	Dice        [3]int
	Sum         int
	Out         Side
	Triple      bool
	Pick        Side
	Win         bool
	Bet         int64
	PayoutTotal int64
}

func (d DiceResult) Profit() int64 {
	return d.PayoutTotal - d.Bet
}

func ClassifySum(sum int) Side {
	if sum >= 11 {
		return Tai
	}
	return Xiu
}

// RollDice throws three dice. A triple loses for either pick; otherwise a
// matching side pays even money.
func RollDice(r *rng.Resolver, pick Side, bet int64) DiceResult {
	var dice [3]int
	for i := range dice {
		dice[i] = r.Uniform(6) + 1
	}
	return ScoreDice(dice, pick, bet)
}

func ScoreDice(dice [3]int, pick Side, bet int64) DiceResult {
	sum := dice[0] + dice[1] + dice[2]
	out := ClassifySum(sum)
	triple := dice[0] == dice[1] && dice[1] == dice[2]
	win := !triple && out == pick
	var payout int64
	if win {
		payout = bet * 2
	}
	return DiceResult{
		Dice:        dice,
		Sum:         sum,
		Out:         out,
		Triple:      triple,
		Pick:        pick,
		Win:         win,
		Bet:         bet,
		PayoutTotal: payout,
	}
}
