package game

import (
	"duo-casino/internal/rng"
)

type BetType string

const (
	BetRed    BetType = "red"
	BetBlack  BetType = "black"
	BetOdd    BetType = "odd"
	BetEven   BetType = "even"
	BetLow    BetType = "low"
	BetHigh   BetType = "high"
	BetNumber BetType = "number"
)

var BetTypes = []BetType{BetRed, BetBlack, BetOdd, BetEven, BetLow, BetHigh, BetNumber}

// ParseBetType returns the bet type and false when s is not on the list.
func ParseBetType(s string) (BetType, bool) {
	for _, bt := range BetTypes {
		if string(bt) == s {
			return bt, true
		}
	}
	return "", false
}

const roulettePockets = 37

var redPockets = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

func PocketColor(n int) string {
	if n == 0 {
		return "green"
	}
	if redPockets[n] {
		return "red"
	}
	return "black"
}

// BetWins settles a single pocket. Zero loses everything except a straight
// bet on zero.
func BetWins(bt BetType, number, rolled int) bool {
	if bt == BetNumber {
		return rolled == number
	}
	if rolled == 0 {
		return false
	}
	switch bt {
	case BetRed:
		return PocketColor(rolled) == "red"
	case BetBlack:
		return PocketColor(rolled) == "black"
	case BetOdd:
		return rolled%2 == 1
	case BetEven:
		return rolled%2 == 0
	case BetLow:
		return rolled >= 1 && rolled <= 18
	case BetHigh:
		return rolled >= 19 && rolled <= 36
	default:
		return false
	}
}

func RoulettePayout(bt BetType, bet int64, win bool) int64 {
	if !win {
		return 0
	}
	if bt == BetNumber {
		return bet * 36
	}
	return bet * 2
}

type RouletteResult struct {
	BetType     BetType
	BetNumber   int
	Rolled      int
	Color       string
	Win         bool
	Bet         int64
	PayoutTotal int64
}

func (r RouletteResult) Profit() int64 {
	return r.PayoutTotal - r.Bet
}

func SpinRoulette(r *rng.Resolver, bt BetType, number int, bet int64) RouletteResult {
	return ScoreRoulette(r.Uniform(roulettePockets), bt, number, bet)
}

func ScoreRoulette(rolled int, bt BetType, number int, bet int64) RouletteResult {
	win := BetWins(bt, number, rolled)
	return RouletteResult{
		BetType:     bt,
		BetNumber:   number,
		Rolled:      rolled,
		Color:       PocketColor(rolled),
		Win:         win,
		Bet:         bet,
		PayoutTotal: RoulettePayout(bt, bet, win),
	}
}
