package game

// HandValue sums the hand with aces as 11, then revalues aces to 1 one at
// a time while the total is over 21.
func HandValue(hand []Card) int {
	total := 0
	softAces := 0
	for _, c := range hand {
		if c.Rank == Ace {
			softAces++
		}
		total += c.points()
	}
	for total > 21 && softAces > 0 {
		total -= 10
		softAces--
	}
	return total
}

// IsNatural reports a two-card 21.
func IsNatural(hand []Card) bool {
	return len(hand) == 2 && HandValue(hand) == 21
}
