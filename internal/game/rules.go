package game

import "errors"

var ErrNotYourTurn = errors.New("not_your_turn")
var ErrRoundInProgress = errors.New("round_in_progress")
var ErrNoActiveRound = errors.New("no_active_round")

// OtherSeat returns the opposing active seat.
func OtherSeat(seat int) int {
	if seat == 1 {
		return 2
	}
	return 1
}
