package ledger

import "errors"

var (
	ErrInvalidBet          = errors.New("invalid_bet")
	ErrInsufficientBalance = errors.New("insufficient_balance")
)

// Limits bounds every wager and balance in a room.
type Limits struct {
	MinBet       int64 `json:"MIN_BET"`
	MaxBet       int64 `json:"MAX_BET"`
	StartBalance int64 `json:"START_BALANCE"`
	Cap          int64 `json:"-"`
}

func DefaultLimits() Limits {
	return Limits{
		MinBet:       10,
		MaxBet:       500000,
		StartBalance: 10000,
		Cap:          10_000_000_000,
	}
}

func (l Limits) Validate() error {
	if l.MinBet <= 0 || l.MaxBet < l.MinBet {
		return errors.New("bet limits must satisfy 0 < MIN_BET <= MAX_BET")
	}
	if l.StartBalance < 0 || l.Cap < l.StartBalance {
		return errors.New("balance limits must satisfy 0 <= START_BALANCE <= BALANCE_CAP")
	}
	return nil
}

// ClampBet moves v into [MinBet, MaxBet].
func (l Limits) ClampBet(v int64) int64 {
	return Clamp(v, l.MinBet, l.MaxBet)
}

func Clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
