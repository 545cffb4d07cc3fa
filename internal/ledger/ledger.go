package ledger

// Ledger holds chip balances for seats 1 and 2. It is not safe for
// concurrent use; the owning room serializes access.
type Ledger struct {
	limits   Limits
	balances [3]int64
}

func New(limits Limits) *Ledger {
	l := &Ledger{limits: limits}
	l.Reset()
	return l
}

// Reset puts both seats back at the starting balance.
func (l *Ledger) Reset() {
	l.balances[1] = l.limits.StartBalance
	l.balances[2] = l.limits.StartBalance
}

func (l *Ledger) Balance(seat int) int64 {
	if !validSeat(seat) {
		return 0
	}
	return l.balances[seat]
}

// CanBet reports whether bet is inside the limits and covered by the seat.
func (l *Ledger) CanBet(seat int, bet int64) bool {
	return validSeat(seat) &&
		bet >= l.limits.MinBet && bet <= l.limits.MaxBet &&
		l.balances[seat] >= bet
}

// Settle applies balance - bet + payoutTotal, clamped to [0, Cap], and
// returns the new balance.
func (l *Ledger) Settle(seat int, bet, payoutTotal int64) int64 {
	if !validSeat(seat) {
		return 0
	}
	l.balances[seat] = Settle(l.balances[seat], bet, payoutTotal, l.limits.Cap)
	return l.balances[seat]
}

// Debit takes a stake up front. It fails without changing the balance
// when the seat cannot cover it.
func (l *Ledger) Debit(seat int, bet int64) error {
	if !l.CanBet(seat, bet) {
		return ErrInsufficientBalance
	}
	l.Settle(seat, bet, 0)
	return nil
}

func (l *Ledger) Credit(seat int, payoutTotal int64) int64 {
	return l.Settle(seat, 0, payoutTotal)
}

// Balances is keyed by seat number as a string, matching the wire shape.
func (l *Ledger) Balances() map[string]int64 {
	return map[string]int64{
		"1": l.balances[1],
		"2": l.balances[2],
	}
}

// Settle is the pure balance update used by Ledger.
func Settle(balance, bet, payoutTotal, ceiling int64) int64 {
	return Clamp(balance-bet+payoutTotal, 0, ceiling)
}

func validSeat(seat int) bool {
	return seat == 1 || seat == 2
}
