package ledger

import (
	"strings"

	"duo-casino/internal/rng"
)

type Mode string

const (
	ModeLedger  Mode = "ledger"
	ModeRewards Mode = "rewards"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLedger:
		return ModeLedger, true
	case ModeRewards:
		return ModeRewards, true
	default:
		return "", false
	}
}

// Category selects which reward list an outcome draws from.
type Category string

const (
	CategoryWin  Category = "win"
	CategoryLose Category = "lose"
	CategoryPush Category = "push"
)

// CategoryFor maps a net profit onto a reward category.
func CategoryFor(profit int64) Category {
	switch {
	case profit > 0:
		return CategoryWin
	case profit < 0:
		return CategoryLose
	default:
		return CategoryPush
	}
}

// NoReward is shown when an outcome's reward list has no usable entry.
const NoReward = "No reward"

// Settlement applies resolved wagers for one room. In ledger mode it
// moves chips; in rewards mode balances do not exist and outcomes are
// paid with a text reward drawn from a pool.
type Settlement struct {
	mode   Mode
	limits Limits
	ledger *Ledger
	rng    *rng.Resolver
}

func NewSettlement(mode Mode, limits Limits, r *rng.Resolver) *Settlement {
	if r == nil {
		r = rng.New(nil)
	}
	s := &Settlement{mode: mode, limits: limits, rng: r}
	if mode != ModeRewards {
		s.mode = ModeLedger
		s.ledger = New(limits)
	}
	return s
}

func (s *Settlement) Mode() Mode { return s.mode }

func (s *Settlement) Limits() Limits { return s.limits }

// Authorize clamps the requested stake into the bet limits and, in ledger
// mode, checks that the seat can cover it. The clamped stake is returned.
func (s *Settlement) Authorize(seat int, requested int64) (int64, error) {
	bet := s.limits.ClampBet(requested)
	if bet <= 0 {
		return 0, ErrInvalidBet
	}
	if s.ledger != nil && !s.ledger.CanBet(seat, bet) {
		return 0, ErrInsufficientBalance
	}
	return bet, nil
}

// Instant settles a wager whose outcome is known at commit time. Bet and
// payout are applied in one step. It is a no-op in rewards mode.
func (s *Settlement) Instant(seat int, bet, payoutTotal int64) {
	if s.ledger == nil {
		return
	}
	s.ledger.Settle(seat, bet, payoutTotal)
}

// Commit debits a stake whose outcome is not yet known.
func (s *Settlement) Commit(seat int, bet int64) error {
	if s.ledger == nil {
		return nil
	}
	return s.ledger.Debit(seat, bet)
}

// Pay credits the payout of a previously committed stake.
func (s *Settlement) Pay(seat int, payoutTotal int64) {
	if s.ledger == nil {
		return
	}
	s.ledger.Credit(seat, payoutTotal)
}

// Balances is nil in rewards mode.
func (s *Settlement) Balances() map[string]int64 {
	if s.ledger == nil {
		return nil
	}
	return s.ledger.Balances()
}

func (s *Settlement) Balance(seat int) int64 {
	if s.ledger == nil {
		return 0
	}
	return s.ledger.Balance(seat)
}

// Reset restores starting balances.
func (s *Settlement) Reset() {
	if s.ledger != nil {
		s.ledger.Reset()
	}
}

// PickReward draws uniformly from the usable entries of pool.
func (s *Settlement) PickReward(pool []string) string {
	items := CleanPool(pool)
	if len(items) == 0 {
		return NoReward
	}
	return items[s.rng.Uniform(len(items))]
}

// CleanPool trims entries and drops the empty ones.
func CleanPool(pool []string) []string {
	out := make([]string, 0, len(pool))
	for _, item := range pool {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SplitPool turns a newline separated text field into a reward list.
func SplitPool(text string) []string {
	return CleanPool(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}
