package game

import (
	"duo-casino/internal/rng"
)

type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeBlackjack Outcome = "blackjack"
	OutcomeWin       Outcome = "win"
	OutcomeLose      Outcome = "lose"
	OutcomePush      Outcome = "push"
	OutcomeBust      Outcome = "bust"
)

// Phase is the coarse table state reported to clients.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseInRound Phase = "in_round"
)

// dealerStandsOn is the total at which the dealer stops drawing.
const dealerStandsOn = 17

// RewardLists carries client-supplied reward pools for a round.
type RewardLists struct {
	Win  []string
	Lose []string
	Push []string
}

// Round is one blackjack table shared by both seats. Seats take turns:
// after every resolved round Turn flips to the other seat.
type Round struct {
	deck         *Deck
	Player       []Card
	Dealer       []Card
	InRound      bool
	DealerHidden bool
	Turn         int
	WagerSeat    int
	Wager        int64
	LastOutcome  Outcome
	LastProfit   int64
	LastReward   string
	Rewards      RewardLists
}

// Resolution is produced exactly once per dealt round.
type Resolution struct {
	Seat        int
	Bet         int64
	PayoutTotal int64
	Outcome     Outcome
	PlayerValue int
	DealerValue int
}

func (r Resolution) Profit() int64 {
	return r.PayoutTotal - r.Bet
}

func NewRound() *Round {
	return &Round{
		Turn:         1,
		WagerSeat:    1,
		DealerHidden: true,
	}
}

func (r *Round) Phase() Phase {
	if r.InRound {
		return PhaseInRound
	}
	return PhaseIdle
}

// Deal starts a round for seat with a fresh shuffle. A natural on either
// side resolves immediately and the returned Resolution is non-nil.
func (r *Round) Deal(seat int, bet int64, res *rng.Resolver) (*Resolution, error) {
	if r.InRound {
		return nil, ErrRoundInProgress
	}
	if seat != r.Turn {
		return nil, ErrNotYourTurn
	}
	deck := NewDeck()
	deck.Shuffle(res)
	return r.start(seat, bet, deck), nil
}

func (r *Round) start(seat int, bet int64, deck *Deck) *Resolution {
	r.deck = deck
	r.Player = []Card{deck.Deal(), deck.Deal()}
	r.Dealer = []Card{deck.Deal(), deck.Deal()}
	r.InRound = true
	r.DealerHidden = true
	r.WagerSeat = seat
	r.Wager = bet
	r.LastOutcome = OutcomeNone
	r.LastProfit = 0
	r.LastReward = ""

	playerNatural := IsNatural(r.Player)
	dealerNatural := IsNatural(r.Dealer)
	switch {
	case playerNatural && dealerNatural:
		return r.finish(OutcomePush, bet)
	case playerNatural:
		return r.finish(OutcomeBlackjack, bet*5/2)
	case dealerNatural:
		return r.finish(OutcomeLose, 0)
	}
	return nil
}

// Hit draws one card for the wagering seat. Busting plays out the dealer
// hand and forfeits the stake.
func (r *Round) Hit(seat int) (*Resolution, error) {
	if err := r.checkActor(seat); err != nil {
		return nil, err
	}
	r.Player = append(r.Player, r.deck.Deal())
	if HandValue(r.Player) > 21 {
		r.dealerPlay()
		return r.finish(OutcomeBust, 0), nil
	}
	return nil, nil
}

// Stand reveals the dealer hand, plays it out and compares totals.
func (r *Round) Stand(seat int) (*Resolution, error) {
	if err := r.checkActor(seat); err != nil {
		return nil, err
	}
	r.dealerPlay()
	bet := r.Wager
	pv := HandValue(r.Player)
	dv := HandValue(r.Dealer)
	switch {
	case dv > 21, pv > dv:
		return r.finish(OutcomeWin, bet*2), nil
	case pv < dv:
		return r.finish(OutcomeLose, 0), nil
	default:
		return r.finish(OutcomePush, bet), nil
	}
}

func (r *Round) checkActor(seat int) error {
	if !r.InRound {
		return ErrNoActiveRound
	}
	if seat != r.Turn || seat != r.WagerSeat {
		return ErrNotYourTurn
	}
	return nil
}

func (r *Round) dealerPlay() {
	r.DealerHidden = false
	for HandValue(r.Dealer) < dealerStandsOn {
		r.Dealer = append(r.Dealer, r.deck.Deal())
	}
}

func (r *Round) finish(outcome Outcome, payoutTotal int64) *Resolution {
	res := &Resolution{
		Seat:        r.WagerSeat,
		Bet:         r.Wager,
		PayoutTotal: payoutTotal,
		Outcome:     outcome,
		PlayerValue: HandValue(r.Player),
		DealerValue: HandValue(r.Dealer),
	}
	r.InRound = false
	r.DealerHidden = false
	r.LastOutcome = outcome
	r.LastProfit = res.Profit()
	r.Wager = 0
	r.Turn = OtherSeat(r.Turn)
	r.WagerSeat = r.Turn
	return res
}

// DeckRemaining reports the undealt cards of the current round.
func (r *Round) DeckRemaining() []Card {
	if r.deck == nil {
		return nil
	}
	return r.deck.Cards()
}

// CardView is a card as shown to clients; Hidden masks the dealer hole card.
type CardView struct {
	Rank   Rank `json:"r,omitempty"`
	Suit   Suit `json:"s,omitempty"`
	Hidden bool `json:"hidden,omitempty"`
}

type RoundView struct {
	Player       []CardView `json:"player"`
	Dealer       []CardView `json:"dealer"`
	PlayerValue  int        `json:"playerValue"`
	DealerValue  *int       `json:"dealerValue,omitempty"`
	Phase        Phase      `json:"phase"`
	InRound      bool       `json:"inRound"`
	DealerHidden bool       `json:"dealerHidden"`
	Turn         int        `json:"turn"`
	WagerSeat    int        `json:"wagerPid"`
	Wager        int64      `json:"wager"`
	LastOutcome  *Outcome   `json:"lastOutcome"`
	LastProfit   int64      `json:"lastProfit"`
	LastReward   string     `json:"lastReward,omitempty"`
}

// View renders the round for broadcast. While DealerHidden is set the
// hole card and the dealer total are withheld.
func (r *Round) View() RoundView {
	v := RoundView{
		Player:       make([]CardView, 0, len(r.Player)),
		Dealer:       make([]CardView, 0, len(r.Dealer)),
		PlayerValue:  HandValue(r.Player),
		Phase:        r.Phase(),
		InRound:      r.InRound,
		DealerHidden: r.DealerHidden,
		Turn:         r.Turn,
		WagerSeat:    r.WagerSeat,
		Wager:        r.Wager,
		LastProfit:   r.LastProfit,
		LastReward:   r.LastReward,
	}
	for _, c := range r.Player {
		v.Player = append(v.Player, CardView{Rank: c.Rank, Suit: c.Suit})
	}
	for i, c := range r.Dealer {
		if r.DealerHidden && i == 1 {
			v.Dealer = append(v.Dealer, CardView{Hidden: true})
			continue
		}
		v.Dealer = append(v.Dealer, CardView{Rank: c.Rank, Suit: c.Suit})
	}
	if !r.DealerHidden && len(r.Dealer) > 0 {
		dv := HandValue(r.Dealer)
		v.DealerValue = &dv
	}
	if r.LastOutcome != OutcomeNone {
		o := r.LastOutcome
		v.LastOutcome = &o
	}
	return v
}
