package room

import (
	"duo-casino/internal/game"
	"duo-casino/internal/ledger"
	"duo-casino/internal/protocol"
)

func (r *Room) broadcastBj() {
	r.broadcast(protocol.EventBjState, bjStatePayload{BJ: r.bj.View(), Balances: r.settle.Balances()}, "")
}

// handleBjNew discards the current round. A stake already debited for an
// unresolved round stays debited.
func (r *Room) handleBjNew(sess *Session) error {
	if sess.Seat != Seat1 {
		return ErrRejected
	}
	if r.bj.InRound {
		r.log.Info().Int("seat", r.bj.WagerSeat).Int64("wager", r.bj.Wager).Msg("bj_round_abandoned")
	}
	r.bj = game.NewRound()
	r.broadcastBj()
	return nil
}

// mergeRewards replaces the round's lists with any non-empty client list.
func mergeRewards(cur game.RewardLists, p protocol.BjAction) game.RewardLists {
	if items := ledger.CleanPool(p.WinRewards); len(items) > 0 {
		cur.Win = items
	}
	if items := ledger.CleanPool(p.LoseRewards); len(items) > 0 {
		cur.Lose = items
	}
	if items := ledger.CleanPool(p.PushRewards); len(items) > 0 {
		cur.Push = items
	}
	return cur
}

func (r *Room) handleBjDeal(sess *Session, env protocol.Envelope) error {
	seat := int(sess.Seat)
	if !sess.Seat.Active() || r.bj.InRound || seat != r.bj.Turn {
		return ErrRejected
	}
	var p protocol.BjAction
	r.decodeOptional(env, &p)

	bet, err := r.settle.Authorize(seat, r.state.Int(seatField(sess.Seat, keyBjBet)))
	if err != nil {
		return err
	}
	res, err := r.bj.Deal(seat, bet, r.rng)
	if err != nil {
		return err
	}
	if err := r.settle.Commit(seat, bet); err != nil {
		// Authorize already checked cover; nothing else touches the ledger
		// under the room lock.
		return err
	}
	r.bj.Rewards = mergeRewards(game.RewardLists{}, p)
	if res != nil {
		r.resolveBj(res)
	}
	r.broadcastBj()
	return nil
}

func (r *Room) handleBjHit(sess *Session, env protocol.Envelope) error {
	if !sess.Seat.Active() {
		return ErrRejected
	}
	var p protocol.BjAction
	r.decodeOptional(env, &p)

	res, err := r.bj.Hit(int(sess.Seat))
	if err != nil {
		return err
	}
	r.bj.Rewards = mergeRewards(r.bj.Rewards, p)
	if res != nil {
		r.resolveBj(res)
	}
	r.broadcastBj()
	return nil
}

func (r *Room) handleBjStand(sess *Session, env protocol.Envelope) error {
	if !sess.Seat.Active() {
		return ErrRejected
	}
	var p protocol.BjAction
	r.decodeOptional(env, &p)

	res, err := r.bj.Stand(int(sess.Seat))
	if err != nil {
		return err
	}
	r.bj.Rewards = mergeRewards(r.bj.Rewards, p)
	r.resolveBj(res)
	r.broadcastBj()
	return nil
}

// resolveBj credits the payout of a finished round, or picks its reward.
func (r *Room) resolveBj(res *game.Resolution) {
	o := Outcome{
		Seat:   res.Seat,
		Game:   "blackjack",
		Result: string(res.Outcome),
		Detail: map[string]any{"player": res.PlayerValue, "dealer": res.DealerValue},
	}
	if r.rewards() {
		var pool []string
		switch ledger.CategoryFor(res.Profit()) {
		case ledger.CategoryWin:
			pool = r.pool(r.bj.Rewards.Win, fieldRewardsBjWin)
		case ledger.CategoryLose:
			pool = r.pool(r.bj.Rewards.Lose, fieldRewardsBjLose)
		default:
			pool = r.pool(r.bj.Rewards.Push, fieldRewardsBjPush)
		}
		r.bj.LastReward = r.settle.PickReward(pool)
		o.Reward = r.bj.LastReward
	} else {
		r.settle.Pay(res.Seat, res.PayoutTotal)
		o.Bet, o.PayoutTotal, o.Profit = res.Bet, res.PayoutTotal, res.Profit()
	}
	r.log.Info().Int("seat", res.Seat).Str("outcome", string(res.Outcome)).Int64("profit", res.Profit()).Msg("bj_resolved")
	r.record(o)
}
