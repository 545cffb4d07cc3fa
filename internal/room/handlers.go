package room

import (
	"duo-casino/internal/game"
	"duo-casino/internal/ledger"
	"duo-casino/internal/protocol"
)

// decodeOptional fills dst from the payload when it is present and valid.
// Game commands fall back to their no-payload form otherwise. Only rewards
// rooms take picks and bet types from the payload; ledger rooms read the
// seat's fields, which go through the lock check.
func (r *Room) decodeOptional(env protocol.Envelope, dst any) bool {
	if !env.HasData() {
		return false
	}
	if err := protocol.Decode(env, dst); err != nil {
		r.log.Debug().Err(err).Str("event", env.Type).Msg("payload_ignored")
		return false
	}
	return true
}

// pool returns the client list when it has entries, else the room field.
func (r *Room) pool(client []string, field string) []string {
	if items := ledger.CleanPool(client); len(items) > 0 {
		return items
	}
	return ledger.SplitPool(r.state.String(field))
}

func (r *Room) rewards() bool {
	return r.settle.Mode() == ledger.ModeRewards
}

func (r *Room) handleWheelSpin(sess *Session, env protocol.Envelope) error {
	if !sess.Seat.Active() {
		return ErrRejected
	}
	var p protocol.WheelSpin
	r.decodeOptional(env, &p)

	speed := r.state.Int(fieldWheelSpeed)
	if r.rewards() && p.Speed != nil {
		speed = ledger.Clamp(int64(*p.Speed), 1, 10)
	}

	if r.rewards() {
		items := r.pool(p.Items, fieldRewardsWheel)
		idx := game.SpinPrizeWheel(r.rng, items)
		reward := ledger.NoReward
		if idx >= 0 {
			reward = items[idx]
		}
		r.broadcast(protocol.EventWheelResult, wheelResultPayload{
			By:           int(sess.Seat),
			SegmentIndex: idx,
			Items:        items,
			Speed:        speed,
			Reward:       reward,
		}, "")
		r.record(Outcome{
			Seat:   int(sess.Seat),
			Game:   "wheel",
			Result: "prize",
			Reward: reward,
			Detail: map[string]any{"index": idx, "items": len(items)},
		})
		return nil
	}

	bet, err := r.settle.Authorize(int(sess.Seat), r.state.Int(seatField(sess.Seat, keyWheelBet)))
	if err != nil {
		return err
	}
	res := game.SpinWheel(r.rng, r.wheel, bet)
	r.settle.Instant(int(sess.Seat), bet, res.PayoutTotal)
	seg := res.Segment.View()
	r.broadcast(protocol.EventWheelResult, wheelResultPayload{
		By:           int(sess.Seat),
		Bet:          bet,
		SegmentIndex: res.SegmentIndex,
		Segment:      &seg,
		Speed:        speed,
		PayoutTotal:  res.PayoutTotal,
		Profit:       res.Profit(),
		Balances:     r.settle.Balances(),
	}, "")
	r.record(Outcome{
		Seat:        int(sess.Seat),
		Game:        "wheel",
		Bet:         bet,
		PayoutTotal: res.PayoutTotal,
		Profit:      res.Profit(),
		Result:      seg.Label,
		Detail:      map[string]any{"index": res.SegmentIndex, "mult": seg.Mult},
	})
	return nil
}

func (r *Room) handleTxRoll(sess *Session, env protocol.Envelope) error {
	if !sess.Seat.Active() {
		return ErrRejected
	}
	var p protocol.TxRoll
	r.decodeOptional(env, &p)

	pickRaw := r.state.String(seatField(sess.Seat, keyTxPick))
	if r.rewards() && p.Pick != "" {
		pickRaw = p.Pick
	}
	pick := game.ParseSide(pickRaw)

	bet, err := r.settle.Authorize(int(sess.Seat), r.state.Int(seatField(sess.Seat, keyTxBet)))
	if err != nil {
		return err
	}
	res := game.RollDice(r.rng, pick, bet)
	out := txResultPayload{
		By:     int(sess.Seat),
		Pick:   pick,
		D1:     res.Dice[0],
		D2:     res.Dice[1],
		D3:     res.Dice[2],
		Sum:    res.Sum,
		Out:    res.Out,
		Triple: res.Triple,
		Win:    res.Win,
	}
	o := Outcome{
		Seat:   int(sess.Seat),
		Game:   "taixiu",
		Result: resultTag(res.Win),
		Detail: map[string]any{"dice": res.Dice, "sum": res.Sum, "pick": pick, "triple": res.Triple},
	}
	if r.rewards() {
		pool := r.pool(p.LoseRewards, fieldRewardsTxLose)
		if res.Win {
			pool = r.pool(p.WinRewards, fieldRewardsTxWin)
		}
		out.Reward = r.settle.PickReward(pool)
		o.Reward = out.Reward
	} else {
		r.settle.Instant(int(sess.Seat), bet, res.PayoutTotal)
		out.Bet = bet
		out.PayoutTotal = res.PayoutTotal
		out.Profit = res.Profit()
		out.Balances = r.settle.Balances()
		o.Bet, o.PayoutTotal, o.Profit = bet, res.PayoutTotal, res.Profit()
	}
	r.broadcast(protocol.EventTxResult, out, "")
	r.record(o)
	return nil
}

func (r *Room) handleRlSpin(sess *Session, env protocol.Envelope) error {
	if !sess.Seat.Active() {
		return ErrRejected
	}
	var p protocol.RlSpin
	r.decodeOptional(env, &p)

	typeRaw := r.state.String(seatField(sess.Seat, keyRlBetType))
	if r.rewards() && p.BetType != "" {
		typeRaw = p.BetType
	}
	betType, ok := game.ParseBetType(typeRaw)
	if !ok {
		betType = game.BetRed
	}
	number := int(r.state.Int(seatField(sess.Seat, keyRlNumber)))
	if r.rewards() && p.BetNumber != nil {
		number = int(ledger.Clamp(int64(*p.BetNumber), 0, 36))
	}

	bet, err := r.settle.Authorize(int(sess.Seat), r.state.Int(seatField(sess.Seat, keyRlBet)))
	if err != nil {
		return err
	}
	res := game.SpinRoulette(r.rng, betType, number, bet)
	out := rlResultPayload{
		By:        int(sess.Seat),
		BetType:   betType,
		BetNumber: number,
		Rolled:    res.Rolled,
		Color:     res.Color,
		Win:       res.Win,
	}
	o := Outcome{
		Seat:   int(sess.Seat),
		Game:   "roulette",
		Result: resultTag(res.Win),
		Detail: map[string]any{"rolled": res.Rolled, "color": res.Color, "betType": betType, "betNumber": number},
	}
	if r.rewards() {
		pool := r.pool(p.LoseRewards, fieldRewardsRlLose)
		if res.Win {
			pool = r.pool(p.WinRewards, fieldRewardsRlWin)
		}
		out.Reward = r.settle.PickReward(pool)
		o.Reward = out.Reward
	} else {
		r.settle.Instant(int(sess.Seat), bet, res.PayoutTotal)
		out.Bet = bet
		out.PayoutTotal = res.PayoutTotal
		out.Profit = res.Profit()
		out.Balances = r.settle.Balances()
		o.Bet, o.PayoutTotal, o.Profit = bet, res.PayoutTotal, res.Profit()
	}
	r.broadcast(protocol.EventRlResult, out, "")
	r.record(o)
	return nil
}

func resultTag(win bool) string {
	if win {
		return "win"
	}
	return "lose"
}
