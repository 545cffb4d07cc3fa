package room

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"duo-casino/internal/game"
	"duo-casino/internal/ledger"
	"duo-casino/internal/protocol"
	"duo-casino/internal/rng"
)

func TestWheelSpinDoublesBalanceDelta(t *testing.T) {
	// 60 of 100 lands on the x2 face.
	f := newFixture(t, rng.NewScripted(60))
	s1, c1 := f.join("w", "")
	_, c2 := f.join("w", "")

	send(t, s1, protocol.EventWheelSpin, nil)

	var res wheelResultPayload
	c2.last(t, protocol.EventWheelResult, &res)
	require.Equal(t, 1, res.By)
	require.Equal(t, int64(100), res.Bet)
	require.Equal(t, 4, res.SegmentIndex)
	require.Equal(t, "x2", res.Segment.Label)
	require.Equal(t, int64(200), res.PayoutTotal)
	require.Equal(t, int64(100), res.Profit)
	require.Equal(t, map[string]int64{"1": 10100, "2": 10000}, res.Balances)
	require.Equal(t, 1, c1.count(protocol.EventWheelResult))

	out := f.sink.all()
	require.Len(t, out, 1)
	require.Equal(t, "wheel", out[0].Game)
	require.Equal(t, "w", out[0].Room)
	require.Equal(t, ledger.ModeLedger, out[0].Mode)
	require.Equal(t, int64(100), out[0].Profit)
}

func TestInsufficientBalanceIsUnicast(t *testing.T) {
	f := newFixture(t, nil)
	s1, c1 := f.join("poor", "")
	_, c2 := f.join("poor", "")

	send(t, s1, protocol.EventPlayerSet, protocol.PlayerSet{Key: "wheelBet", Value: 20000})
	send(t, s1, protocol.EventWheelSpin, nil)

	var msg errorPayload
	c1.last(t, protocol.EventError, &msg)
	require.Equal(t, msgBetRejected, msg.Msg)
	require.Zero(t, c2.count(protocol.EventError))
	require.Zero(t, c2.count(protocol.EventWheelResult))

	rm, _ := f.reg.Get("poor")
	require.Equal(t, int64(10000), balances(t, rm)["1"])
	require.Empty(t, f.sink.all())
}

func TestSpectatorCannotPlay(t *testing.T) {
	f := newFixture(t, nil)
	_, c1 := f.join("sp", "")
	f.join("sp", "")
	viewer, cs := f.join("sp", "")

	for _, typ := range []string{protocol.EventWheelSpin, protocol.EventTxRoll, protocol.EventRlSpin, protocol.EventBjDeal, protocol.EventBjNew} {
		send(t, viewer, typ, nil)
	}
	require.Zero(t, c1.count(protocol.EventWheelResult))
	require.Zero(t, c1.count(protocol.EventTxResult))
	require.Zero(t, c1.count(protocol.EventRlResult))
	require.Zero(t, c1.count(protocol.EventBjState))
	require.Zero(t, cs.count(protocol.EventError))
}

func TestTripleLosesEitherPick(t *testing.T) {
	f := newFixture(t, rng.NewScripted(3, 3, 3, 3, 3, 3))
	s1, c1 := f.join("tx", "")
	s2, _ := f.join("tx", "")
	send(t, s2, protocol.EventPlayerSet, protocol.PlayerSet{Key: "txPick", Value: "xiu"})

	send(t, s1, protocol.EventTxRoll, nil)
	var res txResultPayload
	c1.last(t, protocol.EventTxResult, &res)
	require.Equal(t, game.Tai, res.Pick)
	require.True(t, res.Triple)
	require.False(t, res.Win)
	require.Zero(t, res.PayoutTotal)
	require.Equal(t, int64(9900), res.Balances["1"])

	send(t, s2, protocol.EventTxRoll, nil)
	c1.last(t, protocol.EventTxResult, &res)
	require.Equal(t, 2, res.By)
	require.Equal(t, game.Xiu, res.Pick)
	require.False(t, res.Win)
	require.Equal(t, int64(9900), res.Balances["2"])
}

func TestRouletteZeroLosesRed(t *testing.T) {
	f := newFixture(t, rng.NewScripted(0, 0))
	s1, c1 := f.join("rl", "")
	send(t, s1, protocol.EventRlSpin, nil)

	var res rlResultPayload
	c1.last(t, protocol.EventRlResult, &res)
	require.Equal(t, game.BetRed, res.BetType)
	require.Equal(t, 0, res.Rolled)
	require.Equal(t, "green", res.Color)
	require.False(t, res.Win)
	require.Equal(t, int64(9900), res.Balances["1"])

	send(t, s1, protocol.EventPlayerSet, protocol.PlayerSet{Key: "rlBetType", Value: "number"})
	send(t, s1, protocol.EventPlayerSet, protocol.PlayerSet{Key: "rlNumber", Value: 0})
	send(t, s1, protocol.EventRlSpin, nil)
	c1.last(t, protocol.EventRlResult, &res)
	require.True(t, res.Win)
	require.Equal(t, int64(3600), res.PayoutTotal)
	require.Equal(t, int64(9900+3500), res.Balances["1"])
}

func TestLedgerPayloadCannotShadowSeatFields(t *testing.T) {
	// roulette 7, dice 1,1,2, wheel draw 60
	f := newFixture(t, rng.NewScripted(7, 0, 0, 1, 60))
	s1, c1 := f.join("shadow", "")
	s2, _ := f.join("shadow", "")
	send(t, s2, protocol.EventLockSet, protocol.LockSet{Field: "p1.rlBetType", Locked: true})

	number := 12
	send(t, s1, protocol.EventRlSpin, protocol.RlSpin{BetType: "number", BetNumber: &number})
	var rl rlResultPayload
	c1.last(t, protocol.EventRlResult, &rl)
	require.Equal(t, game.BetRed, rl.BetType)
	require.Equal(t, 7, rl.BetNumber)
	require.Equal(t, int64(200), rl.PayoutTotal)

	send(t, s1, protocol.EventTxRoll, protocol.TxRoll{Pick: "xiu"})
	var tx txResultPayload
	c1.last(t, protocol.EventTxResult, &tx)
	require.Equal(t, game.Tai, tx.Pick)
	require.Equal(t, 4, tx.Sum)
	require.False(t, tx.Win)

	speed := 9
	send(t, s1, protocol.EventWheelSpin, protocol.WheelSpin{Speed: &speed})
	var wh wheelResultPayload
	c1.last(t, protocol.EventWheelResult, &wh)
	require.Equal(t, int64(5), wh.Speed)
}

func TestBlackjackTurnsAndSettlement(t *testing.T) {
	// Identity shuffles deal K♣ Q♣ to the player and J♣ 10♣ to the dealer.
	draws := append(identityShuffle(), identityShuffle()...)
	f := newFixture(t, rng.NewScripted(draws...))
	s1, c1 := f.join("bj", "")
	s2, c2 := f.join("bj", "")
	rm, _ := f.reg.Get("bj")
	c1.clear()
	c2.clear()

	// seat 2 is out of turn
	send(t, s2, protocol.EventBjDeal, nil)
	require.Zero(t, c1.count(protocol.EventBjState))

	send(t, s1, protocol.EventBjDeal, nil)
	var st bjStatePayload
	c2.last(t, protocol.EventBjState, &st)
	require.True(t, st.BJ.InRound)
	require.True(t, st.BJ.DealerHidden)
	require.True(t, st.BJ.Dealer[1].Hidden)
	require.Nil(t, st.BJ.DealerValue)
	require.Equal(t, 20, st.BJ.PlayerValue)
	require.Equal(t, int64(200), st.BJ.Wager)
	require.Equal(t, int64(9800), st.Balances["1"])

	// a second deal while the round is live, and a hit from the wrong
	// seat, leave everything alone
	send(t, s1, protocol.EventBjDeal, nil)
	send(t, s2, protocol.EventBjHit, nil)
	send(t, s2, protocol.EventBjStand, nil)
	require.Equal(t, 1, c1.count(protocol.EventBjState))
	require.Len(t, rm.Snapshot().BJ.Player, 2)

	send(t, s1, protocol.EventBjStand, nil)
	c2.last(t, protocol.EventBjState, &st)
	require.False(t, st.BJ.InRound)
	require.Equal(t, game.OutcomePush, *st.BJ.LastOutcome)
	require.Equal(t, int64(10000), st.Balances["1"])
	require.Equal(t, 2, st.BJ.Turn)
	require.Equal(t, 2, st.BJ.WagerSeat)

	// seat 1 is now out of turn
	send(t, s1, protocol.EventBjDeal, nil)
	require.Equal(t, 2, c1.count(protocol.EventBjState))

	send(t, s2, protocol.EventBjDeal, nil)
	send(t, s2, protocol.EventBjHit, nil)
	c1.last(t, protocol.EventBjState, &st)
	require.Equal(t, game.OutcomeBust, *st.BJ.LastOutcome)
	require.Equal(t, 29, st.BJ.PlayerValue)
	require.Equal(t, int64(9800), st.Balances["2"])
	require.Equal(t, int64(-200), st.BJ.LastProfit)
	require.Equal(t, 1, st.BJ.Turn)

	results := []string{}
	for _, o := range f.sink.all() {
		results = append(results, o.Result)
	}
	require.Equal(t, []string{"push", "bust"}, results)
}

func TestBlackjackInsufficientBalance(t *testing.T) {
	f := newFixture(t, nil)
	s1, c1 := f.join("bjpoor", "")
	rm, _ := f.reg.Get("bjpoor")
	rm.mu.Lock()
	rm.settle.Instant(1, 9900, 0)
	rm.mu.Unlock()
	c1.clear()

	send(t, s1, protocol.EventBjDeal, nil)
	var msg errorPayload
	c1.last(t, protocol.EventError, &msg)
	require.Equal(t, msgBjRejected, msg.Msg)
	require.Zero(t, c1.count(protocol.EventBjState))
	require.False(t, rm.Snapshot().BJ.InRound)
}

func TestBjNewKeepsDebitedStake(t *testing.T) {
	f := newFixture(t, rng.NewScripted(identityShuffle()...))
	s1, c1 := f.join("bjnew", "")
	s2, _ := f.join("bjnew", "")

	send(t, s1, protocol.EventBjDeal, nil)
	send(t, s2, protocol.EventBjNew, nil)
	rm, _ := f.reg.Get("bjnew")
	require.True(t, rm.Snapshot().BJ.InRound)

	send(t, s1, protocol.EventBjNew, nil)
	var st bjStatePayload
	c1.last(t, protocol.EventBjState, &st)
	require.False(t, st.BJ.InRound)
	require.Empty(t, st.BJ.Player)
	require.Equal(t, 1, st.BJ.Turn)
	require.Equal(t, int64(9800), st.Balances["1"])
}

func TestRewardsModeDice(t *testing.T) {
	// dice 6,6,1 then the second of two rewards
	f := newFixture(t, rng.NewScripted(5, 5, 0, 1))
	s1, c1 := f.join("rw", ledger.ModeRewards)
	send(t, s1, protocol.EventStateSet, protocol.StateSet{Field: "rewards.tx.win", Value: "Coffee\nTea\n"})

	send(t, s1, protocol.EventTxRoll, nil)
	var res txResultPayload
	c1.last(t, protocol.EventTxResult, &res)
	require.True(t, res.Win)
	require.Equal(t, 13, res.Sum)
	require.Equal(t, "Tea", res.Reward)
	require.Nil(t, res.Balances)
	require.Zero(t, res.Bet)

	out := f.sink.all()
	require.Len(t, out, 1)
	require.Equal(t, "Tea", out[0].Reward)
	require.Equal(t, ledger.ModeRewards, out[0].Mode)
}

func TestRewardsModeClientListsWin(t *testing.T) {
	// roulette 7 on red, then the only client reward
	f := newFixture(t, rng.NewScripted(7, 0))
	s1, c1 := f.join("rw2", ledger.ModeRewards)
	send(t, s1, protocol.EventStateSet, protocol.StateSet{Field: "rewards.rl.win", Value: "room prize"})

	send(t, s1, protocol.EventRlSpin, protocol.RlSpin{BetType: "red", WinRewards: []string{" ", "client prize"}})
	var res rlResultPayload
	c1.last(t, protocol.EventRlResult, &res)
	require.True(t, res.Win)
	require.Equal(t, "client prize", res.Reward)
}

func TestRewardsModeEmptyPoolPlaceholder(t *testing.T) {
	f := newFixture(t, rng.NewScripted(30))
	s1, c1 := f.join("rw3", ledger.ModeRewards)
	send(t, s1, protocol.EventRlSpin, protocol.RlSpin{BetType: "odd"})
	var res rlResultPayload
	c1.last(t, protocol.EventRlResult, &res)
	require.False(t, res.Win)
	require.Equal(t, ledger.NoReward, res.Reward)
}

func TestRewardsWheel(t *testing.T) {
	f := newFixture(t, rng.NewScripted(2))
	s1, c1 := f.join("rw4", ledger.ModeRewards)

	send(t, s1, protocol.EventWheelSpin, protocol.WheelSpin{Items: []string{"A", "B", "C"}})
	var res wheelResultPayload
	c1.last(t, protocol.EventWheelResult, &res)
	require.Equal(t, 2, res.SegmentIndex)
	require.Equal(t, "C", res.Reward)
	require.Nil(t, res.Segment)
	require.Equal(t, int64(5), res.Speed)

	speed := 9
	send(t, s1, protocol.EventWheelSpin, protocol.WheelSpin{Speed: &speed})
	c1.last(t, protocol.EventWheelResult, &res)
	require.Equal(t, -1, res.SegmentIndex)
	require.Equal(t, ledger.NoReward, res.Reward)
	require.Equal(t, int64(9), res.Speed)
}

func TestRewardsBlackjackPush(t *testing.T) {
	draws := append(identityShuffle(), 0)
	f := newFixture(t, rng.NewScripted(draws...))
	s1, c1 := f.join("rw5", ledger.ModeRewards)

	send(t, s1, protocol.EventBjDeal, protocol.BjAction{PushRewards: []string{"Hug"}})
	send(t, s1, protocol.EventBjStand, nil)
	var st bjStatePayload
	c1.last(t, protocol.EventBjState, &st)
	require.Equal(t, game.OutcomePush, *st.BJ.LastOutcome)
	require.Equal(t, "Hug", st.BJ.LastReward)
	require.Nil(t, st.Balances)
}

func TestConcurrentCommandsKeepBalancesBounded(t *testing.T) {
	f := newFixture(t, nil)
	s1, _ := f.join("busy", "")
	s2, _ := f.join("busy", "")
	limits := ledger.DefaultLimits()

	var wg sync.WaitGroup
	for _, sess := range []*Session{s1, s2} {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				switch i % 5 {
				case 0:
					send(t, s, protocol.EventWheelSpin, nil)
				case 1:
					send(t, s, protocol.EventTxRoll, nil)
				case 2:
					send(t, s, protocol.EventRlSpin, nil)
				case 3:
					send(t, s, protocol.EventBjDeal, nil)
				case 4:
					send(t, s, protocol.EventBjStand, nil)
				}
			}
		}(sess)
	}
	wg.Wait()

	rm, _ := f.reg.Get("busy")
	snap := rm.Snapshot()
	for _, b := range snap.Balances {
		require.GreaterOrEqual(t, b, int64(0))
		require.LessOrEqual(t, b, limits.Cap)
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.bj.InRound {
		all := append(rm.bj.DeckRemaining(), rm.bj.Player...)
		all = append(all, rm.bj.Dealer...)
		require.Len(t, all, game.DeckSize)
	}
}
