package room

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"duo-casino/internal/ledger"
	"duo-casino/internal/protocol"
)

func TestLockExclusivity(t *testing.T) {
	f := newFixture(t, nil)
	s1, c1 := f.join("locks", "")
	s2, c2 := f.join("locks", "")
	c1.clear()
	c2.clear()

	send(t, s1, protocol.EventLockSet, protocol.LockSet{Field: "ui.tab", Locked: true})
	var locks lockStatePayload
	c2.last(t, protocol.EventLockState, &locks)
	require.Equal(t, map[string]int{"ui.tab": 1}, locks.Locks)

	// seat 2 can neither take nor release it
	send(t, s2, protocol.EventLockSet, protocol.LockSet{Field: "ui.tab", Locked: true})
	send(t, s2, protocol.EventLockSet, protocol.LockSet{Field: "ui.tab", Locked: false})
	require.Equal(t, 1, c1.count(protocol.EventLockState))

	// and its writes are dropped
	send(t, s2, protocol.EventStateSet, protocol.StateSet{Field: "ui.tab", Value: "roulette"})
	require.Zero(t, c1.count(protocol.EventStateSet))
	rm, _ := f.reg.Get("locks")
	require.Equal(t, "wheel", rm.Snapshot().State["ui.tab"])

	// the holder writes; the change goes to everyone but the writer
	send(t, s1, protocol.EventStateSet, protocol.StateSet{Field: "ui.tab", Value: "roulette"})
	require.Zero(t, c1.count(protocol.EventStateSet))
	var set stateSetPayload
	c2.last(t, protocol.EventStateSet, &set)
	require.Equal(t, stateSetPayload{Field: "ui.tab", Value: "roulette", By: 1}, set)

	// re-acquiring an owned lock is a silent no-op
	send(t, s1, protocol.EventLockSet, protocol.LockSet{Field: "ui.tab", Locked: true})
	require.Equal(t, 1, c2.count(protocol.EventLockState))

	// leaving releases everything the owner held
	f.reg.Leave(s1)
	require.Equal(t, 2, c2.count(protocol.EventLockState))
	var released lockStatePayload
	c2.last(t, protocol.EventLockState, &released)
	require.Empty(t, released.Locks)

	send(t, s2, protocol.EventLockSet, protocol.LockSet{Field: "ui.tab", Locked: true})
	var retaken lockStatePayload
	c2.last(t, protocol.EventLockState, &retaken)
	require.Equal(t, map[string]int{"ui.tab": 2}, retaken.Locks)
}

func TestUnlockByOwner(t *testing.T) {
	f := newFixture(t, nil)
	s1, _ := f.join("unlock", "")
	_, c2 := f.join("unlock", "")

	send(t, s1, protocol.EventLockSet, protocol.LockSet{Field: "p1.wheelBet", Locked: true})
	send(t, s1, protocol.EventLockSet, protocol.LockSet{Field: "p1.wheelBet", Locked: false})
	var locks lockStatePayload
	c2.last(t, protocol.EventLockState, &locks)
	require.Empty(t, locks.Locks)
	require.Equal(t, 2, c2.count(protocol.EventLockState))
}

func TestSpectatorCannotWriteOrLock(t *testing.T) {
	f := newFixture(t, nil)
	_, c1 := f.join("gallery", "")
	f.join("gallery", "")
	viewer, _ := f.join("gallery", "")
	c1.clear()

	send(t, viewer, protocol.EventLockSet, protocol.LockSet{Field: "ui.tab", Locked: true})
	send(t, viewer, protocol.EventStateSet, protocol.StateSet{Field: "ui.tab", Value: "blackjack"})
	send(t, viewer, protocol.EventPlayerSet, protocol.PlayerSet{Key: "tab", Value: "blackjack"})
	send(t, viewer, protocol.EventUITab, protocol.UITab{Tab: "blackjack"})
	require.Empty(t, c1.frames)
}

func TestPlayerSetCoercesAndEchoes(t *testing.T) {
	f := newFixture(t, nil)
	s1, c1 := f.join("ps", "")
	_, c2 := f.join("ps", "")

	cases := []struct {
		key  string
		raw  any
		want any
	}{
		{"wheelBet", "abc", float64(10)},
		{"wheelBet", 9e9, float64(500000)},
		{"wheelBet", 250.9, float64(250)},
		{"txBet", "42", float64(42)},
		{"txPick", "banana", "xiu"},
		{"txPick", "tai", "tai"},
		{"tab", "roulette", "roulette"},
		{"tab", "bogus", "roulette"},
		{"rlBetType", "corner", "red"},
		{"rlBetType", "number", "number"},
		{"rlNumber", 40, float64(36)},
		{"rlNumber", -3, float64(0)},
	}
	for _, tc := range cases {
		send(t, s1, protocol.EventPlayerSet, protocol.PlayerSet{Key: tc.key, Value: tc.raw})
		var got playerSetPayload
		c1.last(t, protocol.EventPlayerSet, &got)
		require.Equal(t, playerSetPayload{By: 1, Key: tc.key, Value: tc.want}, got, tc.key)
		c2.last(t, protocol.EventPlayerSet, &got)
		require.Equal(t, tc.want, got.Value, tc.key)
	}

	rm, _ := f.reg.Get("ps")
	snap := rm.Snapshot()
	require.Equal(t, int64(0), snap.Player["1"]["rlNumber"])
	require.Equal(t, int64(100), snap.Player["2"]["wheelBet"])

	n := c1.count(protocol.EventPlayerSet)
	send(t, s1, protocol.EventPlayerSet, protocol.PlayerSet{Key: "balance", Value: 1})
	require.Equal(t, n, c1.count(protocol.EventPlayerSet))
}

func TestPlayerSetWritesOwnSeatOnly(t *testing.T) {
	f := newFixture(t, nil)
	f.join("own", "")
	s2, _ := f.join("own", "")
	send(t, s2, protocol.EventPlayerSet, protocol.PlayerSet{Key: "bjBet", Value: 1000})

	rm, _ := f.reg.Get("own")
	snap := rm.Snapshot()
	require.Equal(t, int64(200), snap.Player["1"]["bjBet"])
	require.Equal(t, int64(1000), snap.Player["2"]["bjBet"])
}

func TestUITabBroadcast(t *testing.T) {
	f := newFixture(t, nil)
	s1, c1 := f.join("tab", "")
	_, c2 := f.join("tab", "")
	send(t, s1, protocol.EventUITab, protocol.UITab{Tab: "blackjack"})

	var tab uiTabPayload
	c2.last(t, protocol.EventUITab, &tab)
	require.Equal(t, uiTabPayload{Tab: "blackjack", By: 1}, tab)
	require.Zero(t, c1.count(protocol.EventUITab))
}

func TestRewardTextCapped(t *testing.T) {
	f := newFixture(t, nil)
	s1, _ := f.join("cap", ledger.ModeRewards)
	send(t, s1, protocol.EventStateSet, protocol.StateSet{Field: "rewards.wheel", Value: strings.Repeat("é", 2500)})
	rm, _ := f.reg.Get("cap")
	got := rm.Snapshot().State["rewards.wheel"].(string)
	require.Equal(t, 2000, len([]rune(got)))
}

func TestRoomResetRestoresDefaults(t *testing.T) {
	f := newFixture(t, nil)
	s1, c1 := f.join("reset", "")
	s2, c2 := f.join("reset", "")
	rm, _ := f.reg.Get("reset")

	send(t, s2, protocol.EventPlayerSet, protocol.PlayerSet{Key: "wheelBet", Value: 300})
	rm.mu.Lock()
	rm.settle.Instant(2, 300, 0)
	rm.mu.Unlock()

	send(t, s2, protocol.EventRoomReset, nil)
	require.Zero(t, c1.count(protocol.EventRoomReset))

	send(t, s1, protocol.EventRoomReset, nil)
	var snap Snapshot
	c2.last(t, protocol.EventRoomReset, &snap)
	require.Equal(t, map[string]int64{"1": 10000, "2": 10000}, snap.Balances)
	require.Equal(t, float64(100), snap.Player["2"]["wheelBet"])
	require.Equal(t, 1, snap.BJ.Turn)
}

func TestRoomResetLedgerOnly(t *testing.T) {
	f := newFixture(t, nil)
	s1, c1 := f.join("rr", ledger.ModeRewards)
	c1.clear()
	send(t, s1, protocol.EventRoomReset, nil)
	require.Zero(t, c1.count(protocol.EventRoomReset))
}

func TestStateStoreDefaults(t *testing.T) {
	s := NewStateStore(DeclaredFields(ledger.DefaultLimits()))
	require.Equal(t, "wheel", s.String("p1.tab"))
	require.Equal(t, int64(100), s.Int("p2.txBet"))
	require.Equal(t, "tai", s.String("p1.txPick"))
	require.Equal(t, "red", s.String("p2.rlBetType"))
	require.Equal(t, int64(7), s.Int("p1.rlNumber"))
	require.Equal(t, int64(200), s.Int("p1.bjBet"))
	require.Equal(t, int64(5), s.Int("wheel.speed"))

	_, err := s.Set("p3.tab", "wheel")
	require.ErrorIs(t, err, ErrUnknownField)

	shared := s.Shared()
	require.Contains(t, shared, "rewards.bj.push")
	require.NotContains(t, shared, "p1.tab")
	require.Len(t, s.Players()["2"], 8)
}

func TestLockManager(t *testing.T) {
	l := NewLockManager()
	require.True(t, l.Acquire("f", "a"))
	require.True(t, l.Acquire("f", "a"))
	require.False(t, l.Acquire("f", "b"))
	require.False(t, l.Release("f", "b"))
	require.True(t, l.CanWrite("f", "a"))
	require.False(t, l.CanWrite("f", "b"))
	require.True(t, l.CanWrite("g", "b"))

	l.Acquire("g", "a")
	require.Equal(t, []string{"f", "g"}, l.ReleaseAll("a"))
	_, held := l.Owner("f")
	require.False(t, held)
}
