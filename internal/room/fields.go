package room

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"duo-casino/internal/game"
	"duo-casino/internal/ledger"
)

// Field is one declared entry of the shared state. Coerce turns an
// untrusted client value into a stored one; it never fails.
type Field struct {
	Name    string
	Default any
	coerce  func(current, raw any) any
}

func (f Field) Coerce(current, raw any) any {
	return f.coerce(current, raw)
}

func intField(name string, def, lo, hi int64) Field {
	return Field{Name: name, Default: def, coerce: func(_, raw any) any {
		return clampInt(raw, lo, hi)
	}}
}

// enumField keeps a value from allowed; anything else becomes fallback(current).
func enumField(name, def string, allowed []string, fallback func(current any) string) Field {
	return Field{Name: name, Default: def, coerce: func(current, raw any) any {
		if s, ok := raw.(string); ok && slices.Contains(allowed, s) {
			return s
		}
		return fallback(current)
	}}
}

func textField(name string, maxLen int) Field {
	return Field{Name: name, Default: "", coerce: func(_, raw any) any {
		return truncate(toText(raw), maxLen)
	}}
}

const (
	rewardTextMax = 2000
	roomIDMax     = 32
)

var tabs = []string{"wheel", "taixiu", "blackjack", "roulette"}

// Reward pool fields, one reward per line.
const (
	fieldRewardsWheel  = "rewards.wheel"
	fieldRewardsTxWin  = "rewards.tx.win"
	fieldRewardsTxLose = "rewards.tx.lose"
	fieldRewardsRlWin  = "rewards.rl.win"
	fieldRewardsRlLose = "rewards.rl.lose"
	fieldRewardsBjWin  = "rewards.bj.win"
	fieldRewardsBjLose = "rewards.bj.lose"
	fieldRewardsBjPush = "rewards.bj.push"
	fieldUITab         = "ui.tab"
	fieldWheelSpeed    = "wheel.speed"
)

// Per-seat keys, stored as p<seat>.<key>.
const (
	keyTab       = "tab"
	keyWheelBet  = "wheelBet"
	keyTxPick    = "txPick"
	keyTxBet     = "txBet"
	keyRlBetType = "rlBetType"
	keyRlNumber  = "rlNumber"
	keyRlBet     = "rlBet"
	keyBjBet     = "bjBet"
)

func seatField(seat Seat, key string) string {
	return "p" + strconv.Itoa(int(seat)) + "." + key
}

func keepCurrent(def string) func(any) string {
	return func(current any) string {
		if s, ok := current.(string); ok {
			return s
		}
		return def
	}
}

func fixed(s string) func(any) string {
	return func(any) string { return s }
}

// DeclaredFields lists every writable field of a room.
func DeclaredFields(limits ledger.Limits) []Field {
	betTypes := make([]string, 0, len(game.BetTypes))
	for _, bt := range game.BetTypes {
		betTypes = append(betTypes, string(bt))
	}
	var fields []Field
	for _, seat := range []Seat{Seat1, Seat2} {
		fields = append(fields,
			enumField(seatField(seat, keyTab), "wheel", tabs, keepCurrent("wheel")),
			intField(seatField(seat, keyWheelBet), 100, limits.MinBet, limits.MaxBet),
			enumField(seatField(seat, keyTxPick), string(game.Tai), []string{string(game.Tai), string(game.Xiu)}, fixed(string(game.Xiu))),
			intField(seatField(seat, keyTxBet), 100, limits.MinBet, limits.MaxBet),
			enumField(seatField(seat, keyRlBetType), string(game.BetRed), betTypes, fixed(string(game.BetRed))),
			intField(seatField(seat, keyRlNumber), 7, 0, 36),
			intField(seatField(seat, keyRlBet), 100, limits.MinBet, limits.MaxBet),
			intField(seatField(seat, keyBjBet), 200, limits.MinBet, limits.MaxBet),
		)
	}
	fields = append(fields,
		enumField(fieldUITab, "wheel", tabs, keepCurrent("wheel")),
		intField(fieldWheelSpeed, 5, 1, 10),
		textField(fieldRewardsWheel, rewardTextMax),
		textField(fieldRewardsTxWin, rewardTextMax),
		textField(fieldRewardsTxLose, rewardTextMax),
		textField(fieldRewardsRlWin, rewardTextMax),
		textField(fieldRewardsRlLose, rewardTextMax),
		textField(fieldRewardsBjWin, rewardTextMax),
		textField(fieldRewardsBjLose, rewardTextMax),
		textField(fieldRewardsBjPush, rewardTextMax),
	)
	return fields
}

// clampInt floors numeric input and clamps it to [lo, hi]. Input that is
// not a finite number becomes lo.
func clampInt(raw any, lo, hi int64) int64 {
	f, ok := toFloat(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return lo
	}
	f = math.Floor(f)
	if f <= float64(lo) {
		return lo
	}
	if f >= float64(hi) {
		return hi
	}
	return int64(f)
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case nil:
		return 0, true
	default:
		return 0, false
	}
}

func toText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// truncate caps s at maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen])
}
