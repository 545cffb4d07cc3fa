package room

import (
	"time"

	"duo-casino/internal/game"
	"duo-casino/internal/ledger"
)

// Snapshot is the full view of a room sent on join, on reset and served
// over HTTP.
type Snapshot struct {
	Room       string                    `json:"room"`
	Mode       ledger.Mode               `json:"mode"`
	Players    []int                     `json:"players"`
	Spectators int                       `json:"spectators"`
	Balances   map[string]int64          `json:"balances,omitempty"`
	Player     map[string]map[string]any `json:"player"`
	State      map[string]any            `json:"state"`
	Locks      map[string]int            `json:"locks"`
	BJ         game.RoundView            `json:"bj"`
	Limits     ledger.Limits             `json:"limits"`
	Wheel      []game.SegmentView        `json:"wheel"`
	CreatedAt  time.Time                 `json:"created_at"`
}

type initPayload struct {
	Snapshot
	PlayerID int    `json:"playerId"`
	ConnID   string `json:"connId"`
}

type presencePayload struct {
	Players    []int `json:"players"`
	Spectators int   `json:"spectators"`
}

type lockStatePayload struct {
	Locks map[string]int `json:"locks"`
}

type stateSetPayload struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	By    int    `json:"by"`
}

type playerSetPayload struct {
	By    int    `json:"by"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type uiTabPayload struct {
	Tab string `json:"tab"`
	By  int    `json:"by"`
}

type errorPayload struct {
	Msg string `json:"msg"`
}

type wheelResultPayload struct {
	By           int               `json:"by"`
	Bet          int64             `json:"bet"`
	SegmentIndex int               `json:"segmentIndex"`
	Segment      *game.SegmentView `json:"segment,omitempty"`
	Items        []string          `json:"items,omitempty"`
	Speed        int64             `json:"speed"`
	PayoutTotal  int64             `json:"payoutTotal"`
	Profit       int64             `json:"profit"`
	Reward       string            `json:"reward,omitempty"`
	Balances     map[string]int64  `json:"balances,omitempty"`
}

type txResultPayload struct {
	By          int              `json:"by"`
	Bet         int64            `json:"bet"`
	Pick        game.Side        `json:"pick"`
	D1          int              `json:"d1"`
	D2          int              `json:"d2"`
	D3          int              `json:"d3"`
	Sum         int              `json:"sum"`
	Out         game.Side        `json:"out"`
	Triple      bool             `json:"triple"`
	Win         bool             `json:"win"`
	PayoutTotal int64            `json:"payoutTotal"`
	Profit      int64            `json:"profit"`
	Reward      string           `json:"reward,omitempty"`
	Balances    map[string]int64 `json:"balances,omitempty"`
}

type rlResultPayload struct {
	By          int              `json:"by"`
	Bet         int64            `json:"bet"`
	BetType     game.BetType     `json:"betType"`
	BetNumber   int              `json:"betNumber"`
	Rolled      int              `json:"rolled"`
	Color       string           `json:"color"`
	Win         bool             `json:"win"`
	PayoutTotal int64            `json:"payoutTotal"`
	Profit      int64            `json:"profit"`
	Reward      string           `json:"reward,omitempty"`
	Balances    map[string]int64 `json:"balances,omitempty"`
}

type bjStatePayload struct {
	BJ       game.RoundView   `json:"bj"`
	Balances map[string]int64 `json:"balances,omitempty"`
}

// Outcome is the audit record of one resolved wager.
type Outcome struct {
	Room        string
	Seat        int
	Game        string
	Mode        ledger.Mode
	Bet         int64
	PayoutTotal int64
	Profit      int64
	Result      string
	Reward      string
	Detail      map[string]any
	At          time.Time
}

// OutcomeSink receives outcomes from inside the room lock and must not block.
type OutcomeSink interface {
	Record(Outcome)
}

type discardSink struct{}

func (discardSink) Record(Outcome) {}

// Summary is the registry listing entry for a room.
type Summary struct {
	ID         string      `json:"room_id"`
	Mode       ledger.Mode `json:"mode"`
	Players    []int       `json:"players"`
	Spectators int         `json:"spectators"`
	InRound    bool        `json:"bj_in_round"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Stats aggregates the registry for periodic reporting.
type Stats struct {
	Rooms       int `json:"rooms"`
	Seated      int `json:"seated"`
	Spectators  int `json:"spectators"`
	RoundsLive  int `json:"bj_rounds_live"`
	LedgerRooms int `json:"ledger_rooms"`
}
