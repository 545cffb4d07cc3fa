package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"duo-casino/internal/game"
	"duo-casino/internal/protocol"
)

const replyTimeout = 5 * time.Second

var (
	errSpectator   = errors.New("room is full, joined as spectator")
	errUnknownGame = errors.New("unknown game")
	errRejected    = errors.New("wager rejected")
)

type Options struct {
	Server string
	Room   string
	Mode   string
}

// Bot is one seated websocket client. It is not safe for concurrent use.
type Bot struct {
	conn *websocket.Conn
	seat int
	mode string
	bj   game.RoundView
	tick int
}

type Summary struct {
	Wagers   int
	Rejected int
	Profit   int64
	Rewards  []string
}

type initFrame struct {
	PlayerID int            `json:"playerId"`
	ConnID   string         `json:"connId"`
	Mode     string         `json:"mode"`
	BJ       game.RoundView `json:"bj"`
}

type resultFrame struct {
	By     int    `json:"by"`
	Profit int64  `json:"profit"`
	Reward string `json:"reward"`
}

type bjFrame struct {
	BJ game.RoundView `json:"bj"`
}

func Dial(ctx context.Context, opts Options) (*Bot, error) {
	u, err := url.Parse(opts.Server)
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	q := u.Query()
	if opts.Room != "" {
		q.Set("room", opts.Room)
	}
	if opts.Mode != "" {
		q.Set("mode", opts.Mode)
	}
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}
	b := &Bot{conn: conn}
	env, err := b.await(protocol.EventInit)
	if err != nil {
		conn.Close()
		return nil, err
	}
	var in initFrame
	if err := json.Unmarshal(env.Data, &in); err != nil {
		conn.Close()
		return nil, fmt.Errorf("decode init: %w", err)
	}
	if in.PlayerID == 0 {
		conn.Close()
		return nil, errSpectator
	}
	b.seat, b.mode, b.bj = in.PlayerID, in.Mode, in.BJ
	log.Info().Str("room", opts.Room).Int("seat", b.seat).Str("mode", b.mode).Str("conn_id", in.ConnID).Msg("bot_joined")
	return b, nil
}

func (b *Bot) Seat() int { return b.seat }

func (b *Bot) Close() error {
	_ = b.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return b.conn.Close()
}

// Play places rounds wagers, cycling through games.
func (b *Bot) Play(ctx context.Context, games []string, rounds int, delay time.Duration) (Summary, error) {
	var sum Summary
	if len(games) == 0 {
		return sum, errors.New("no games selected")
	}
	for i := 0; i < rounds; i++ {
		select {
		case <-ctx.Done():
			return sum, nil
		default:
		}
		g := games[i%len(games)]
		if g == "blackjack" && (b.bj.InRound || b.bj.Turn != b.seat) {
			log.Debug().Int("turn", b.bj.Turn).Msg("bot_skip_blackjack")
			g = "wheel"
		}
		res, err := b.wager(g)
		switch {
		case errors.Is(err, errRejected):
			sum.Rejected++
		case err != nil:
			return sum, err
		default:
			sum.Wagers++
			sum.Profit += res.Profit
			if res.Reward != "" {
				sum.Rewards = append(sum.Rewards, res.Reward)
			}
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return sum, nil
			case <-time.After(delay):
			}
		}
	}
	return sum, nil
}

func (b *Bot) wager(g string) (resultFrame, error) {
	b.tick++
	switch g {
	case "wheel":
		var data any
		if b.mode == "rewards" {
			data = protocol.WheelSpin{Items: []string{"Tea", "Cake", "Nap", "Walk"}}
		}
		return b.instant(protocol.EventWheelSpin, data, protocol.EventWheelResult)
	case "taixiu":
		pick := "tai"
		if b.tick%2 == 0 {
			pick = "xiu"
		}
		if b.mode != "rewards" {
			// ledger rooms roll with the seat's stored pick
			if err := b.send(protocol.EventPlayerSet, protocol.PlayerSet{Key: "txPick", Value: pick}); err != nil {
				return resultFrame{}, err
			}
		}
		return b.instant(protocol.EventTxRoll, protocol.TxRoll{
			Pick:        pick,
			WinRewards:  []string{"Cookie"},
			LoseRewards: []string{"Dishes"},
		}, protocol.EventTxResult)
	case "roulette":
		return b.instant(protocol.EventRlSpin, protocol.RlSpin{
			BetType:     "red",
			WinRewards:  []string{"Movie pick"},
			LoseRewards: []string{"Coffee run"},
		}, protocol.EventRlResult)
	case "blackjack":
		return b.blackjack()
	default:
		return resultFrame{}, fmt.Errorf("%w: %s", errUnknownGame, g)
	}
}

func (b *Bot) instant(event string, data any, reply string) (resultFrame, error) {
	if err := b.send(event, data); err != nil {
		return resultFrame{}, err
	}
	for {
		env, err := b.await(reply, protocol.EventError)
		if err != nil {
			return resultFrame{}, err
		}
		if env.Type == protocol.EventError {
			return resultFrame{}, errRejected
		}
		var res resultFrame
		if err := json.Unmarshal(env.Data, &res); err != nil {
			return resultFrame{}, err
		}
		if res.By != b.seat {
			continue
		}
		log.Info().Str("event", reply).Int64("profit", res.Profit).Str("reward", res.Reward).Msg("bot_result")
		return res, nil
	}
}

// blackjack deals and then hits below 17.
func (b *Bot) blackjack() (resultFrame, error) {
	rewards := protocol.BjAction{
		WinRewards:  []string{"Breakfast in bed"},
		LoseRewards: []string{"Foot rub"},
		PushRewards: []string{"High five"},
	}
	next := protocol.EventBjDeal
	for {
		if err := b.send(next, rewards); err != nil {
			return resultFrame{}, err
		}
		env, err := b.await(protocol.EventBjState, protocol.EventError)
		if err != nil {
			return resultFrame{}, err
		}
		if env.Type == protocol.EventError {
			return resultFrame{}, errRejected
		}
		var st bjFrame
		if err := json.Unmarshal(env.Data, &st); err != nil {
			return resultFrame{}, err
		}
		b.bj = st.BJ
		if !st.BJ.InRound {
			res := resultFrame{By: b.seat, Profit: st.BJ.LastProfit, Reward: st.BJ.LastReward}
			log.Info().Int("player", st.BJ.PlayerValue).Int64("profit", res.Profit).Msg("bot_bj_done")
			return res, nil
		}
		next = protocol.EventBjStand
		if st.BJ.PlayerValue < 17 {
			next = protocol.EventBjHit
		}
	}
}

func (b *Bot) send(event string, data any) error {
	frame, err := protocol.Encode(event, data)
	if err != nil {
		return err
	}
	_ = b.conn.SetWriteDeadline(time.Now().Add(replyTimeout))
	return b.conn.WriteMessage(websocket.TextMessage, frame)
}

// await reads frames until one of types arrives. Blackjack state seen on
// the way is remembered so turn tracking stays current.
func (b *Bot) await(types ...string) (protocol.Envelope, error) {
	deadline := time.Now().Add(replyTimeout)
	for {
		_ = b.conn.SetReadDeadline(deadline)
		_, data, err := b.conn.ReadMessage()
		if err != nil {
			return protocol.Envelope{}, fmt.Errorf("read: %w", err)
		}
		env, err := protocol.DecodeEnvelope(data)
		if err != nil {
			continue
		}
		if env.Type == protocol.EventRoomClosed {
			return protocol.Envelope{}, errors.New("room closed")
		}
		if env.Type == protocol.EventBjState {
			var st bjFrame
			if json.Unmarshal(env.Data, &st) == nil {
				b.bj = st.BJ
			}
		}
		for _, t := range types {
			if env.Type == t {
				return env, nil
			}
		}
	}
}
