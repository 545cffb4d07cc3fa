package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"duo-casino/internal/config"
)

type cli struct {
	Server string        `kong:"default='${ws_url}',help='WebSocket endpoint of the game server'"`
	Room   string        `kong:"default='${room}',help='Room to join'"`
	Mode   string        `kong:"default='${mode}',help='Settlement mode requested when the room is created'"`
	Games  []string      `kong:"default='wheel,taixiu,roulette,blackjack',help='Games to rotate through'"`
	Rounds int           `kong:"default='10',help='Wagers to place before leaving'"`
	Delay  time.Duration `kong:"default='500ms',help='Pause between wagers'"`
	Pretty bool          `kong:"help='Human readable logs'"`
}

func main() {
	env, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}

	var c cli
	ctx := kong.Parse(&c,
		kong.Name("room-bot"),
		kong.Description("Scripted player for duo-casino rooms"),
		kong.UsageOnError(),
		kong.Vars{"ws_url": env.WSURL, "room": env.Room, "mode": env.Mode},
	)
	if c.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := Dial(sigCtx, Options{
		Server: strings.TrimSpace(c.Server),
		Room:   strings.TrimSpace(c.Room),
		Mode:   c.Mode,
	})
	ctx.FatalIfErrorf(err)
	defer b.Close()

	summary, err := b.Play(sigCtx, c.Games, c.Rounds, c.Delay)
	log.Info().
		Int("wagers", summary.Wagers).
		Int("rejected", summary.Rejected).
		Int64("profit", summary.Profit).
		Strs("rewards", summary.Rewards).
		Msg("bot_done")
	ctx.FatalIfErrorf(err)
}
