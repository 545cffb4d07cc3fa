package room

import (
	"sort"
	"strings"
	"sync"

	"github.com/coder/quartz"
	"github.com/rs/zerolog/log"

	"duo-casino/internal/ledger"
	"duo-casino/internal/rng"
)

type Options struct {
	DefaultMode ledger.Mode
	DefaultRoom string
	Limits      ledger.Limits
	RNG         *rng.Resolver
	Sink        OutcomeSink
	Clock       quartz.Clock
}

// Registry owns every live room. Rooms are created on first join and
// dropped when their last seated connection leaves. Lock order is
// registry then room.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	opts  Options
}

func NewRegistry(opts Options) *Registry {
	if opts.DefaultMode == "" {
		opts.DefaultMode = ledger.ModeLedger
	}
	if opts.DefaultRoom == "" {
		opts.DefaultRoom = "demo"
	}
	if opts.Limits == (ledger.Limits{}) {
		opts.Limits = ledger.DefaultLimits()
	}
	if opts.RNG == nil {
		opts.RNG = rng.New(nil)
	}
	if opts.Sink == nil {
		opts.Sink = discardSink{}
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	return &Registry{rooms: map[string]*Room{}, opts: opts}
}

// NormalizeRoomID trims raw and caps it at 32 characters. Empty ids map
// to the default room.
func (g *Registry) NormalizeRoomID(raw string) string {
	id := truncate(strings.TrimSpace(raw), roomIDMax)
	if id == "" {
		return g.opts.DefaultRoom
	}
	return id
}

// Join attaches conn to the room, creating it with mode when it does not
// exist yet. An empty mode uses the configured default; the mode of an
// existing room is never changed.
func (g *Registry) Join(roomID string, mode ledger.Mode, conn Sender) *Session {
	id := g.NormalizeRoomID(roomID)

	g.mu.Lock()
	defer g.mu.Unlock()
	rm, ok := g.rooms[id]
	if !ok {
		if mode == "" {
			mode = g.opts.DefaultMode
		}
		rm = newRoom(id, roomConfig{
			mode:   mode,
			limits: g.opts.Limits,
			rng:    g.opts.RNG,
			sink:   g.opts.Sink,
			clock:  g.opts.Clock,
		})
		g.rooms[id] = rm
		metricRoomsActive.Add(1)
		metricRoomsCreatedTotal.Add(1)
		log.Info().Str("room", id).Str("mode", string(rm.Mode())).Msg("room_created")
	}
	return rm.join(conn)
}

// Leave detaches the session and evicts the room once no seat is held.
func (g *Registry) Leave(sess *Session) {
	if sess == nil || sess.room == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	rm := sess.room
	if empty := rm.leave(sess.ConnID); !empty {
		return
	}
	if cur, ok := g.rooms[rm.id]; ok && cur == rm {
		delete(g.rooms, rm.id)
		metricRoomsActive.Add(-1)
	}
	rm.close()
}

func (g *Registry) Get(id string) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm, ok := g.rooms[id]
	return rm, ok
}

func (g *Registry) Snapshot(id string) (Snapshot, bool) {
	rm, ok := g.Get(id)
	if !ok {
		return Snapshot{}, false
	}
	return rm.Snapshot(), true
}

// List returns room summaries ordered by id.
func (g *Registry) List() []Summary {
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, rm := range g.rooms {
		rooms = append(rooms, rm)
	}
	g.mu.Unlock()

	out := make([]Summary, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, rm.summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (g *Registry) Stats() Stats {
	var st Stats
	for _, s := range g.List() {
		st.Rooms++
		st.Seated += len(s.Players)
		st.Spectators += s.Spectators
		if s.InRound {
			st.RoundsLive++
		}
		if s.Mode == ledger.ModeLedger {
			st.LedgerRooms++
		}
	}
	return st
}
