package room

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"duo-casino/internal/game"
	"duo-casino/internal/ledger"
	"duo-casino/internal/protocol"
	"duo-casino/internal/rng"
)

// Sender is the outbound side of one connection. Send must not block;
// it returns false when the frame could not be queued.
type Sender interface {
	Send(frame []byte) bool
	Close()
}

type member struct {
	id   string
	seat Seat
	conn Sender
}

// Session is the identity a connection carries into every command.
type Session struct {
	ConnID string
	Seat   Seat
	RoomID string
	room   *Room
}

// Handle runs one inbound frame against the session's room.
func (s *Session) Handle(frame []byte) {
	if s == nil || s.room == nil {
		return
	}
	s.room.Dispatch(s, frame)
}

// Room is one shared table. Every join, leave and command runs to
// completion under mu.
type Room struct {
	mu        sync.Mutex
	id        string
	members   map[string]*member
	watchers  map[string]Sender
	seats     seatMap
	state     *StateStore
	locks     *LockManager
	settle    *ledger.Settlement
	bj        *game.Round
	rng       *rng.Resolver
	wheel     []game.Segment
	sink      OutcomeSink
	clock     quartz.Clock
	createdAt time.Time
	closed    bool
	log       zerolog.Logger
}

type roomConfig struct {
	mode   ledger.Mode
	limits ledger.Limits
	rng    *rng.Resolver
	sink   OutcomeSink
	clock  quartz.Clock
}

func newRoom(id string, cfg roomConfig) *Room {
	return &Room{
		id:        id,
		members:   map[string]*member{},
		watchers:  map[string]Sender{},
		state:     NewStateStore(DeclaredFields(cfg.limits)),
		locks:     NewLockManager(),
		settle:    ledger.NewSettlement(cfg.mode, cfg.limits, cfg.rng),
		bj:        game.NewRound(),
		rng:       cfg.rng,
		wheel:     game.DefaultWheel,
		sink:      cfg.sink,
		clock:     cfg.clock,
		createdAt: cfg.clock.Now().UTC(),
		log:       log.With().Str("room", id).Logger(),
	}
}

func (r *Room) ID() string { return r.id }

func (r *Room) Mode() ledger.Mode { return r.settle.Mode() }

// join seats conn and sends the join sequence: init to the newcomer, then
// presence and state:full to the room.
func (r *Room) join(conn Sender) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := NewConnID()
	seat := r.seats.allocate(id)
	r.members[id] = &member{id: id, seat: seat, conn: conn}
	metricConnectionsActive.Add(1)

	snap := r.snapshotLocked()
	r.unicast(id, protocol.EventInit, initPayload{Snapshot: snap, PlayerID: int(seat), ConnID: id})
	r.broadcastPresence()
	r.broadcast(protocol.EventStateFull, snap, "")

	r.log.Info().Str("conn_id", id).Int("seat", int(seat)).Msg("room_join")
	return &Session{ConnID: id, Seat: seat, RoomID: r.id, room: r}
}

// leave frees the seat and the locks of connID. It reports whether the
// room has no seated connection left.
func (r *Room) leave(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[connID]
	if !ok {
		return len(r.seats.occupied()) == 0
	}
	delete(r.members, connID)
	metricConnectionsActive.Add(-1)
	r.seats.release(m.seat, connID)
	if freed := r.locks.ReleaseAll(connID); len(freed) > 0 {
		r.broadcastLocks()
	}
	r.broadcastPresence()
	r.log.Info().Str("conn_id", connID).Int("seat", int(m.seat)).Msg("room_leave")
	return len(r.seats.occupied()) == 0
}

// close tells any remaining spectators the room is gone.
func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.broadcast(protocol.EventRoomClosed, nil, "")
	for id, m := range r.members {
		m.conn.Close()
		delete(r.members, id)
		metricConnectionsActive.Add(-1)
	}
	for id, w := range r.watchers {
		w.Close()
		delete(r.watchers, id)
		metricWatchersActive.Add(-1)
	}
	r.log.Info().Msg("room_closed")
}

// Snapshot returns the spectator view of the room.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		ID:         r.id,
		Mode:       r.settle.Mode(),
		Players:    r.seats.occupied(),
		Spectators: r.spectatorCount(),
		InRound:    r.bj.InRound,
		CreatedAt:  r.createdAt,
	}
}

func (r *Room) snapshotLocked() Snapshot {
	wheel := make([]game.SegmentView, 0, len(r.wheel))
	for _, s := range r.wheel {
		wheel = append(wheel, s.View())
	}
	return Snapshot{
		Room:       r.id,
		Mode:       r.settle.Mode(),
		Players:    r.seats.occupied(),
		Spectators: r.spectatorCount(),
		Balances:   r.settle.Balances(),
		Player:     r.state.Players(),
		State:      r.state.Shared(),
		Locks:      r.lockSeats(),
		BJ:         r.bj.View(),
		Limits:     r.settle.Limits(),
		Wheel:      wheel,
		CreatedAt:  r.createdAt,
	}
}

func (r *Room) spectatorCount() int {
	n := 0
	for _, m := range r.members {
		if !m.seat.Active() {
			n++
		}
	}
	return n
}

// lockSeats translates lock owners from connection id to seat number.
func (r *Room) lockSeats() map[string]int {
	out := map[string]int{}
	for field, owner := range r.locks.Snapshot() {
		if m, ok := r.members[owner]; ok {
			out[field] = int(m.seat)
		}
	}
	return out
}

func (r *Room) broadcastPresence() {
	r.broadcast(protocol.EventPresence, presencePayload{
		Players:    r.seats.occupied(),
		Spectators: r.spectatorCount(),
	}, "")
}

func (r *Room) broadcastLocks() {
	r.broadcast(protocol.EventLockState, lockStatePayload{Locks: r.lockSeats()}, "")
}

// broadcast fans a frame out to every member except exclude.
func (r *Room) broadcast(typ string, data any, exclude string) {
	frame, err := protocol.Encode(typ, data)
	if err != nil {
		r.log.Error().Err(err).Str("event", typ).Msg("encode_failed")
		return
	}
	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		r.deliver(r.members[id], frame)
	}
	r.fanoutWatchers(frame)
}

func (r *Room) unicast(connID, typ string, data any) {
	m, ok := r.members[connID]
	if !ok {
		return
	}
	frame, err := protocol.Encode(typ, data)
	if err != nil {
		r.log.Error().Err(err).Str("event", typ).Msg("encode_failed")
		return
	}
	r.deliver(m, frame)
}

func (r *Room) deliver(m *member, frame []byte) {
	if m.conn.Send(frame) {
		return
	}
	metricSlowConnClosed.Add(1)
	r.log.Warn().Str("conn_id", m.id).Msg("send_buffer_full")
	m.conn.Close()
}

const (
	msgBetRejected = "Not enough chips or bet outside limits."
	msgBjRejected  = "Not enough chips to deal blackjack."
)

// Dispatch decodes and executes one inbound frame for sess.
func (r *Room) Dispatch(sess *Session, frame []byte) {
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		r.log.Debug().Err(err).Str("conn_id", sess.ConnID).Msg("frame_dropped")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if _, ok := r.members[sess.ConnID]; !ok {
		return
	}
	metricCommandsTotal.Add(1)

	err = r.execute(sess, env)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrInvalidBet), errors.Is(err, ledger.ErrInsufficientBalance):
		metricBetErrorsTotal.Add(1)
		msg := msgBetRejected
		if env.Type == protocol.EventBjDeal {
			msg = msgBjRejected
		}
		r.unicast(sess.ConnID, protocol.EventError, errorPayload{Msg: msg})
	default:
		metricCommandsRejected.Add(1)
		r.log.Debug().Err(err).Str("conn_id", sess.ConnID).Int("seat", int(sess.Seat)).Str("event", env.Type).Msg("command_rejected")
	}
}

func (r *Room) execute(sess *Session, env protocol.Envelope) error {
	switch env.Type {
	case protocol.EventWheelSpin:
		return r.handleWheelSpin(sess, env)
	case protocol.EventTxRoll:
		return r.handleTxRoll(sess, env)
	case protocol.EventRlSpin:
		return r.handleRlSpin(sess, env)
	case protocol.EventBjNew:
		return r.handleBjNew(sess)
	case protocol.EventBjDeal:
		return r.handleBjDeal(sess, env)
	case protocol.EventBjHit:
		return r.handleBjHit(sess, env)
	case protocol.EventBjStand:
		return r.handleBjStand(sess, env)
	case protocol.EventStateSet:
		return r.handleStateSet(sess, env)
	case protocol.EventLockSet:
		return r.handleLockSet(sess, env)
	case protocol.EventUITab:
		return r.handleUITab(sess, env)
	case protocol.EventPlayerSet:
		return r.handlePlayerSet(sess, env)
	case protocol.EventRoomReset:
		return r.handleRoomReset(sess)
	default:
		return ErrRejected
	}
}

func (r *Room) record(o Outcome) {
	o.Room = r.id
	o.Mode = r.settle.Mode()
	o.At = r.clock.Now().UTC()
	metricOutcomesTotal.Add(1)
	r.sink.Record(o)
}
