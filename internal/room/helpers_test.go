package room

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"duo-casino/internal/game"
	"duo-casino/internal/ledger"
	"duo-casino/internal/protocol"
	"duo-casino/internal/rng"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []protocol.Envelope
	full   bool
	closed bool
}

func (c *fakeConn) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	if c.full {
		return false
	}
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		panic(err)
	}
	c.frames = append(c.frames, env)
	return true
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) count(typ string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, f := range c.frames {
		if f.Type == typ {
			n++
		}
	}
	return n
}

// last decodes the most recent frame of typ into dst.
func (c *fakeConn) last(t *testing.T, typ string, dst any) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].Type == typ {
			if dst != nil {
				require.NoError(t, json.Unmarshal(c.frames[i].Data, dst))
			}
			return
		}
	}
	t.Fatalf("no %s frame received", typ)
}

func (c *fakeConn) clear() {
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
}

type memorySink struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (s *memorySink) Record(o Outcome) {
	s.mu.Lock()
	s.outcomes = append(s.outcomes, o)
	s.mu.Unlock()
}

func (s *memorySink) all() []Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Outcome(nil), s.outcomes...)
}

type fixture struct {
	reg   *Registry
	sink  *memorySink
	clock *quartz.Mock
}

func newFixture(t *testing.T, src rng.Source) *fixture {
	t.Helper()
	clock := quartz.NewMock(t)
	sink := &memorySink{}
	reg := NewRegistry(Options{
		DefaultMode: ledger.ModeLedger,
		Limits:      ledger.DefaultLimits(),
		RNG:         rng.New(src),
		Sink:        sink,
		Clock:       clock,
	})
	return &fixture{reg: reg, sink: sink, clock: clock}
}

func (f *fixture) join(roomID string, mode ledger.Mode) (*Session, *fakeConn) {
	conn := &fakeConn{}
	return f.reg.Join(roomID, mode, conn), conn
}

func send(t *testing.T, sess *Session, typ string, data any) {
	t.Helper()
	frame, err := protocol.Encode(typ, data)
	require.NoError(t, err)
	sess.Handle(frame)
}

// identityShuffle scripts a Fisher-Yates pass that leaves the deck in
// build order, so deals pop K, Q, J, 10, 9 of clubs.
func identityShuffle() []int {
	draws := make([]int, 0, game.DeckSize-1)
	for i := game.DeckSize - 1; i > 0; i-- {
		draws = append(draws, i)
	}
	return draws
}

func balances(t *testing.T, rm *Room) map[string]int64 {
	t.Helper()
	return rm.Snapshot().Balances
}
