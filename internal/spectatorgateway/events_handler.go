// Package spectatorgateway streams room broadcasts to read-only HTTP
// observers as server-sent events.
package spectatorgateway

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"duo-casino/internal/protocol"
	"duo-casino/internal/room"
)

const (
	pingInterval = 15 * time.Second
	streamBuffer = 64
)

// Rooms is satisfied by *room.Registry.
type Rooms interface {
	Watch(id string, conn room.Sender) (func(), room.Snapshot, bool)
	NormalizeRoomID(raw string) string
}

type stream struct {
	frames    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newStream() *stream {
	return &stream{frames: make(chan []byte, streamBuffer), done: make(chan struct{})}
}

func (s *stream) Send(frame []byte) bool {
	select {
	case <-s.done:
		return true
	default:
	}
	select {
	case s.frames <- frame:
		return true
	default:
		return false
	}
}

func (s *stream) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// EventsHandler serves GET /api/rooms/{room_id}/events. The first event is
// state:full with the current snapshot; every room broadcast follows.
// Keep-alive pings run on clock, which defaults to the real one.
func EventsHandler(rooms Rooms, clock quartz.Clock) http.HandlerFunc {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := rooms.NormalizeRoomID(chi.URLParam(r, "room_id"))
		flusher, ok := w.(http.Flusher)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		st := newStream()
		stop, snap, ok := rooms.Watch(roomID, st)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"room_not_found"}`))
			return
		}
		defer stop()
		metricSpectatorSSEConnectionsTotal.Add(1)
		metricSpectatorSSEConnectionsActive.Add(1)
		defer metricSpectatorSSEConnectionsActive.Add(-1)

		setSSEHeaders(w)
		var seq uint64
		next := func(event string, data []byte) bool {
			seq++
			if err := writeSSE(w, seq, event, data); err != nil {
				return false
			}
			flusher.Flush()
			metricSpectatorSSEEventsTotal.Add(1)
			return true
		}

		first, err := json.Marshal(snap)
		if err != nil || !next(protocol.EventStateFull, first) {
			return
		}
		log.Debug().Str("room", roomID).Msg("spectator_stream_open")

		ticker := clock.NewTicker(pingInterval, "spectator", "ping")
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				return
			case frame := <-st.frames:
				if !forward(next, frame) {
					return
				}
			case <-st.done:
				// flush whatever the room queued before closing us
				for {
					select {
					case frame := <-st.frames:
						if !forward(next, frame) {
							return
						}
					default:
						return
					}
				}
			case <-ticker.C:
				ping, _ := json.Marshal(map[string]any{"ts": clock.Now().UnixMilli()})
				if !next("ping", ping) {
					return
				}
			}
		}
	}
}

func forward(next func(string, []byte) bool, frame []byte) bool {
	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		return true
	}
	return next(env.Type, env.Data)
}
