package httptransport

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"duo-casino/internal/room"
	"duo-casino/internal/spectatorgateway"
	"duo-casino/internal/store"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// RoomSource is the read side of the room registry.
type RoomSource interface {
	List() []room.Summary
	Snapshot(id string) (room.Snapshot, bool)
	NormalizeRoomID(raw string) string
	Watch(id string, conn room.Sender) (func(), room.Snapshot, bool)
}

// OutcomeStore is the audit store. Leave it nil when persistence is off.
type OutcomeStore interface {
	Ping(ctx context.Context) error
	ListOutcomes(ctx context.Context, roomID string, limit, offset int) ([]store.OutcomeRecord, error)
}

type Deps struct {
	Rooms RoomSource
	WS    http.HandlerFunc
	Store OutcomeStore
	MCP   http.Handler
	Clock quartz.Clock
}

func NewRouter(d Deps) *chi.Mux {
	rooms := NewRoomHandlers(d.Rooms, d.Store)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	if d.WS != nil {
		r.Get("/ws", d.WS)
	}
	r.With(APILogMiddleware()).Get("/healthz", rooms.Health())

	if d.MCP != nil {
		r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
		})
		r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", d.MCP)
		r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", d.MCP)
		r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", d.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/rooms", rooms.List())
		r.Get("/rooms/{room_id}", rooms.Get())
		r.Get("/rooms/{room_id}/outcomes", rooms.Outcomes())
		r.Get("/rooms/{room_id}/events", spectatorgateway.EventsHandler(d.Rooms, d.Clock))
		r.Get("/debug/vars", expvar.Handler().ServeHTTP)
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-7s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
