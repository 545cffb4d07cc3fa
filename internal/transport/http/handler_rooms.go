package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type RoomHandlers struct {
	rooms RoomSource
	store OutcomeStore
}

func NewRoomHandlers(rooms RoomSource, st OutcomeStore) *RoomHandlers {
	return &RoomHandlers{rooms: rooms, store: st}
}

func (h *RoomHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if h.store == nil {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "disabled"})
			return
		}
		if err := h.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *RoomHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		metricRoomListTotal.Add(1)
		writeJSON(w, map[string]any{"items": h.rooms.List()})
	}
}

func (h *RoomHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := h.rooms.NormalizeRoomID(chi.URLParam(r, "room_id"))
		snap, ok := h.rooms.Snapshot(id)
		if !ok {
			WriteHTTPError(w, http.StatusNotFound, "room_not_found")
			return
		}
		writeJSON(w, snap)
	}
}

func (h *RoomHandlers) Outcomes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "store_disabled")
			return
		}
		metricOutcomeQueryTotal.Add(1)
		id := h.rooms.NormalizeRoomID(chi.URLParam(r, "room_id"))
		limit, offset := ParsePagination(r)
		start := time.Now()
		items, err := h.store.ListOutcomes(r.Context(), id, limit, offset)
		metricOutcomeQueryLastMS.Set(time.Since(start).Milliseconds())
		if err != nil {
			metricOutcomeQueryErrors.Add(1)
			log.Error().Err(err).Str("room", id).Msg("outcome_query_failed")
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, map[string]any{"room_id": id, "items": items, "limit": limit, "offset": offset})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
