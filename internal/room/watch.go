package room

import "sort"

// watch attaches a read-only observer. Watchers receive every broadcast
// but hold no seat, send no commands and are not counted in presence.
func (r *Room) watch(conn Sender) (string, Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return "", Snapshot{}, false
	}
	id := NewConnID()
	r.watchers[id] = conn
	metricWatchersActive.Add(1)
	r.log.Debug().Str("conn_id", id).Msg("room_watch")
	return id, r.snapshotLocked(), true
}

func (r *Room) unwatch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.watchers[id]; !ok {
		return
	}
	delete(r.watchers, id)
	metricWatchersActive.Add(-1)
}

func (r *Room) fanoutWatchers(frame []byte) {
	if len(r.watchers) == 0 {
		return
	}
	ids := make([]string, 0, len(r.watchers))
	for id := range r.watchers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		w := r.watchers[id]
		if w.Send(frame) {
			continue
		}
		metricSlowConnClosed.Add(1)
		r.log.Warn().Str("conn_id", id).Msg("watcher_buffer_full")
		delete(r.watchers, id)
		metricWatchersActive.Add(-1)
		w.Close()
	}
}

// Watch observes an existing room without taking a seat. The returned
// snapshot is the state the first streamed frame applies to. Call stop
// when the observer goes away.
func (g *Registry) Watch(id string, conn Sender) (stop func(), snap Snapshot, ok bool) {
	g.mu.Lock()
	rm, found := g.rooms[id]
	if !found {
		g.mu.Unlock()
		return nil, Snapshot{}, false
	}
	wid, snap, ok := rm.watch(conn)
	g.mu.Unlock()
	if !ok {
		return nil, Snapshot{}, false
	}
	return func() { rm.unwatch(wid) }, snap, true
}
