package spectatorgateway

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"

	"duo-casino/internal/ledger"
	"duo-casino/internal/protocol"
	"duo-casino/internal/room"
)

type nopConn struct{}

func (nopConn) Send([]byte) bool { return true }
func (nopConn) Close()           {}

type sseEvent struct {
	name string
	data string
}

func readSpectatorEvent(t *testing.T, rd *bufio.Reader, timeout time.Duration) sseEvent {
	t.Helper()
	ch := make(chan sseEvent, 1)
	errCh := make(chan error, 1)
	go func() {
		var ev sseEvent
		for {
			line, err := rd.ReadString('\n')
			if err != nil {
				errCh <- err
				return
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				ev.name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				ev.data = strings.TrimPrefix(line, "data: ")
			case line == "" && ev.name != "":
				ch <- ev
				return
			}
		}
	}()
	select {
	case ev := <-ch:
		return ev
	case err := <-errCh:
		t.Fatalf("read event: %v", err)
	case <-time.After(timeout):
		t.Fatal("timeout waiting for event")
	}
	return sseEvent{}
}

// readUntil skips pings and other events until name arrives.
func readUntil(t *testing.T, rd *bufio.Reader, name string) sseEvent {
	t.Helper()
	for i := 0; i < 50; i++ {
		if ev := readSpectatorEvent(t, rd, 2*time.Second); ev.name == name {
			return ev
		}
	}
	t.Fatalf("no %s event", name)
	return sseEvent{}
}

func setup(t *testing.T, clock quartz.Clock) (*room.Registry, *httptest.Server) {
	t.Helper()
	reg := room.NewRegistry(room.Options{})
	router := chi.NewRouter()
	router.Get("/api/rooms/{room_id}/events", EventsHandler(reg, clock))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return reg, server
}

func TestSpectatorStreamSnapshotAndBroadcasts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock := quartz.NewMock(t)
	pings := clock.Trap().NewTicker("spectator", "ping")
	defer pings.Close()

	reg, server := setup(t, clock)
	sess := reg.Join("den", ledger.ModeLedger, nopConn{})

	resp, err := http.Get(server.URL + "/api/rooms/den/events")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q", ct)
	}
	rd := bufio.NewReader(resp.Body)

	first := readSpectatorEvent(t, rd, time.Second)
	if first.name != protocol.EventStateFull {
		t.Fatalf("first event = %q, want state:full", first.name)
	}
	var snap map[string]any
	if err := json.Unmarshal([]byte(first.data), &snap); err != nil || snap["room"] != "den" {
		t.Fatalf("unexpected snapshot %s (%v)", first.data, err)
	}

	pings.MustWait(ctx).MustRelease(ctx)
	clock.Advance(pingInterval).MustWait(ctx)
	ping := readSpectatorEvent(t, rd, time.Second)
	if ping.name != "ping" {
		t.Fatalf("event after %s = %q, want ping", pingInterval, ping.name)
	}
	var ts struct {
		TS int64 `json:"ts"`
	}
	if err := json.Unmarshal([]byte(ping.data), &ts); err != nil || ts.TS != clock.Now().UnixMilli() {
		t.Fatalf("ping data %s does not carry the clock time (%v)", ping.data, err)
	}

	frame, _ := protocol.Encode(protocol.EventUITab, protocol.UITab{Tab: "blackjack"})
	sess.Handle(frame)
	tab := readUntil(t, rd, protocol.EventUITab)
	if !strings.Contains(tab.data, `"blackjack"`) {
		t.Fatalf("unexpected ui:tab data %s", tab.data)
	}

	reg.Leave(sess)
	readUntil(t, rd, protocol.EventRoomClosed)
}

func TestSpectatorStreamMissingRoom(t *testing.T) {
	_, server := setup(t, nil)
	resp, err := http.Get(server.URL + "/api/rooms/missing/events")
	if err != nil {
		t.Fatalf("open missing stream: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing room, got %d", resp.StatusCode)
	}
}

func TestStreamSendAfterClose(t *testing.T) {
	s := newStream()
	for i := 0; i < streamBuffer; i++ {
		if !s.Send([]byte("x")) {
			t.Fatalf("send %d should queue", i)
		}
	}
	if s.Send([]byte("x")) {
		t.Fatal("full stream should report false")
	}
	s.Close()
	s.Close()
	if !s.Send([]byte("x")) {
		t.Fatal("closed stream swallows frames")
	}
}
