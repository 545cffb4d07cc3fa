package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"duo-casino/internal/ledger"
	"duo-casino/internal/room"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 64
)

// Client is one websocket peer. It implements room.Sender.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues frame without blocking. It returns false when the buffer is
// full; frames sent after Close are dropped.
func (c *Client) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Close stops the writer after it flushes queued frames.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	})
}

type Server struct {
	registry *room.Registry
	upgrader websocket.Upgrader
	clock    quartz.Clock
}

func NewServer(registry *room.Registry, clock quartz.Clock) *Server {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Server{
		registry: registry,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clock:    clock,
	}
}

// HandleWS upgrades the request and attaches the peer to the room named
// by the room query parameter. mode is honoured only when the room is
// created by this connection.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, _ := ledger.ParseMode(q.Get("mode"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		metricUpgradeErrors.Add(1)
		return
	}
	client := newClient(conn)
	metricConnectionsTotal.Add(1)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(client)
	}()

	sess := s.registry.Join(q.Get("room"), mode, client)
	log.Debug().Str("room", sess.RoomID).Str("conn_id", sess.ConnID).Int("seat", int(sess.Seat)).Str("remote", r.RemoteAddr).Msg("ws_connected")

	s.readLoop(client, sess)
	s.registry.Leave(sess)
	client.Close()
	<-writerDone
	log.Debug().Str("room", sess.RoomID).Str("conn_id", sess.ConnID).Msg("ws_disconnected")
}

func (s *Server) readLoop(c *Client, sess *room.Session) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(s.clock.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(s.clock.Now().Add(pongWait))
	})
	for {
		msgType, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("conn_id", sess.ConnID).Msg("ws_read_error")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		metricFramesIn.Add(1)
		sess.Handle(msg)
	}
}

func (s *Server) writeLoop(c *Client) {
	ticker := s.clock.NewTicker(pingPeriod, "ws", "ping")
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg := <-c.send:
			if !s.write(c, msg) {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(s.clock.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			for {
				select {
				case msg := <-c.send:
					if !s.write(c, msg) {
						return
					}
				default:
					_ = c.conn.SetWriteDeadline(s.clock.Now().Add(writeWait))
					_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		}
	}
}

func (s *Server) write(c *Client, msg []byte) bool {
	_ = c.conn.SetWriteDeadline(s.clock.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return false
	}
	metricFramesOut.Add(1)
	return true
}
