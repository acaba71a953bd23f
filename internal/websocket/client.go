package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/anhnphe171575/SepCapstone-sub005/pkg/chat"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum frame size allowed from peer. Content is capped at 2000
	// runes, so this leaves headroom for the envelope.
	maxMessageSize = 16 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking for production
		return true
	},
}

// Client is one WebSocket connection. Its identity is unknown until the
// join handshake sets userID.
type Client struct {
	ID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// Set by the session dispatch goroutine on join; read elsewhere only
	// after registration.
	userID string

	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 64),
	}
}

func (c *Client) UserID() string {
	return c.userID
}

// SendEvent marshals and queues one outbound event for this connection.
func (c *Client) SendEvent(event string, data any) {
	payload, err := marshalEvent(event, data)
	if err != nil {
		log.Printf("ws marshal %s: %v", event, err)
		return
	}
	c.enqueue(payload)
}

// enqueue never blocks; when the buffer is full the oldest queued frame
// is dropped to keep a slow client from stalling the dispatcher.
func (c *Client) enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- payload:
		default:
		}
	}
}

// ReadPump pumps inbound frames into the session dispatcher. It runs on
// the connection's goroutine, so events from one connection are handled
// in transport order.
func (c *Client) ReadPump(s *Session) {
	defer func() {
		s.HandleDisconnect(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env chat.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws conn %s read error: %v", c.ID, err)
			}
			return
		}
		if env.Event == chat.EventDisconnect {
			return
		}
		s.HandleEvent(c, env)
	}
}

// WritePump drains the send queue to the connection and keeps the peer
// alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func marshalEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(chat.Envelope{Event: event, Data: raw})
}
