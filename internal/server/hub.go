package server

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jswaro/coup/internal/command"
	"github.com/jswaro/coup/internal/models"
	"github.com/jswaro/coup/internal/store"
)

const sendBuffer = 64

// Hub tracks one websocket per connected player and fans engine messages
// out to them. Broadcasts are addressed to a game name; the hub expands
// them to the game's current seats at delivery time.
type Hub struct {
	reg  *store.Registry
	disp *command.Dispatcher
	log  *zap.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

type client struct {
	user string
	conn *websocket.Conn
	send chan string
	once sync.Once
}

// NewHub creates a hub over the given registry and dispatcher.
func NewHub(reg *store.Registry, disp *command.Dispatcher, log *zap.Logger) *Hub {
	return &Hub{
		reg:     reg,
		disp:    disp,
		log:     log,
		clients: make(map[string]*client),
	}
}

// Serve owns conn until it closes. A reconnect under the same user name
// replaces the previous connection.
func (h *Hub) Serve(user string, conn *websocket.Conn) {
	c := &client{user: user, conn: conn, send: make(chan string, sendBuffer)}

	h.mu.Lock()
	if old, ok := h.clients[user]; ok {
		old.close()
	}
	h.clients[user] = c
	h.mu.Unlock()

	h.log.Info("player connected", zap.String("user", user))
	go c.writePump()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		h.Deliver(h.disp.Handle(user, string(data)))
	}

	h.mu.Lock()
	if h.clients[user] == c {
		delete(h.clients, user)
	}
	h.mu.Unlock()
	c.close()
	h.log.Info("player disconnected", zap.String("user", user))
}

// Deliver pushes engine messages to their recipients, in order. Messages to
// players who are not connected are dropped; the engine state is already
// final by the time delivery happens.
func (h *Hub) Deliver(msgs []models.Message) {
	for _, m := range msgs {
		switch m.Kind {
		case models.Whisper:
			h.sendTo(m.Recipient, m.Text)
		case models.Broadcast:
			g, err := h.reg.Get(m.Recipient)
			if err != nil {
				h.log.Debug("broadcast for unknown game", zap.String("game", m.Recipient))
				continue
			}
			g.Lock()
			seats := g.PlayerNames()
			g.Unlock()
			text := "[" + m.Recipient + "] " + m.Text
			for _, name := range seats {
				h.sendTo(name, text)
			}
		}
	}
}

func (h *Hub) sendTo(user, text string) {
	h.mu.RLock()
	c, ok := h.clients[user]
	h.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case c.send <- text:
	default:
		// Slow consumer; drop the connection rather than block the engine.
		h.log.Warn("send buffer full, dropping connection", zap.String("user", user))
		c.close()
	}
}

func (c *client) writePump() {
	for text := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
			c.conn.Close()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}
