package ws

import (
	"net/http"

	"github.com/gorilla/websocket"

	"hems-sim/internal/synth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SnapshotFunc hands the current buffered readings and buffer capacity to
// subscribe. Implementations must hold off new broadcasts until subscribe
// returns, so a reading lands either in the snapshot or in the stream.
type SnapshotFunc func(subscribe func(points []synth.Point, capacity int))

// Handler upgrades connections, sends the current snapshot and then relays
// hub broadcasts. Client messages are read only to detect disconnects.
type Handler struct {
	hub      *Hub
	snapshot SnapshotFunc
}

func NewHandler(hub *Hub, snapshot SnapshotFunc) *Handler {
	return &Handler{hub: hub, snapshot: snapshot}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	if h.snapshot != nil {
		h.snapshot(func(points []synth.Point, capacity int) {
			if msg, err := NewEnvelope(TypeLiveSnapshot, SnapshotPayloadFromPoints(points, capacity)); err == nil {
				client.send <- msg
			}
			h.hub.Register(client)
		})
	} else {
		h.hub.Register(client)
	}
	go client.writePump()

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.hub.log.WithError(err).Warn("websocket read error")
			}
			return
		}
	}
}
