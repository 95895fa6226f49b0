package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"location-presence-service/internal/metrics"
	"location-presence-service/internal/registry"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueueSize  = 64
)

// ErrQueueFull reports an outbound frame dropped for a slow consumer.
var ErrQueueFull = errors.New("send queue full")

// outFrame is the outbound counterpart of envelope.
type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is one streaming connection together with its session state. A
// connection carries at most one (userID, groupName) pair at a time; the
// session fields are touched only by the read pump.
type Client struct {
	id   string
	conn *websocket.Conn
	reg  *registry.Registry
	send chan outFrame

	userID    string
	groupName string
}

func newClient(conn *websocket.Conn, reg *registry.Registry) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		reg:  reg,
		send: make(chan outFrame, sendQueueSize),
	}
}

// ID implements domain.Channel.
func (c *Client) ID() string { return c.id }

// Send implements domain.Channel. It never blocks: when the queue is full
// the frame is dropped for this recipient only.
func (c *Client) Send(event string, data any) error {
	select {
	case c.send <- outFrame{Event: event, Data: data}:
		return nil
	default:
		metrics.FramesDroppedTotal.Inc()
		return ErrQueueFull
	}
}

// readPump owns all reads and the session state machine. On return the
// member is marked disconnected (never removed) and the send queue is
// closed, which in turn stops the write pump.
func (c *Client) readPump() {
	defer func() {
		if c.groupName != "" {
			// MarkDisconnected runs under the registry lock before the queue
			// closes, so no broadcast can reach a closed channel.
			c.reg.MarkDisconnected(c.groupName, c.userID, c)
		}
		close(c.send)
		_ = c.conn.Close()
		metrics.ConnectionsActive.Dec()
		slog.Info("connection closed", "channel", c.id, "user", c.userID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("read failed", "channel", c.id, "error", err)
			}
			return
		}
		c.handleFrame(raw)
	}
}

// handleFrame dispatches one inbound event. Malformed frames and events
// outside the current session state are dropped without killing the
// connection.
func (c *Client) handleFrame(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		slog.Warn("malformed frame", "channel", c.id, "error", err)
		return
	}
	metrics.EventsInTotal.WithLabelValues(env.Event).Inc()

	switch env.Event {
	case eventJoinGroup:
		var data joinGroupData
		if err := json.Unmarshal(env.Data, &data); err != nil || data.UserID == "" || data.GroupName == "" {
			slog.Warn("bad join-group payload", "channel", c.id)
			return
		}
		if c.groupName != "" {
			// One (user, group) pair per connection: switching groups leaves
			// the old one first.
			c.reg.Leave(c.groupName, c.userID)
		}
		c.userID, c.groupName = data.UserID, data.GroupName
		c.reg.Join(c.groupName, c.userID, c)

	case eventUpdateLocation:
		if c.groupName == "" {
			return
		}
		var data updateLocationData
		if err := json.Unmarshal(env.Data, &data); err != nil || data.Lat == nil || data.Lng == nil {
			return
		}
		err := c.reg.UpdateLocation(c.groupName, c.userID, *data.Lat, *data.Lng, data.Speed, data.Heading, registry.SourceStreaming)
		if err != nil {
			slog.Debug("update dropped", "channel", c.id, "error", err)
		}

	case eventToggleSharing:
		if c.groupName == "" {
			return
		}
		var data toggleSharingData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return
		}
		c.reg.SetSharing(c.groupName, c.userID, data.Sharing)

	case eventLeaveGroup:
		if c.groupName == "" {
			return
		}
		c.reg.Leave(c.groupName, c.userID)
		c.userID, c.groupName = "", ""

	default:
		slog.Warn("unknown event", "channel", c.id, "event", env.Event)
	}
}

// writePump owns all writes: queued frames plus keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, open := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
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
