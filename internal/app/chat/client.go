package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"duochat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxFrameSize = 8192

	// WsCloseCodeSessionKicked is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the session was replaced by a new connection.
	WsCloseCodeSessionKicked = 4001
)

// Client represents one active WebSocket connection. The connection id is
// server-generated; the owning user id is only learned from the join frame
// and lives in the ConnectionRegistry, not here.
type Client struct {
	// ID is the server-generated connection id.
	ID string

	hub    *Hub
	router *EventRouter
	conn   *websocket.Conn

	// send queues outbound frames for WritePump.
	send chan []byte

	// sendMu serializes enqueue against closeSend: the channel is only ever
	// closed while no enqueue is in flight, so a delivery racing a disconnect
	// cannot send on a closed channel.
	sendMu     sync.Mutex
	sendClosed bool

	// closeFrame, when set before the queue closes, is the close message
	// WritePump writes once the queue drains. Kick uses it to deliver the
	// 4001 frame without a second concurrent writer on the connection.
	closeFrame []byte

	logger zerolog.Logger
}

// NewClient constructs a Client around an upgraded connection.
func NewClient(hub *Hub, router *EventRouter, wsConn *websocket.Conn) *Client {
	connID := uuid.New().String()

	return &Client{
		ID:     connID,
		hub:    hub,
		router: router,
		conn:   wsConn,
		send:   make(chan []byte, 256),
		logger: logx.Logger().With().Str("conn_id", connID).Logger(),
	}
}

// ReadPump reads frames from the WebSocket connection and dispatches them
// synchronously, which is what preserves per-connection arrival order: a
// frame is processed to completion before the next one on this connection
// starts. It handles heartbeats (Pong) and performs cleanup on close.
func (c *Client) ReadPump(ctx context.Context) {
	defer c.cleanupOnDisconnect(ctx)

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.router.Dispatch(ctx, c.ID, frame)
	}
}

// cleanupOnDisconnect runs when ReadPump terminates: the registry entry is
// released (roster rebroadcast included) and the hub forgets the connection.
func (c *Client) cleanupOnDisconnect(ctx context.Context) {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.router.HandleDisconnect(ctx, c.ID)
	c.hub.Remove(c.ID)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump writes queued frames from the send channel to the WebSocket
// connection and keeps the heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel.
// Returns true if the WritePump loop should continue.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		// close(c.send) happened under sendMu after closeFrame was set, so
		// the read here observes it.
		closeMessage := c.closeFrame
		if closeMessage == nil {
			closeMessage = []byte{}
		}
		if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping to maintain the heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue attempts to queue one outbound frame. A closed queue rejects the
// frame; a full queue drops it rather than blocking the core. Either way the
// client reconciles on its next fetch.
func (c *Client) enqueue(frame []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping frame")
		return false
	}
}

// closeSend closes the outbound queue, which terminates WritePump. Safe to
// call more than once and safe against a concurrent enqueue.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return
	}
	c.sendClosed = true
	close(c.send)
}

// Kick closes the connection with a custom close frame (code 4001)
// indicating that the session was replaced by a new connection. The frame is
// delivered by WritePump when the queue drains, keeping a single writer on
// the connection.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeSessionKicked).
		Str("reason", reason).
		Msg("Sending WS kick message and closing connection.")

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return
	}
	c.closeFrame = websocket.FormatCloseMessage(WsCloseCodeSessionKicked, reason)
	c.sendClosed = true
	close(c.send)
}
