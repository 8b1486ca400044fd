/*
Package assist contains the remote-assistance relay.

This file defines the conn struct wrapping a single WebSocket connection. It
runs the read and write pumps that shuttle frames between the socket and the
relay's event loop.
*/
package assist

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
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

	// capacity of the per-connection outbound queue.
	sendQueueSize = 64
)

// Socket is the subset of *websocket.Conn the relay depends on. The relay is
// handed already-upgraded connections and performs no listening of its own.
type Socket interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// conn wraps one accepted socket. The opaque id, assigned at accept time, is
// the key for every registry lookup; the socket handle itself is never used
// as a map key.
type conn struct {
	id uint64

	ws Socket

	// send queues outbound frames for the write pump. It is closed only by
	// the relay event loop, never by the pumps.
	send chan []byte

	// closed marks the send queue as unusable. Read and written only by the
	// relay event loop.
	closed bool

	logger zerolog.Logger
}

// enqueue hands a marshaled frame to the write pump. Delivery is best-effort:
// a closed connection or a full queue drops the frame for this recipient only.
func (c *conn) enqueue(data []byte) {
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Connection send queue full, dropping frame.")
	}
}

// shutdown closes the send queue, which terminates the write pump. Called
// only from the relay event loop.
func (c *conn) shutdown() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump reads frames from the socket and feeds them to the relay event
// loop. It runs in the goroutine that accepted the connection and exits on
// the first read error, reporting the disconnect to the relay.
func (c *conn) readPump(r *Relay) {
	defer func() {
		r.reportDisconnect(c.id)

		if err := c.ws.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error after read pump exit.")
		}
	}()

	c.ws.SetReadLimit(maxFrameSize)

	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		r.reportFrame(c.id, data)
	}
}

// writePump drains the send queue onto the socket and keeps the heartbeat
// alive. It exits when the send queue is closed or a write fails.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.ws.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in write pump.")
		}
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				if err := c.ws.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}
