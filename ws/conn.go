package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"guesswho-client/clienterrors"
	"guesswho-client/protocol"
	"guesswho-client/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Full board pushes for large
	// grids with long face paths need the headroom.
	maxMessageSize = 64 * 1024

	sendBuffer    = 64
	inboundBuffer = 16
)

// Conn is the client end of the game socket. Inbound frames are decoded onto
// Inbound(); Emit queues outbound frames for the write pump.
type Conn struct {
	conn    *websocket.Conn
	send    chan []byte
	inbound chan protocol.Envelope

	// done is closed when the read pump exits; closed when Close is called.
	done      chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

// Dial connects to url and starts the read and write pumps.
func Dial(ctx context.Context, url string, header http.Header) (*Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	slog.Info("connected", "tag", "ws", "url", url)

	c := &Conn{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		inbound: make(chan protocol.Envelope, inboundBuffer),
		done:    make(chan struct{}),
		closed:  make(chan struct{}),
	}
	go c.writePump()
	go c.readPump()
	return c, nil
}

// Inbound delivers decoded frames in arrival order.
func (c *Conn) Inbound() <-chan protocol.Envelope {
	return c.inbound
}

// Done is closed once the connection stops reading.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Emit encodes event and queues it. It never blocks.
func (c *Conn) Emit(event string, payload any) error {
	data, err := protocol.Encode(event, payload)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return clienterrors.ErrDisconnected
	case <-c.closed:
		return clienterrors.ErrDisconnected
	default:
	}
	if !wsutil.SafeSend(c.send, data) {
		return fmt.Errorf("queueing %q: %w", event, clienterrors.ErrDisconnected)
	}
	slog.Debug("emitted", "tag", "ws", "event", event)
	return nil
}

// Close sends a close frame and shuts the connection down.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		close(c.send)
	})
	return nil
}

// readPump pumps frames from the websocket connection to Inbound.
func (c *Conn) readPump() {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("read error", "tag", "ws", "err", err)
			}
			return
		}
		// Any traffic from the server counts as liveness.
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		env, err := protocol.Decode(message)
		if err != nil {
			slog.Warn("dropping undecodable frame", "tag", "ws", "err", err)
			continue
		}
		select {
		case c.inbound <- env:
		case <-c.closed:
			return
		}
	}
}

// writePump pumps frames from the send channel to the websocket connection.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Close was called.
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Warn("write error", "tag", "ws", "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
