package http

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/vovakirdan/roomrelay/internal/core"
)

// ErrSendBufferFull is returned when a slow peer has not drained its queue.
var ErrSendBufferFull = errors.New("send buffer full")

// wsConn adapts a websocket connection to core.Conn. Sends never block:
// envelopes are queued and written by writeLoop.
type wsConn struct {
	id     string
	ws     *websocket.Conn
	out    chan []byte
	closed atomic.Bool
}

func newWSConn(id string, ws *websocket.Conn, buffer int) *wsConn {
	return &wsConn{
		id:  id,
		ws:  ws,
		out: make(chan []byte, buffer),
	}
}

var _ core.Conn = (*wsConn)(nil)

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Alive() bool { return !c.closed.Load() }

func (c *wsConn) Send(data []byte) error {
	if c.closed.Load() {
		return core.ErrConnClosed
	}
	select {
	case c.out <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *wsConn) markClosed() { c.closed.Store(true) }

// readLoop hands every data frame to fn until the peer goes away.
func (c *wsConn) readLoop(ctx context.Context, fn func([]byte)) error {
	for {
		_, data, err := c.ws.Read(ctx)
		if err != nil {
			return err
		}
		fn(data)
	}
}

// writeLoop drains the send queue. The queue is never closed; ctx ends the loop.
func (c *wsConn) writeLoop(ctx context.Context, timeout time.Duration) error {
	for {
		select {
		case data := <-c.out:
			wctx, cancel := context.WithTimeout(ctx, timeout)
			err := c.ws.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
