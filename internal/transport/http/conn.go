package http

import (
	"errors"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	errConnClosed     = errors.New("connection closed")
	errSendBufferFull = errors.New("send buffer full")
)

// wsConn adapts a gorilla connection to the engine's Conn interface. A
// single writer goroutine owns the socket; Send only enqueues, so it is safe
// to call while a session lock is held.
type wsConn struct {
	ws   *websocket.Conn
	send chan any
	done chan struct{}
	once sync.Once
}

func newWSConn(ws *websocket.Conn) *wsConn {
	c := &wsConn{
		ws:   ws,
		send: make(chan any, 32),
		done: make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

func (c *wsConn) writeLoop() {
	for {
		select {
		case msg := <-c.send:
			if err := c.ws.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Send enqueues without blocking; a full buffer drops the event rather than
// stalling the engine behind a slow client.
func (c *wsConn) Send(event any) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.send <- event:
		return nil
	case <-c.done:
		return errConnClosed
	default:
		return errSendBufferFull
	}
}

func (c *wsConn) IsOpen() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

func (c *wsConn) close() {
	c.once.Do(func() { close(c.done) })
}
