package gateway

import (
	"sync"
	"sync/atomic"
	"time"

	"FamilyHub/tools/ids"

	"github.com/gorilla/websocket"
)

// Connection lifecycle states. The only legal paths are
// Connecting -> Authenticating -> Registered -> Closed and the short
// circuit Authenticating -> Closed on a failed handshake.
const (
	StateConnecting int32 = iota
	StateAuthenticating
	StateRegistered
	StateClosed
)

const writeDeadline = 5 * time.Second

// FrameWriter is the transport surface a Conn writes to. The production
// implementation wraps a gorilla conn; tests plug in recorders.
type FrameWriter interface {
	WriteFrame(data []byte) error
	Close() error
}

// Conn is one live transport connection. The handle id is minted here
// and never reused; identity lives in the gateway's side table, not on
// the conn.
type Conn struct {
	ID string

	mu    sync.Mutex // serializes frame writes
	w     FrameWriter
	state atomic.Int32
}

func NewConn(w FrameWriter) *Conn {
	c := &Conn{ID: ids.GenerateString(), w: w}
	c.state.Store(StateConnecting)
	return c
}

func (c *Conn) WriteFrame(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.WriteFrame(data)
}

func (c *Conn) Close() error {
	c.state.Store(StateClosed)
	return c.w.Close()
}

func (c *Conn) State() int32 { return c.state.Load() }

func (c *Conn) setState(s int32) { c.state.Store(s) }

// wsWriter adapts a websocket connection; every write gets a deadline so
// one stalled client cannot wedge a cast.
type wsWriter struct {
	ws *websocket.Conn
}

func (w *wsWriter) WriteFrame(data []byte) error {
	if err := w.ws.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	return w.ws.WriteMessage(websocket.TextMessage, data)
}

func (w *wsWriter) Close() error {
	return w.ws.Close()
}
