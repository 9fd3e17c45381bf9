package gateway

import (
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"FamilyHub/logger"
	"FamilyHub/tools/errs"
	"FamilyHub/tools/safe"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Keepalive: the read deadline is renewed by pongs; a peer that stops
// answering pings times out on the next read.
const (
	readLimit    = 1 << 20
	readWait     = 60 * time.Second
	pingInterval = 25 * time.Second
)

// ConnectionLifecycleHandler is implemented by channels that need to
// react to registered connections coming and going. Multiple handlers
// may be registered; a failing handler is logged and never crashes the
// transport.
type ConnectionLifecycleHandler interface {
	OnUserConnected(c *Conn, identity *UserIdentity)
	OnUserDisconnected(c *Conn, userID string)
}

// CommandFunc handles one inbound client command on a namespace. A nil
// return is acknowledged {success:true}, an error {success:false}.
type CommandFunc func(c *Conn, identity *UserIdentity, data map[string]any) error

// Presence mirrors online/offline edges to an external store,
// best-effort. Nil disables mirroring.
type Presence interface {
	Online(userID string) error
	Offline(userID string) error
}

// Gateway owns the connection lifecycle shared by every channel
// namespace: handshake authentication, registry bookkeeping, the
// identity side table, lifecycle dispatch and the cast primitives.
// One instance per process, injected everywhere; no package globals.
type Gateway struct {
	reg      *Registry
	auth     *HandshakeAuth
	presence Presence

	identities identityTable
	handlers   []ConnectionLifecycleHandler
	commands   map[string]map[string]CommandFunc // namespace -> cmd
}

func New(reg *Registry, auth *HandshakeAuth, presence Presence) *Gateway {
	return &Gateway{
		reg:      reg,
		auth:     auth,
		presence: presence,
		commands: make(map[string]map[string]CommandFunc),
	}
}

func (g *Gateway) Registry() *Registry { return g.reg }

// RegisterLifecycleHandler wires a channel in. Call during startup,
// before the HTTP server accepts upgrades.
func (g *Gateway) RegisterLifecycleHandler(h ConnectionLifecycleHandler) {
	g.handlers = append(g.handlers, h)
}

// RegisterCommand binds a client command on a namespace. Startup only.
func (g *Gateway) RegisterCommand(namespace, cmd string, fn CommandFunc) {
	if g.commands[namespace] == nil {
		g.commands[namespace] = make(map[string]CommandFunc)
	}
	g.commands[namespace][cmd] = fn
}

// Identity returns the identity attached to a live handle, or nil.
func (g *Gateway) Identity(handleID string) *UserIdentity {
	return g.identities.get(handleID)
}

// HandleWS returns the gin handler for one namespace's upgrade
// endpoint. The connection is authenticated before it is registered;
// a failed handshake is force-closed and never touches the registry.
func (g *Gateway) HandleWS(namespace string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Infof("[ws] upgrade failed namespace=%s err=%v", namespace, err)
			return
		}

		conn := NewConn(&wsWriter{ws: ws})
		conn.setState(StateAuthenticating)

		identity, aerr := g.auth.Authenticate(c.Request)
		if aerr != nil {
			logger.Infof("[ws] handshake rejected namespace=%s handle=%s err=%v", namespace, conn.ID, aerr)
			if payload, merr := MarshalFrame("auth_error", aerr); merr == nil {
				_ = conn.WriteFrame(payload)
			}
			_ = conn.Close()
			return
		}

		g.register(namespace, conn, identity)
		g.readLoop(namespace, conn, ws, identity)
		g.unregister(namespace, conn)
	}
}

func (g *Gateway) register(namespace string, conn *Conn, identity *UserIdentity) {
	g.identities.set(conn.ID, identity)
	n := g.reg.Add(identity.UserID, conn)
	conn.setState(StateRegistered)
	logger.Infof("[ws] registered namespace=%s handle=%s user=%s conns=%d", namespace, conn.ID, identity.UserID, n)

	if n == 1 && g.presence != nil {
		userID := identity.UserID
		safe.Go(func() {
			if err := g.presence.Online(userID); err != nil {
				logger.Warnf("[presence] online mirror failed user=%s err=%v", userID, err)
			}
		})
	}
	for _, h := range g.handlers {
		h := h
		safe.Call(func() { h.OnUserConnected(conn, identity) })
	}
}

func (g *Gateway) unregister(namespace string, conn *Conn) {
	g.identities.del(conn.ID)
	_ = conn.Close()

	userID, remaining, ok := g.reg.Remove(conn.ID)
	if !ok {
		// already evicted, nothing left to tear down
		return
	}
	logger.Infof("[ws] closed namespace=%s handle=%s user=%s remaining=%d", namespace, conn.ID, userID, remaining)

	for _, h := range g.handlers {
		h := h
		safe.Call(func() { h.OnUserDisconnected(conn, userID) })
	}
	if remaining == 0 && g.presence != nil {
		safe.Go(func() {
			if err := g.presence.Offline(userID); err != nil {
				logger.Warnf("[presence] offline mirror failed user=%s err=%v", userID, err)
			}
		})
	}
}

func (g *Gateway) readLoop(namespace string, conn *Conn, ws *websocket.Conn, identity *UserIdentity) {
	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(readWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readWait))
	})

	done := make(chan struct{})
	defer close(done)
	safe.Go(func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeDeadline)); err != nil {
					return
				}
			}
		}
	})

	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] peer closed handle=%s err=%v", conn.ID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[ws] read timeout handle=%s err=%v", conn.ID, rerr)
			} else {
				logger.Infof("[ws] read err handle=%s err=%v", conn.ID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		cmd, perr := ParseCommand(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[ws] bad command handle=%s err=%v sample=%q", conn.ID, perr, sample)
			continue
		}

		g.dispatchCommand(namespace, conn, identity, cmd)
	}
}

func (g *Gateway) dispatchCommand(namespace string, conn *Conn, identity *UserIdentity, cmd *Command) {
	fn := g.commands[namespace][cmd.Cmd]
	if fn == nil {
		logger.Infof("[ws] no handler namespace=%s cmd=%s handle=%s", namespace, cmd.Cmd, conn.ID)
		g.writeAck(conn, Ack{Cmd: cmd.Cmd, Success: false, Code: errs.CodeArgs, Msg: "unknown command"})
		return
	}

	var err error
	if ok := safe.Call(func() { err = fn(conn, identity, cmd.Data) }); !ok {
		err = errs.ErrInternal
	}
	if err != nil {
		ack := Ack{Cmd: cmd.Cmd, Success: false, Code: errs.CodeInternal, Msg: "internal"}
		var ce *errs.CodeError
		if stderrors.As(err, &ce) {
			ack.Code = ce.Code
			ack.Msg = ce.Msg
		}
		logger.Infof("[ws] command failed namespace=%s cmd=%s handle=%s err=%v", namespace, cmd.Cmd, conn.ID, err)
		g.writeAck(conn, ack)
		return
	}
	g.writeAck(conn, Ack{Cmd: cmd.Cmd, Success: true})
}

func (g *Gateway) writeAck(conn *Conn, ack Ack) {
	payload, err := MarshalFrame("ack", ack)
	if err != nil {
		return
	}
	if err := conn.WriteFrame(payload); err != nil {
		logger.Warnf("[ws] ack write failed handle=%s err=%v", conn.ID, err)
	}
}

// EmitConns writes one event to a previously snapshotted set of
// connections. A failed write is logged and skipped; it never aborts
// delivery to the rest of the set. Returns the delivered count.
func (g *Gateway) EmitConns(conns []*Conn, event string, data any) int {
	payload, err := MarshalFrame(event, data)
	if err != nil {
		logger.Errorf("[emit] marshal failed event=%s err=%v", event, err)
		return 0
	}
	delivered := 0
	for _, c := range conns {
		if werr := c.WriteFrame(payload); werr != nil {
			logger.Warnf("[emit] %v event=%s handle=%s err=%v", errs.ErrDeliveryFailed.Msg, event, c.ID, werr)
			continue
		}
		delivered++
	}
	return delivered
}

// EmitToUser pushes to every live connection of one user. Zero handles
// is a no-op: delivery is never queued or retried here, the persisted
// record stays authoritative.
func (g *Gateway) EmitToUser(userID, event string, data any) int {
	return g.EmitConns(g.reg.UserConns(userID), event, data)
}

// EmitToAll broadcasts to every registered connection.
func (g *Gateway) EmitToAll(event string, data any) int {
	return g.EmitConns(g.reg.AllConns(), event, data)
}

// EmitToRoom broadcasts to the members of one room in the given
// namespace table.
func (g *Gateway) EmitToRoom(table *RoomTable, roomKey, event string, data any) int {
	return g.EmitConns(table.Snapshot(roomKey), event, data)
}

// Evict force-disconnects every connection of a user. Registry and room
// state go first, the physical closes after, so no emit started later
// can resolve to these handles even if a close is delayed.
func (g *Gateway) Evict(userID string) int {
	conns := g.reg.RemoveAllForUser(userID)
	for _, c := range conns {
		g.identities.del(c.ID)
		for _, h := range g.handlers {
			h, c := h, c
			safe.Call(func() { h.OnUserDisconnected(c, userID) })
		}
	}
	for _, c := range conns {
		_ = c.Close()
	}
	if len(conns) > 0 && g.presence != nil {
		safe.Go(func() {
			if err := g.presence.Offline(userID); err != nil {
				logger.Warnf("[presence] offline mirror failed user=%s err=%v", userID, err)
			}
		})
	}
	logger.Infof("[ws] evicted user=%s conns=%d", userID, len(conns))
	return len(conns)
}
