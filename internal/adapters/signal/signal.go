package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/classwave/live/internal/app"
	"github.com/classwave/live/internal/config"
	"github.com/classwave/live/internal/core"
	"github.com/classwave/live/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// WSController is the WebSocket boundary of the coordinator: it owns
// transports and their pumps, and forwards decoded requests to the
// gateway.
type WSController struct {
	Gateway *app.Gateway

	cfg   *config.Config
	joins *JoinRateLimiter
}

func NewWSController(gw *app.Gateway, cfg *config.Config) *WSController {
	return &WSController{
		Gateway: gw,
		cfg:     cfg,
		joins:   NewJoinRateLimiter(cfg.JoinLimit, cfg.JoinWindow),
	}
}

// WsSignalConn adapts one websocket to core.SignalConnection. Sends go
// through a buffered channel consumed by the write pump; a full channel
// is a backpressure error, never a blocked caller.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and starts the connection's pumps.
// The client token is the stable connection ref: a reconnect by the
// same client presents the same id and can retake its seat.
func (ctl *WSController) HandleSignal(ctx context.Context, c *gin.Context) {
	cid := domain.ConnID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}
	ctl.Gateway.Connect(cid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		// Closing the socket here unblocks a read loop parked in
		// ReadMessage, so a write failure or shutdown ends both pumps.
		defer conn.Close()
		ctl.writePump(ctx, conn)
	}()
	go ctl.readPump(ctx, cid, conn)
}
