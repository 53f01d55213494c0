// Package signal is the WebSocket transport adapter. It owns the
// sockets and the JSON parsing; every decoded event becomes a call on
// the app coordinator, which owns the state.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/app"
	"github.com/linkup/linkup-server/internal/config"
	"github.com/linkup/linkup-server/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Coord    *app.Coordinator
	cfg      *config.Config
	upgrader websocket.Upgrader
	limiter  *RateLimiter
}

func NewController(coord *app.Coordinator, cfg *config.Config) *Controller {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	return &Controller{
		Coord: coord,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
		limiter: NewRateLimiter(30, time.Second*10),
	}
}

// wsConn adapts *websocket.Conn to core.SignalConnection. TrySend
// never blocks; a full send buffer is backpressure and the frame is
// dropped by the caller.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
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

func (c *wsConn) Close() {
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

// HandleWS upgrades the request, assigns the connection identity and
// starts the pumps. One reader per connection keeps a sender's events
// strictly in order.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	sid := core.ConnID(uuid.NewString())
	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	log.Info().Str("module", "signal").Str("conn", string(sid)).Msg("new WS connection")

	ctl.Coord.Connect(sid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, cancel, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}
