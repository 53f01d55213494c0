package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/core"
	"github.com/linkup/linkup-server/internal/metrics"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, cancel context.CancelFunc, c *wsConn) {
	ping := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ping.Stop()
		cancel()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump is the only reader for its connection; the disconnect
// reconciler runs exactly once, on its way out.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sid core.ConnID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(sid)).Msg("readPump closing")
		ctl.Coord.Disconnect(sid)
		ctl.limiter.Forget(sid)
		cancel()
		c.Close()
	}()

	readWait := ctl.cfg.PingPeriod + writeWait
	_ = c.conn.SetReadDeadline(time.Now().Add(readWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("readPump read error")
				return
			}
			ctl.dispatch(ctx, sid, data)
		}
	}
}

// dispatch routes one inbound frame. Anything malformed or unknown is
// logged and dropped; one client's garbage never reaches another's
// session.
func (ctl *Controller) dispatch(ctx context.Context, sid core.ConnID, data []byte) {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("bad json, dropped")
		return
	}
	metrics.EventsTotal.WithLabelValues(eventLabel(env.Type)).Inc()

	switch env.Type {
	case core.EvJoinRoom:
		ctl.handleJoin(sid, env.Data)
	case core.EvLeaveRoom:
		ctl.handleLeave(sid, env.Data)
	case core.EvSendMessage:
		ctl.handleSendMessage(ctx, sid, env.Data)
	case core.EvShareFile:
		ctl.handleShareFile(ctx, sid, env.Data)
	case core.EvTyping:
		ctl.handleTyping(sid, env.Data)
	case core.EvOffer, core.EvAnswer, core.EvICECandidate:
		ctl.handleSignal(sid, env.Type, env.Data)
	case core.EvRequestUsers:
		ctl.handleRequestUsers(sid, env.Data)
	case core.EvLegacyJoin:
		ctl.handleLegacyJoin(sid, env.Data)
	case core.EvLegacySend:
		ctl.handleLegacySend(sid, env.Data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

// eventLabel collapses client-supplied types outside the known set
// into one label, so junk event names cannot grow the metric's series
// set without bound.
func eventLabel(t string) string {
	switch t {
	case core.EvJoinRoom, core.EvLeaveRoom, core.EvSendMessage, core.EvShareFile,
		core.EvTyping, core.EvOffer, core.EvAnswer, core.EvICECandidate,
		core.EvRequestUsers, core.EvLegacyJoin, core.EvLegacySend:
		return t
	}
	return "unknown"
}
