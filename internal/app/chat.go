package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/core"
	"github.com/linkup/linkup-server/internal/domain"
	"github.com/linkup/linkup-server/internal/metrics"
)

// SendMessage runs a text message through the chat bridge.
func (c *Coordinator) SendMessage(ctx context.Context, room domain.RoomID, msg *domain.Message) {
	msg.Type = domain.MessageText
	c.relayMessage(ctx, room, core.EvNewMessage, msg)
}

// ShareFile runs a file-share through the chat bridge.
func (c *Coordinator) ShareFile(ctx context.Context, room domain.RoomID, msg *domain.Message) {
	msg.Type = domain.MessageFile
	c.relayMessage(ctx, room, core.EvFileShared, msg)
}

// relayMessage persists best-effort, then broadcasts to the whole room
// including the sender. The store call is awaited under its own
// timeout and holds no membership lock; a slow or dead store costs the
// message its durable id, never its delivery.
func (c *Coordinator) relayMessage(ctx context.Context, room domain.RoomID, event string, msg *domain.Message) {
	msg.RoomID = room
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	if c.Store != nil {
		pctx, cancel := context.WithTimeout(ctx, c.persistTimeout)
		id, err := c.Store.SaveMessage(pctx, msg)
		cancel()
		if err != nil {
			metrics.PersistFailures.Inc()
			log.Warn().Err(err).Str("module", "app.chat").Str("room", string(room)).Msg("persist failed, relaying without id")
		} else {
			msg.ID = id
		}
	}

	c.Relay.BroadcastAll(room, event, msg)
}
