package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/core"
)

// SignalPayload carries an SDP offer/answer or an ICE candidate plus
// its routing fields. The payload is an opaque blob: this server
// routes it, the browsers negotiate with it.
type SignalPayload struct {
	Payload json.RawMessage `json:"payload"`
	To      core.ConnID     `json:"to,omitempty"`
	From    core.ConnID     `json:"from,omitempty"`
}

// Forward relays an offer, answer or ice-candidate to its target
// connection. Only the routing fields are validated; the sender
// identity in the outgoing envelope is the registry-resolved one, not
// whatever the client wrote in `from`. A missing field or a target
// that no longer resolves drops the message silently: the relay is
// at-most-once and the sender is never told.
func (c *Coordinator) Forward(event string, from core.ConnID, sp SignalPayload) {
	if sp.To == "" || len(sp.Payload) == 0 {
		log.Warn().Str("module", "app.signaling").Str("event", event).Str("from", string(from)).Msg("malformed signaling event, dropped")
		return
	}
	c.Relay.Unicast(sp.To, event, SignalPayload{Payload: sp.Payload, From: from})
}
