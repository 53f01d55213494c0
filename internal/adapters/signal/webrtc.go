package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/app"
	"github.com/linkup/linkup-server/internal/core"
)

// handleSignal covers offer, answer and ice-candidate alike: decode
// the routing envelope and hand the opaque payload to the forwarder.
func (ctl *Controller) handleSignal(sid core.ConnID, event string, data []byte) {
	var sp app.SignalPayload
	if err := json.Unmarshal(data, &sp); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Str("event", event).Msg("bad signaling payload")
		return
	}
	ctl.Coord.Forward(event, sid, sp)
}
