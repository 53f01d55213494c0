package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/core"
	"github.com/linkup/linkup-server/internal/domain"
)

// Legacy event payloads, frozen for old clients. Do not add fields.

type legacyJoinPayload struct {
	Room string      `json:"room"`
	User domain.User `json:"user"`
}

func (ctl *Controller) handleLegacyJoin(sid core.ConnID, data []byte) {
	var p legacyJoinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		log.Warn().Str("module", "signal").Str("conn", string(sid)).Msg("bad join-room payload")
		return
	}
	ctl.Coord.JoinLegacy(sid, domain.RoomID(p.Room), p.User)
}

type legacySendPayload struct {
	Room string      `json:"room"`
	User domain.User `json:"user"`
	Text string      `json:"text"`
}

func (ctl *Controller) handleLegacySend(sid core.ConnID, data []byte) {
	var p legacySendPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		log.Warn().Str("module", "signal").Str("conn", string(sid)).Msg("bad send-message payload")
		return
	}
	ctl.Coord.LegacyMessage(domain.RoomID(p.Room), p.User, p.Text)
}
