package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/core"
	"github.com/linkup/linkup-server/internal/domain"
)

type joinPayload struct {
	Room string      `json:"room"`
	User domain.User `json:"user"`
}

func (ctl *Controller) handleJoin(sid core.ConnID, data []byte) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("bad join payload")
		return
	}
	if err := p.User.Validate(); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("join with invalid profile")
		return
	}
	ctl.Coord.Join(sid, domain.RoomID(p.Room), p.User)
}

type leavePayload struct {
	Room string `json:"room,omitempty"`
}

// handleLeave leaves the current room; the socket stays up.
// Room defaults to wherever the connection joined.
func (ctl *Controller) handleLeave(sid core.ConnID, data []byte) {
	var p leavePayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("bad leave payload")
			return
		}
	}
	ctl.Coord.Leave(sid, domain.RoomID(p.Room))
}

type requestUsersPayload struct {
	Room string `json:"room"`
}

func (ctl *Controller) handleRequestUsers(sid core.ConnID, data []byte) {
	var p requestUsersPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		log.Warn().Str("module", "signal").Str("conn", string(sid)).Msg("bad request-users payload")
		return
	}
	ctl.Coord.RequestUsers(sid, domain.RoomID(p.Room))
}
