package app

import (
	"github.com/linkup/linkup-server/internal/core"
	"github.com/linkup/linkup-server/internal/domain"
)

// Legacy clients speak join-room / send-message. A legacy joiner
// enters the room's delivery group, so every room-wide broadcast
// reaches it, but it never appears in a participant snapshot and
// nothing it sends is persisted.

func (c *Coordinator) JoinLegacy(id core.ConnID, room domain.RoomID, user domain.User) {
	c.Registry.AttachProfile(id, room, core.Participant{ConnID: id, UserID: user.ID, Name: user.Name, Email: user.Email})
	c.Rooms.JoinListener(room, id)
	c.Relay.BroadcastExcept(room, id, core.EvLegacyUserJoined, user)
}

type legacyMessage struct {
	User domain.User `json:"user"`
	Text string      `json:"text"`
}

func (c *Coordinator) LegacyMessage(room domain.RoomID, user domain.User, text string) {
	c.Relay.BroadcastAll(room, core.EvLegacyReceive, legacyMessage{User: user, Text: text})
}
