package app

import (
	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/core"
	"github.com/linkup/linkup-server/internal/domain"
)

// Join puts the connection into room with a fresh profile snapshot,
// answers it with the participants already there, and announces it to
// everyone else. A connection sits in at most one room, so joining a
// new room first leaves the old one.
func (c *Coordinator) Join(id core.ConnID, room domain.RoomID, user domain.User) {
	if room == "" {
		log.Warn().Str("module", "app").Str("conn", string(id)).Msg("join without room, dropped")
		return
	}
	if conn, ok := c.Registry.Lookup(id); ok && conn.Room != "" && conn.Room != room {
		c.Leave(id, conn.Room)
	}

	p := core.Participant{ConnID: id, UserID: user.ID, Name: user.Name, Email: user.Email}
	c.Registry.AttachProfile(id, room, p)
	others := c.Rooms.Join(room, id, p)

	c.Relay.Unicast(id, core.EvParticipantsList, others)
	c.Relay.BroadcastExcept(room, id, core.EvUserJoined, p)
}

// Leave removes the connection from room, or from its stored room when
// the caller omitted one. Racing with a disconnect is fine: whichever
// runs first does the removal, the loser no-ops. Naming a room the
// connection never joined removes nothing and must not touch the
// stored room, or the later disconnect would skip the real one.
func (c *Coordinator) Leave(id core.ConnID, room domain.RoomID) {
	conn, ok := c.Registry.Lookup(id)
	if !ok {
		return
	}
	if room == "" {
		room = conn.Room
	}
	if room == "" {
		return
	}

	removed, remaining := c.Rooms.Leave(room, id)
	unlistened := c.Rooms.LeaveListener(room, id)
	if (removed || unlistened) && room == conn.Room {
		c.Registry.ClearRoom(id)
	}
	if removed && remaining > 0 {
		c.Relay.BroadcastExcept(room, id, core.EvUserLeft, conn.Profile)
	}
}

// Disconnect is the teardown sequence for a closed transport: read the
// connection's room and profile, drop the membership, tell the
// remaining members exactly once, then forget the connection. Nothing
// may reference the connection after that.
func (c *Coordinator) Disconnect(id core.ConnID) {
	conn, ok := c.Registry.Lookup(id)
	if !ok {
		return
	}
	if conn.Room != "" {
		removed, remaining := c.Rooms.Leave(conn.Room, id)
		c.Rooms.LeaveListener(conn.Room, id)
		if removed && remaining > 0 {
			c.Relay.BroadcastExcept(conn.Room, id, core.EvUserLeft, conn.Profile)
		}
	}
	c.Registry.Remove(id)
}

// RequestUsers answers the caller with the other members of room.
// It reads the same MembersExcluding query that feeds
// participantsList; the two events differ only in name, for client
// compatibility.
func (c *Coordinator) RequestUsers(id core.ConnID, room domain.RoomID) {
	c.Relay.Unicast(id, core.EvExistingUsers, c.Rooms.MembersExcluding(room, id))
}

// TypingNotice mirrors the typing payload straight through.
type TypingNotice struct {
	UserID   domain.UserID `json:"userId"`
	UserName string        `json:"userName"`
	IsTyping bool          `json:"isTyping"`
}

// Typing relays a typing indicator to everyone else in room.
func (c *Coordinator) Typing(id core.ConnID, room domain.RoomID, n TypingNotice) {
	c.Relay.BroadcastExcept(room, id, core.EvUserTyping, n)
}
