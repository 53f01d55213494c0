package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/domain"
	"github.com/linkup/linkup-server/internal/metrics"
)

// RoomTable tracks live presence only: which connections are in which
// room right now. A room exists iff it has at least one member or
// listener; it is created on first join and deleted when the last of
// either kind leaves. Room identities are case-sensitive arbitrary
// strings, never checked against the persisted room collection.
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomEntry
}

// roomEntry keeps membership in join order, like the insertion-ordered
// map the clients expect participant lists to follow. Listeners are
// delivery-only: they receive every room-wide broadcast but never
// appear in a participant snapshot. Legacy joiners live there.
type roomEntry struct {
	order     []ConnID
	members   map[ConnID]Participant
	listeners map[ConnID]struct{}
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[domain.RoomID]*roomEntry)}
}

// Join adds the connection to the room, creating the room if needed.
// A repeat join by the same connection refreshes the stored snapshot
// in place instead of duplicating the entry; a listener that joins is
// promoted to a member. Returns the members already present, excluding
// the joiner.
func (t *RoomTable) Join(room domain.RoomID, id ConnID, p Participant) []Participant {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := t.entryLocked(room)
	others := entry.excluding(id)
	delete(entry.listeners, id)
	if _, member := entry.members[id]; !member {
		entry.order = append(entry.order, id)
	}
	entry.members[id] = p
	log.Info().Str("module", "core.rooms").Str("room", string(room)).Str("conn", string(id)).Int("members", len(entry.members)).Msg("member joined")
	return others
}

// Leave removes the member if present and deletes the room once empty.
// Reports whether this call did the removal and how many members
// remain, so the caller can notify the remainder exactly once.
func (t *RoomTable) Leave(room domain.RoomID, id ConnID) (removed bool, remaining int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.rooms[room]
	if !ok {
		return false, 0
	}
	if _, member := entry.members[id]; !member {
		return false, len(entry.members)
	}

	delete(entry.members, id)
	for i, cid := range entry.order {
		if cid == id {
			entry.order = append(entry.order[:i], entry.order[i+1:]...)
			break
		}
	}

	remaining = len(entry.members)
	if !t.gcLocked(room, entry) {
		log.Info().Str("module", "core.rooms").Str("room", string(room)).Str("conn", string(id)).Int("members", remaining).Msg("member left")
	}
	return true, remaining
}

// JoinListener puts the connection into the room's delivery group
// without a participant entry. A member is already a recipient, so
// for one this is a no-op.
func (t *RoomTable) JoinListener(room domain.RoomID, id ConnID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := t.entryLocked(room)
	if _, member := entry.members[id]; member {
		return
	}
	entry.listeners[id] = struct{}{}
	log.Info().Str("module", "core.rooms").Str("room", string(room)).Str("conn", string(id)).Msg("listener joined")
}

// LeaveListener drops the connection from the delivery group. Reports
// whether there was anything to drop.
func (t *RoomTable) LeaveListener(room domain.RoomID, id ConnID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.rooms[room]
	if !ok {
		return false
	}
	if _, listening := entry.listeners[id]; !listening {
		return false
	}
	delete(entry.listeners, id)
	t.gcLocked(room, entry)
	return true
}

// MembersExcluding answers "who else is here": the ordered member
// list without the given connection. Empty if the room is absent.
// Listeners are never included.
func (t *RoomTable) MembersExcluding(room domain.RoomID, id ConnID) []Participant {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.rooms[room]
	if !ok {
		return []Participant{}
	}
	return entry.excluding(id)
}

// AllMembers returns the full ordered member list for participant
// snapshots. Empty if the room is absent. Listeners are never
// included.
func (t *RoomTable) AllMembers(room domain.RoomID) []Participant {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.rooms[room]
	if !ok {
		return []Participant{}
	}
	return entry.excluding("")
}

// Recipients is every connection a room-wide broadcast must reach:
// members in join order, then listeners.
func (t *RoomTable) Recipients(room domain.RoomID) []ConnID {
	return t.RecipientsExcluding(room, "")
}

// RecipientsExcluding is Recipients without the given connection.
func (t *RoomTable) RecipientsExcluding(room domain.RoomID, id ConnID) []ConnID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.rooms[room]
	if !ok {
		return nil
	}
	out := make([]ConnID, 0, len(entry.order)+len(entry.listeners))
	for _, cid := range entry.order {
		if cid != id {
			out = append(out, cid)
		}
	}
	for cid := range entry.listeners {
		if cid != id {
			out = append(out, cid)
		}
	}
	return out
}

func (t *RoomTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}

// entryLocked assumes the table lock is held.
func (t *RoomTable) entryLocked(room domain.RoomID) *roomEntry {
	entry, ok := t.rooms[room]
	if !ok {
		entry = &roomEntry{
			members:   make(map[ConnID]Participant),
			listeners: make(map[ConnID]struct{}),
		}
		t.rooms[room] = entry
		metrics.RoomsActive.Set(float64(len(t.rooms)))
		log.Info().Str("module", "core.rooms").Str("room", string(room)).Msg("room created")
	}
	return entry
}

// gcLocked assumes the table lock is held. Reports whether the room
// was deleted.
func (t *RoomTable) gcLocked(room domain.RoomID, e *roomEntry) bool {
	if len(e.members) > 0 || len(e.listeners) > 0 {
		return false
	}
	delete(t.rooms, room)
	metrics.RoomsActive.Set(float64(len(t.rooms)))
	log.Info().Str("module", "core.rooms").Str("room", string(room)).Msg("room deleted")
	return true
}

// excluding assumes the table lock is held.
func (e *roomEntry) excluding(id ConnID) []Participant {
	out := make([]Participant, 0, len(e.members))
	for _, cid := range e.order {
		if cid == id {
			continue
		}
		if p, ok := e.members[cid]; ok {
			out = append(out, p)
		}
	}
	return out
}
