package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/domain"
	"github.com/linkup/linkup-server/internal/metrics"
)

// Participant is the denormalized member snapshot stored in a room
// entry, so presence broadcasts need no extra lookup. It is re-derived
// on every join; profile edits show up only after a rejoin.
type Participant struct {
	ConnID ConnID        `json:"connectionId"`
	UserID domain.UserID `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email,omitempty"`
}

// Connection is one live transport session. Room and Profile stay zero
// until the client joins. Owned exclusively by the Registry; gone for
// good once the transport closes.
type Connection struct {
	ID      ConnID
	Room    domain.RoomID
	Profile Participant
	Signal  SignalConnection
}

// Registry maps connection identity to its current room and profile.
// Everything else in the session layer resolves senders and unicast
// targets through it.
type Registry struct {
	mu    sync.RWMutex
	conns map[ConnID]*Connection
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[ConnID]*Connection)}
}

// Register is called once per accepted transport.
func (r *Registry) Register(id ConnID, sig SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &Connection{ID: id, Signal: sig}
	metrics.ConnectionsActive.Set(float64(len(r.conns)))
	log.Info().Str("module", "core.registry").Str("conn", string(id)).Msg("connection registered")
}

// AttachProfile records the room and snapshot taken at join time.
// An unknown id means a disconnect won the race; that is a no-op.
func (r *Registry) AttachProfile(id ConnID, room domain.RoomID, p Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[id]
	if !ok {
		log.Warn().Str("module", "core.registry").Str("conn", string(id)).Msg("attach profile on unknown connection")
		return
	}
	conn.Room = room
	conn.Profile = p
	log.Info().Str("module", "core.registry").Str("conn", string(id)).Str("room", string(room)).Str("user", string(p.UserID)).Msg("profile attached")
}

// Lookup returns a copy; callers never share the registry's entry.
func (r *Registry) Lookup(id ConnID) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if conn, ok := r.conns[id]; ok {
		return *conn, true
	}
	return Connection{}, false
}

// ClearRoom detaches the connection from its room without tearing the
// transport down, for an explicit leaveRoom.
func (r *Registry) ClearRoom(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conn, ok := r.conns[id]; ok {
		conn.Room = ""
	}
}

// Remove must be the last operation for a connection. Idempotent.
func (r *Registry) Remove(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return
	}
	delete(r.conns, id)
	metrics.ConnectionsActive.Set(float64(len(r.conns)))
	log.Info().Str("module", "core.registry").Str("conn", string(id)).Msg("connection removed")
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
