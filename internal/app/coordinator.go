// Package app wires the live-session state into one coordinator,
// the service object every transport handler is handed.
package app

import (
	"context"
	"time"

	"github.com/linkup/linkup-server/internal/core"
	"github.com/linkup/linkup-server/internal/domain"
)

// MessageStore is the persistence collaborator for chat history.
// Durability is its problem, not ours: the coordinator calls it
// best-effort and relays the message whatever the outcome.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg *domain.Message) (string, error)
}

// Coordinator owns the connection registry and the room membership
// table and implements the event semantics on top of the relay
// primitives. Constructed once per process; no ambient singletons.
type Coordinator struct {
	Registry *core.Registry
	Rooms    *core.RoomTable
	Relay    *core.Relay
	Store    MessageStore // nil runs chat without persistence

	persistTimeout time.Duration
}

func NewCoordinator(store MessageStore) *Coordinator {
	reg := core.NewRegistry()
	rooms := core.NewRoomTable()
	return &Coordinator{
		Registry:       reg,
		Rooms:          rooms,
		Relay:          core.NewRelay(reg, rooms),
		Store:          store,
		persistTimeout: 5 * time.Second,
	}
}

// Connect registers an accepted transport. The connection has no room
// and no profile until its joinRoom arrives.
func (c *Coordinator) Connect(id core.ConnID, sig core.SignalConnection) {
	c.Registry.Register(id, sig)
}
