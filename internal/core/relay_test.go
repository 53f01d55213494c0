package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkup/linkup-server/internal/core"
	"github.com/linkup/linkup-server/internal/domain"
)

type relayFixture struct {
	reg   *core.Registry
	rooms *core.RoomTable
	relay *core.Relay
}

func newRelayFixture() *relayFixture {
	reg := core.NewRegistry()
	rooms := core.NewRoomTable()
	return &relayFixture{reg: reg, rooms: rooms, relay: core.NewRelay(reg, rooms)}
}

func (f *relayFixture) join(room, conn string) *fakeConn {
	sig := &fakeConn{}
	id := core.ConnID(conn)
	f.reg.Register(id, sig)
	f.rooms.Join(domain.RoomID(room), id, core.Participant{ConnID: id})
	return sig
}

func eventTypes(t *testing.T, frames []core.Frame) []string {
	t.Helper()
	out := make([]string, 0, len(frames))
	for _, fr := range frames {
		var env core.Envelope
		require.NoError(t, json.Unmarshal(fr, &env))
		out = append(out, env.Type)
	}
	return out
}

func TestBroadcastExceptSkipsSender(t *testing.T) {
	f := newRelayFixture()
	a := f.join("r1", "a")
	b := f.join("r1", "b")
	c := f.join("r1", "c")

	f.relay.BroadcastExcept(domain.RoomID("r1"), "a", "ping", nil)

	assert.Empty(t, a.sent())
	assert.Equal(t, []string{"ping"}, eventTypes(t, b.sent()))
	assert.Equal(t, []string{"ping"}, eventTypes(t, c.sent()))
}

func TestBroadcastAllIncludesSender(t *testing.T) {
	f := newRelayFixture()
	a := f.join("r1", "a")
	b := f.join("r1", "b")

	f.relay.BroadcastAll(domain.RoomID("r1"), "ping", nil)

	assert.Len(t, a.sent(), 1)
	assert.Len(t, b.sent(), 1)
}

func TestUnicastToAbsentTargetDrops(t *testing.T) {
	f := newRelayFixture()
	a := f.join("r1", "a")

	assert.NotPanics(t, func() {
		ok := f.relay.Unicast("ghost", "offer", nil)
		assert.False(t, ok)
	})
	assert.Empty(t, a.sent())
}

func TestSendFailureIsSwallowed(t *testing.T) {
	f := newRelayFixture()
	a := f.join("r1", "a")
	b := f.join("r1", "b")
	b.fail = true

	assert.NotPanics(t, func() {
		f.relay.BroadcastAll(domain.RoomID("r1"), "ping", nil)
	})
	// the healthy member still got its copy
	assert.Len(t, a.sent(), 1)
}
