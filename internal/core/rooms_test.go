package core_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkup/linkup-server/internal/core"
)

func TestJoinIdempotent(t *testing.T) {
	tbl := core.NewRoomTable()

	others := tbl.Join("r1", "c1", core.Participant{ConnID: "c1", Name: "Ann"})
	assert.Empty(t, others)

	// a repeat join refreshes the snapshot, it does not duplicate
	others = tbl.Join("r1", "c1", core.Participant{ConnID: "c1", Name: "Ann Renamed"})
	assert.Empty(t, others)

	all := tbl.AllMembers("r1")
	require.Len(t, all, 1)
	assert.Equal(t, "Ann Renamed", all[0].Name)
}

func TestJoinReturnsOthersOnly(t *testing.T) {
	tbl := core.NewRoomTable()
	tbl.Join("r1", "c1", core.Participant{ConnID: "c1", Name: "Ann"})

	others := tbl.Join("r1", "c2", core.Participant{ConnID: "c2", Name: "Bob"})
	require.Len(t, others, 1)
	assert.Equal(t, core.ConnID("c1"), others[0].ConnID)
}

func TestEmptyRoomGC(t *testing.T) {
	tbl := core.NewRoomTable()
	tbl.Join("r1", "c1", core.Participant{ConnID: "c1"})
	tbl.Join("r1", "c2", core.Participant{ConnID: "c2"})

	removed, remaining := tbl.Leave("r1", "c1")
	assert.True(t, removed)
	assert.Equal(t, 1, remaining)

	removed, remaining = tbl.Leave("r1", "c2")
	assert.True(t, removed)
	assert.Zero(t, remaining)

	assert.Empty(t, tbl.AllMembers("r1"))
	assert.Empty(t, tbl.MembersExcluding("r1", "c9"))
	assert.Zero(t, tbl.Count())
}

func TestLeaveAbsentIsNoop(t *testing.T) {
	tbl := core.NewRoomTable()

	removed, remaining := tbl.Leave("nowhere", "c1")
	assert.False(t, removed)
	assert.Zero(t, remaining)

	tbl.Join("r1", "c1", core.Participant{ConnID: "c1"})
	removed, remaining = tbl.Leave("r1", "c2")
	assert.False(t, removed)
	assert.Equal(t, 1, remaining)
}

func TestMembersExcludingNeverIncludesSelf(t *testing.T) {
	tbl := core.NewRoomTable()
	for i := 0; i < 5; i++ {
		id := core.ConnID(fmt.Sprintf("c%d", i))
		tbl.Join("r1", id, core.Participant{ConnID: id})
	}

	for i := 0; i < 5; i++ {
		id := core.ConnID(fmt.Sprintf("c%d", i))
		members := tbl.MembersExcluding("r1", id)
		assert.Len(t, members, 4)
		for _, m := range members {
			assert.NotEqual(t, id, m.ConnID)
		}
	}
}

func TestListenersReceiveButAreNotListed(t *testing.T) {
	tbl := core.NewRoomTable()
	tbl.Join("r1", "c1", core.Participant{ConnID: "c1"})
	tbl.JoinListener("r1", "l1")

	assert.Len(t, tbl.AllMembers("r1"), 1)
	assert.Empty(t, tbl.MembersExcluding("r1", "c1"))
	assert.ElementsMatch(t, []core.ConnID{"c1", "l1"}, tbl.Recipients("r1"))
	assert.ElementsMatch(t, []core.ConnID{"l1"}, tbl.RecipientsExcluding("r1", "c1"))
}

func TestListenerKeepsRoomAlive(t *testing.T) {
	tbl := core.NewRoomTable()
	tbl.Join("r1", "c1", core.Participant{ConnID: "c1"})
	tbl.JoinListener("r1", "l1")

	removed, remaining := tbl.Leave("r1", "c1")
	assert.True(t, removed)
	assert.Zero(t, remaining)
	assert.Equal(t, 1, tbl.Count())

	assert.True(t, tbl.LeaveListener("r1", "l1"))
	assert.Zero(t, tbl.Count())
	assert.False(t, tbl.LeaveListener("r1", "l1"))
}

func TestJoinPromotesListener(t *testing.T) {
	tbl := core.NewRoomTable()
	tbl.JoinListener("r1", "c1")
	tbl.Join("r1", "c1", core.Participant{ConnID: "c1"})

	// one delivery target after promotion, not two
	assert.Equal(t, []core.ConnID{"c1"}, tbl.Recipients("r1"))
	assert.Len(t, tbl.AllMembers("r1"), 1)
}

func TestMembershipKeepsJoinOrder(t *testing.T) {
	tbl := core.NewRoomTable()
	tbl.Join("r1", "c1", core.Participant{ConnID: "c1"})
	tbl.Join("r1", "c2", core.Participant{ConnID: "c2"})
	tbl.Join("r1", "c3", core.Participant{ConnID: "c3"})

	// a rejoin must not move the member to the back
	tbl.Join("r1", "c1", core.Participant{ConnID: "c1", Name: "again"})

	all := tbl.AllMembers("r1")
	require.Len(t, all, 3)
	assert.Equal(t, core.ConnID("c1"), all[0].ConnID)
	assert.Equal(t, core.ConnID("c2"), all[1].ConnID)
	assert.Equal(t, core.ConnID("c3"), all[2].ConnID)
}
