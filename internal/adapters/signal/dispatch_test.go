package signal

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkup/linkup-server/internal/app"
	"github.com/linkup/linkup-server/internal/config"
	"github.com/linkup/linkup-server/internal/core"
	"github.com/linkup/linkup-server/internal/metrics"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) types(t *testing.T) []string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.frames))
	for _, fr := range f.frames {
		var env core.Envelope
		require.NoError(t, json.Unmarshal(fr, &env))
		out = append(out, env.Type)
	}
	return out
}

func newTestController() *Controller {
	return NewController(app.NewCoordinator(nil), &config.Config{
		ReadLimit:  1 << 20,
		PingPeriod: 54 * time.Second,
	})
}

func TestDispatchGarbageNeverPanics(t *testing.T) {
	ctl := newTestController()
	ctx := context.Background()

	for _, raw := range []string{
		"not json",
		"{}",
		`{"type":"joinRoom","data":"not an object"}`,
		`{"type":"offer","data":{}}`,
		`{"type":"made-up-event","data":{}}`,
		`{"type":"sendMessage","data":{"text":"no room"}}`,
	} {
		assert.NotPanics(t, func() {
			ctl.dispatch(ctx, "c1", []byte(raw))
		}, "input: %s", raw)
	}
}

func TestDispatchRoutesJoinAndSignal(t *testing.T) {
	ctl := newTestController()
	ctx := context.Background()

	a := &fakeConn{}
	b := &fakeConn{}
	ctl.Coord.Connect("a", a)
	ctl.Coord.Connect("b", b)

	ctl.dispatch(ctx, "a", []byte(`{"type":"joinRoom","data":{"room":"r1","user":{"id":"u1","name":"Ann"}}}`))
	assert.Contains(t, a.types(t), core.EvParticipantsList)

	ctl.dispatch(ctx, "b", []byte(`{"type":"offer","data":{"payload":{"sdp":"v=0"},"to":"a"}}`))
	assert.Contains(t, a.types(t), core.EvOffer)
	assert.NotContains(t, b.types(t), core.EvOffer)
}

func TestDispatchLeaveDefaultsToStoredRoom(t *testing.T) {
	ctl := newTestController()
	ctx := context.Background()

	a := &fakeConn{}
	b := &fakeConn{}
	ctl.Coord.Connect("a", a)
	ctl.Coord.Connect("b", b)
	ctl.dispatch(ctx, "a", []byte(`{"type":"joinRoom","data":{"room":"r1","user":{"id":"u1","name":"Ann"}}}`))
	ctl.dispatch(ctx, "b", []byte(`{"type":"joinRoom","data":{"room":"r1","user":{"id":"u2","name":"Bob"}}}`))

	ctl.dispatch(ctx, "a", []byte(`{"type":"leaveRoom"}`))

	assert.Contains(t, b.types(t), core.EvUserLeft)
	assert.Len(t, ctl.Coord.Rooms.AllMembers("r1"), 1)
}

func TestDispatchCollapsesUnknownEventTypes(t *testing.T) {
	ctl := newTestController()
	ctx := context.Background()

	before := testutil.ToFloat64(metrics.EventsTotal.WithLabelValues("unknown"))
	ctl.dispatch(ctx, "c1", []byte(`{"type":"junk-aaaa"}`))
	ctl.dispatch(ctx, "c1", []byte(`{"type":"junk-bbbb"}`))
	after := testutil.ToFloat64(metrics.EventsTotal.WithLabelValues("unknown"))

	// unique junk types share one series instead of minting their own
	assert.Equal(t, float64(2), after-before)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("c1"))
	}
	assert.False(t, rl.Allow("c1"))
	// other connections have their own window
	assert.True(t, rl.Allow("c2"))

	rl.Forget("c1")
	assert.True(t, rl.Allow("c1"))
}
