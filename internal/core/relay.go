package core

import (
	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/domain"
	"github.com/linkup/linkup-server/internal/metrics"
)

// Relay fans events out to live connections. Every delivery is
// fire-and-forget: a failed or impossible send is logged and dropped,
// never retried and never surfaced to the sender. Ordering holds per
// sender connection only.
type Relay struct {
	reg   *Registry
	rooms *RoomTable
}

func NewRelay(reg *Registry, rooms *RoomTable) *Relay {
	return &Relay{reg: reg, rooms: rooms}
}

// BroadcastExcept delivers to every recipient of room except sender.
// Used for presence and typing events, where the sender already knows.
func (r *Relay) BroadcastExcept(room domain.RoomID, sender ConnID, event string, data any) {
	r.deliver(r.rooms.RecipientsExcluding(room, sender), event, data)
}

// BroadcastAll delivers to every recipient of room, sender included,
// so the sender's own UI sees the durable form of its message.
func (r *Relay) BroadcastAll(room domain.RoomID, event string, data any) {
	r.deliver(r.rooms.Recipients(room), event, data)
}

// Unicast delivers to one connection if it still resolves in the
// registry; otherwise the event is dropped. Reports delivery for
// callers that care, but nothing escalates a miss.
func (r *Relay) Unicast(target ConnID, event string, data any) bool {
	conn, ok := r.reg.Lookup(target)
	if !ok {
		metrics.RelayDropped.Inc()
		log.Warn().Str("module", "core.relay").Str("event", event).Str("target", string(target)).Msg("unicast target gone, dropped")
		return false
	}
	frame, err := Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "core.relay").Str("event", event).Msg("encode failed")
		return false
	}
	if err := conn.Signal.TrySend(frame); err != nil {
		metrics.RelayDropped.Inc()
		log.Warn().Err(err).Str("module", "core.relay").Str("event", event).Str("target", string(target)).Msg("unicast send failed, dropped")
		return false
	}
	return true
}

func (r *Relay) deliver(targets []ConnID, event string, data any) {
	if len(targets) == 0 {
		return
	}
	frame, err := Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "core.relay").Str("event", event).Msg("encode failed")
		return
	}
	sent := 0
	for _, id := range targets {
		conn, ok := r.reg.Lookup(id)
		if !ok {
			metrics.RelayDropped.Inc()
			continue
		}
		if err := conn.Signal.TrySend(frame); err != nil {
			metrics.RelayDropped.Inc()
			continue
		}
		sent++
	}
	log.Debug().Str("module", "core.relay").Str("event", event).Int("sent", sent).Int("targets", len(targets)).Msg("broadcast result")
}
