// Package metrics exposes the server's prometheus instruments.
// Scraped via /metrics on the main router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linkup_connections_active",
		Help: "Live websocket connections.",
	})

	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linkup_rooms_active",
		Help: "Rooms with at least one live member.",
	})

	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_events_total",
		Help: "Inbound events by type; unrecognized types count as unknown.",
	}, []string{"event"})

	RelayDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkup_relay_dropped_total",
		Help: "Deliveries dropped because the target was gone or slow.",
	})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkup_persist_failures_total",
		Help: "Chat messages relayed without a durable id.",
	})
)
