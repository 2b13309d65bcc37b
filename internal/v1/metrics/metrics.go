// Package metrics declares the process-wide Prometheus collectors for the
// broadcast hub. Kept free of hub-internal types so it can be imported from
// both internal/v1/hub and internal/v1/api without a cycle.
//
// Naming convention: namespace_subsystem_name
// - namespace: broadcast_hub (application-level grouping)
// - subsystem: session, room, relay, rendezvous (feature-level grouping)
// - name: specific metric
//
// Metric Types:
// - Gauge: Current state (sessions, rooms, viewers)
// - Counter: Cumulative events (envelopes processed, relay drops)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveSessions tracks the current number of live WebSocket sessions,
	// joined or not (Gauge - current state).
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "broadcast_hub",
		Subsystem: "session",
		Name:      "active",
		Help:      "Current number of active WebSocket sessions",
	})

	// ActiveRooms tracks the current number of non-empty rooms (Gauge).
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "broadcast_hub",
		Subsystem: "room",
		Name:      "active",
		Help:      "Current number of active rooms",
	})

	// RoomViewers tracks the number of viewers in each room (GaugeVec with
	// room_id label - current state per room).
	RoomViewers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "broadcast_hub",
		Subsystem: "room",
		Name:      "viewers",
		Help:      "Number of viewers currently in each room",
	}, []string{"room_id"})

	// EnvelopesTotal counts inbound envelopes processed by the dispatcher
	// (CounterVec - cumulative).
	EnvelopesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "broadcast_hub",
		Subsystem: "session",
		Name:      "envelopes_total",
		Help:      "Total envelopes processed, by type and outcome",
	}, []string{"type", "outcome"})

	// RelayDropsTotal counts signaling envelopes dropped because their
	// receiver was not resolvable to a live session.
	RelayDropsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "broadcast_hub",
		Subsystem: "relay",
		Name:      "drops_total",
		Help:      "Total signaling envelopes dropped for stale or unknown addressing",
	}, []string{"type"})

	// RendezvousEventsTotal counts accepted STREAM_READY and VIEWER_READY
	// handshake events; emitted BROADCASTER_READY envelopes are not counted.
	RendezvousEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "broadcast_hub",
		Subsystem: "rendezvous",
		Name:      "events_total",
		Help:      "Total rendezvous handshake events, by event",
	}, []string{"event"})

	// ChatMessagesTotal counts chat messages accepted into a room's log.
	ChatMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "broadcast_hub",
		Subsystem: "room",
		Name:      "chat_messages_total",
		Help:      "Total chat messages appended, by kind",
	}, []string{"kind"})
)
