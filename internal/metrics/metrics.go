// Package metrics exposes prometheus instrumentation for the presence core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectionsActive counts currently open streaming connections.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "presence_ws_connections_active",
		Help: "Currently open streaming connections.",
	})

	// GroupsLive counts groups with at least one member.
	GroupsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "presence_groups_live",
		Help: "Groups with at least one member.",
	})

	// EventsInTotal counts inbound streaming events by event name.
	EventsInTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presence_ws_events_in_total",
		Help: "Inbound streaming events by event name.",
	}, []string{"event"})

	// StatelessUpdatesTotal counts accepted updates on the stateless ingress.
	StatelessUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presence_stateless_updates_total",
		Help: "Accepted location updates on the stateless ingress.",
	})

	// BroadcastsTotal counts fan-out broadcasts by outbound event name.
	BroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presence_broadcasts_total",
		Help: "Fan-out broadcasts by outbound event name.",
	}, []string{"event"})

	// FramesDroppedTotal counts outbound frames dropped on full send queues.
	FramesDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presence_ws_frames_dropped_total",
		Help: "Outbound frames dropped because a send queue was full.",
	})
)
