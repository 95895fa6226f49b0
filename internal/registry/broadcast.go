package registry

import (
	"log/slog"

	"location-presence-service/internal/domain"
	"location-presence-service/internal/metrics"
)

// Outbound event names pushed to streaming channels.
const (
	EventGroupMembers   = "group-members"
	EventLocationUpdate = "location-update"
	EventMemberHidden   = "member-hidden"
	EventMemberLeft     = "member-left"
)

// GroupMembersPayload carries the full projected roster of a group.
type GroupMembersPayload struct {
	Members []domain.MemberView `json:"members"`
}

// LocationUpdatePayload is the point update sent to the other members when a
// sharing member moves.
type LocationUpdatePayload struct {
	UserID  string   `json:"userId"`
	Lat     float64  `json:"lat"`
	Lng     float64  `json:"lng"`
	Sharing bool     `json:"sharing"`
	Speed   *float64 `json:"speed"`
	Heading *float64 `json:"heading"`
}

// MemberRef names a single member in member-hidden and member-left events.
type MemberRef struct {
	UserID string `json:"userId"`
}

// broadcastMembers delivers the projected roster to every streaming-attached
// member of the group, the originator included. Delivery is fire-and-forget:
// a failed or dropped frame for one recipient never blocks the others. Must
// be called with the lock held.
func (r *Registry) broadcastMembers(g *group) {
	views := make([]domain.MemberView, 0, len(g.order))
	for _, id := range g.order {
		views = append(views, g.members[id].View())
	}
	payload := GroupMembersPayload{Members: views}
	for _, id := range g.order {
		m := g.members[id]
		if m.Channel == nil {
			continue
		}
		if err := m.Channel.Send(EventGroupMembers, payload); err != nil {
			slog.Warn("frame dropped", "event", EventGroupMembers, "user", id, "error", err)
		}
	}
	metrics.BroadcastsTotal.WithLabelValues(EventGroupMembers).Inc()
}

// emitToOthers sends an event to every streaming-attached member except the
// originator. Must be called with the lock held.
func (r *Registry) emitToOthers(g *group, exceptUserID, event string, data any) {
	for _, id := range g.order {
		if id == exceptUserID {
			continue
		}
		m := g.members[id]
		if m.Channel == nil {
			continue
		}
		if err := m.Channel.Send(event, data); err != nil {
			slog.Warn("frame dropped", "event", event, "user", id, "error", err)
		}
	}
	metrics.BroadcastsTotal.WithLabelValues(event).Inc()
}
