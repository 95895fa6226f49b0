// Package registry implements the authoritative in-memory store of group
// membership and presence. Every mutation goes through its methods and every
// mutation declares explicitly which broadcasts it triggers.
package registry

import (
	"log/slog"
	"sync"
	"time"

	"location-presence-service/internal/domain"
	"location-presence-service/internal/metrics"
)

// Source identifies which ingress channel produced a location update. The
// two sources share the update path but differ in registration policy:
// streaming updates are scoped to an existing join, stateless updates
// auto-register unknown users and groups.
type Source int

const (
	SourceStreaming Source = iota
	SourceStateless
)

// group owns the members of one named group. order keeps insertion order of
// first join so broadcast output is reproducible.
type group struct {
	members map[string]*domain.Member
	order   []string
}

// Registry is the single source of truth for group presence. One mutex
// serializes all read-modify-write sequences; fan-out under the lock only
// enqueues frames onto per-connection buffers and never blocks on I/O.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]*group
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{groups: make(map[string]*group)}
}

// Join creates the group if absent and creates or re-attaches the member.
// A rejoin preserves position, motion and sharing from the prior record and
// refreshes only the channel, connected and lastSeen fields. Triggers a
// group-members broadcast.
func (r *Registry) Join(groupName, userID string, ch domain.Channel) *domain.Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.ensureGroup(groupName)
	m := g.members[userID]
	if m == nil {
		m = &domain.Member{UserID: userID, Sharing: true}
		g.members[userID] = m
		g.order = append(g.order, userID)
	}
	m.Channel = ch
	m.Connected = true
	m.LastSeen = time.Now()

	slog.Info("member joined", "group", groupName, "user", userID, "channel", ch.ID())
	r.broadcastMembers(g)
	return m
}

// UpdateLocation records a new position for the member. For the streaming
// source the group and member must already exist; the caller drops the event
// silently on ErrGroupNotFound/ErrMemberNotFound. For the stateless source
// unknown users and groups are auto-registered, and an accepted update flips
// connected back to true so a member whose streaming channel died keeps its
// marker live through background pushes alone.
//
// Broadcasts: location-update to the other members when the member is
// sharing; additionally the full group-members roster when the source is
// stateless, because that path has no channel of its own to reach observers.
func (r *Registry) UpdateLocation(groupName, userID string, lat, lng float64, speed, heading *float64, src Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.groups[groupName]
	if g == nil {
		if src == SourceStreaming {
			return ErrGroupNotFound
		}
		g = r.ensureGroup(groupName)
	}
	m := g.members[userID]
	if m == nil {
		if src == SourceStreaming {
			return ErrMemberNotFound
		}
		// Auto-registration: a background process may push before any
		// streaming join has happened.
		m = &domain.Member{UserID: userID, Sharing: true}
		g.members[userID] = m
		g.order = append(g.order, userID)
		slog.Info("member auto-registered", "group", groupName, "user", userID)
	}

	m.Lat, m.Lng = &lat, &lng
	m.Speed, m.Heading = speed, heading
	m.Connected = true
	m.LastSeen = time.Now()

	if m.Sharing {
		r.emitToOthers(g, userID, EventLocationUpdate, LocationUpdatePayload{
			UserID:  userID,
			Lat:     lat,
			Lng:     lng,
			Sharing: true,
			Speed:   speed,
			Heading: heading,
		})
	}
	if src == SourceStateless {
		r.broadcastMembers(g)
	}
	return nil
}

// SetSharing updates the sharing flag. A missing group or member is a silent
// no-op. Turning sharing off emits member-hidden to the other members; the
// full roster is rebroadcast either way.
func (r *Registry) SetSharing(groupName, userID string, sharing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.groups[groupName]
	if g == nil {
		return
	}
	m := g.members[userID]
	if m == nil {
		return
	}
	m.Sharing = sharing
	m.LastSeen = time.Now()

	slog.Info("sharing toggled", "group", groupName, "user", userID, "sharing", sharing)
	if !sharing {
		r.emitToOthers(g, userID, EventMemberHidden, MemberRef{UserID: userID})
	}
	r.broadcastMembers(g)
}

// MarkDisconnected records the loss of a streaming channel without removing
// the member. It is a no-op unless ch still owns the member, which makes
// teardown idempotent and keeps a superseded connection from knocking a
// reconnected member offline. Triggers a group-members broadcast.
func (r *Registry) MarkDisconnected(groupName, userID string, ch domain.Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.groups[groupName]
	if g == nil {
		return
	}
	m := g.members[userID]
	if m == nil || m.Channel == nil || m.Channel.ID() != ch.ID() {
		return
	}
	m.Channel = nil
	m.Connected = false
	m.LastSeen = time.Now()

	slog.Info("member disconnected", "group", groupName, "user", userID)
	r.broadcastMembers(g)
}

// Leave removes the member. An emptied group is deleted; otherwise the
// remaining members get member-left followed by the updated roster. This is
// the only operation that deletes a member record.
func (r *Registry) Leave(groupName, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.groups[groupName]
	if g == nil || g.members[userID] == nil {
		return
	}
	delete(g.members, userID)
	for i, id := range g.order {
		if id == userID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	slog.Info("member left", "group", groupName, "user", userID)

	if len(g.members) == 0 {
		delete(r.groups, groupName)
		metrics.GroupsLive.Dec()
		slog.Info("group removed", "group", groupName)
		return
	}
	r.emitToOthers(g, userID, EventMemberLeft, MemberRef{UserID: userID})
	r.broadcastMembers(g)
}

// GroupStatus is the read-only per-group view served by the status endpoint.
type GroupStatus struct {
	MemberCount int      `json:"memberCount"`
	Members     []string `json:"members"`
}

// Snapshot returns member counts and userIds per group, members in insertion
// order. No side effects.
func (r *Registry) Snapshot() map[string]GroupStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]GroupStatus, len(r.groups))
	for name, g := range r.groups {
		members := make([]string, len(g.order))
		copy(members, g.order)
		out[name] = GroupStatus{MemberCount: len(g.members), Members: members}
	}
	return out
}

// Member returns a copy of a member record, if present.
func (r *Registry) Member(groupName, userID string) (domain.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g := r.groups[groupName]
	if g == nil {
		return domain.Member{}, false
	}
	m := g.members[userID]
	if m == nil {
		return domain.Member{}, false
	}
	return *m, true
}

// ensureGroup must be called with the lock held.
func (r *Registry) ensureGroup(name string) *group {
	g := r.groups[name]
	if g == nil {
		g = &group{members: make(map[string]*domain.Member)}
		r.groups[name] = g
		metrics.GroupsLive.Inc()
		slog.Info("group created", "group", name)
	}
	return g
}
