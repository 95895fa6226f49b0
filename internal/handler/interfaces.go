package handler

import "location-presence-service/internal/registry"

// PresenceRegistry is the slice of the registry the HTTP handlers depend on.
type PresenceRegistry interface {
	UpdateLocation(groupName, userID string, lat, lng float64, speed, heading *float64, src registry.Source) error
	Snapshot() map[string]registry.GroupStatus
}
