package ws

import "encoding/json"

// Inbound event names accepted on a streaming connection.
const (
	eventJoinGroup      = "join-group"
	eventUpdateLocation = "update-location"
	eventToggleSharing  = "toggle-sharing"
	eventLeaveGroup     = "leave-group"
)

// envelope frames every inbound message as {"event": ..., "data": {...}}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinGroupData struct {
	UserID    string `json:"userId"`
	GroupName string `json:"groupName"`
}

// updateLocationData binds lat/lng as pointers: a missing coordinate drops
// the event, a zero coordinate is valid.
type updateLocationData struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Speed   *float64 `json:"speed"`
	Heading *float64 `json:"heading"`
}

type toggleSharingData struct {
	Sharing bool `json:"sharing"`
}
