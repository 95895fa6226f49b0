// Package domain holds the presence data model shared by both ingress paths
// and the broadcast fan-out.
package domain

import "time"

// Channel is an opaque handle to a member's streaming connection. Send must
// never block: delivery is best-effort and a slow consumer loses only its
// own frames.
type Channel interface {
	ID() string
	Send(event string, data any) error
}

// Member is a user's presence record inside a single group. Position and
// motion are pointers because they are absent until the first update.
type Member struct {
	UserID  string
	Lat     *float64
	Lng     *float64
	Speed   *float64
	Heading *float64

	Sharing   bool
	Connected bool
	LastSeen  time.Time

	// Channel is nil whenever no streaming connection is attached. A member
	// with a nil Channel can still be Connected: stateless updates keep the
	// marker live after the streaming side went away.
	Channel Channel
}

// MemberView is the wire projection of a Member carried in group-members
// broadcasts. LastSeen is Unix milliseconds.
type MemberView struct {
	UserID    string   `json:"userId"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Speed     *float64 `json:"speed"`
	Heading   *float64 `json:"heading"`
	Sharing   bool     `json:"sharing"`
	Connected bool     `json:"connected"`
	LastSeen  int64    `json:"lastSeen"`
}

// View projects the member for broadcast. Position and motion are blanked
// when the member is not sharing, so observers can tell "hidden" from
// "offline" without seeing stale coordinates.
func (m *Member) View() MemberView {
	v := MemberView{
		UserID:    m.UserID,
		Sharing:   m.Sharing,
		Connected: m.Connected,
		LastSeen:  m.LastSeen.UnixMilli(),
	}
	if m.Sharing {
		v.Lat, v.Lng = m.Lat, m.Lng
		v.Speed, v.Heading = m.Speed, m.Heading
	}
	return v
}
