package session

import "github.com/tableside/concierge/internal/model/restaurant"

// Session scopes one scan-to-chat interaction. Empty identifiers are absent.
// Only the token outlives the chat screen; it is owned by the auth service.
type Session struct {
	Token        string              `json:"-"`
	RestaurantID string              `json:"restaurantId"`
	TableID      string              `json:"tableId,omitempty"`
	AgentID      string              `json:"aiAgentId,omitempty"`
	Profile      *restaurant.Profile `json:"profile,omitempty"`
}

// Authenticated reports whether a bearer token is attached.
func (s Session) Authenticated() bool { return s.Token != "" }

// RestaurantName returns the profile name, falling back to the identifier.
func (s Session) RestaurantName() string {
	if s.Profile != nil && s.Profile.Name != "" {
		return s.Profile.Name
	}
	return s.RestaurantID
}
