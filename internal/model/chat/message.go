package chat

import "time"

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one turn of a concierge conversation.
type Message struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"-"`
	RestaurantID string    `json:"restaurantId,omitempty"`
	Sender       Sender    `json:"sender"`
	Text         string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromUser reports whether the message was written by the patron.
func (m Message) FromUser() bool { return m.Sender == SenderUser }
