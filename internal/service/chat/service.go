// Package chat keeps the development backend's per-account transcripts.
package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tableside/concierge/internal/model/chat"
)

var (
	ErrAccountRequired = errors.New("account id is required")
	ErrEmptyMessage    = errors.New("message text is required")
)

// Service encapsulates transcript storage.
type Service struct {
	mu       sync.RWMutex
	messages map[string][]chat.Message
}

// NewService bootstraps the in-memory transcript store.
func NewService() *Service {
	return &Service{messages: make(map[string][]chat.Message)}
}

// SaveMessage appends message to its account's transcript and returns the
// stored copy with ID and CreatedAt filled in.
func (s *Service) SaveMessage(_ context.Context, message chat.Message) (chat.Message, error) {
	if message.AccountID == "" {
		return chat.Message{}, ErrAccountRequired
	}
	if message.Text == "" {
		return chat.Message{}, ErrEmptyMessage
	}

	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.messages[message.AccountID] = append(s.messages[message.AccountID], message)
	s.mu.Unlock()
	return message, nil
}

// LoadTranscript returns the account's messages, oldest first. When
// restaurantID is non-empty only that restaurant's messages are returned.
func (s *Service) LoadTranscript(_ context.Context, accountID, restaurantID string) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.messages[accountID]
	copied := make([]chat.Message, 0, len(messages))
	for _, m := range messages {
		if restaurantID == "" || m.RestaurantID == restaurantID {
			copied = append(copied, m)
		}
	}
	return copied
}
