package review

import (
	"fmt"
	"strings"
	"time"
)

// Sentiment is the patron's overall judgement.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

// ParseSentiment accepts the three labels case-insensitively. An empty string
// parses to the zero value so callers can infer it later.
func ParseSentiment(raw string) (Sentiment, error) {
	switch s := Sentiment(strings.ToLower(strings.TrimSpace(raw))); s {
	case "", Positive, Neutral, Negative:
		return s, nil
	default:
		return "", fmt.Errorf("unknown sentiment %q", raw)
	}
}

// Draft exists only while the review modal is open.
type Draft struct {
	Sentiment Sentiment `json:"sentiment,omitempty"`
	Body      string    `json:"message"`
}

// Review is a submitted review as stored by the backend.
type Review struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	AccountID    string    `json:"-"`
	Sentiment    Sentiment `json:"sentiment"`
	Body         string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Receipt acknowledges a posted review. Sentiment is the label the backend
// stored, which it infers when the draft left it empty.
type Receipt struct {
	Status    string    `json:"status"`
	ID        string    `json:"id,omitempty"`
	Sentiment Sentiment `json:"sentiment,omitempty"`
}
