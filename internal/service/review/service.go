// Package review stores submitted reviews for the development backend.
package review

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/model/restaurant"
	"github.com/tableside/concierge/internal/model/review"
	"github.com/tableside/concierge/internal/service/sentiment"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrEmptyReview        = errors.New("review message is required")
	ErrInvalidSentiment   = errors.New("sentiment must be positive, neutral or negative")
)

// Classifier infers a sentiment for drafts submitted without one.
type Classifier interface {
	Classify(ctx context.Context, restaurantName, body string) sentiment.Verdict
}

// Service keeps reviews per restaurant in memory.
type Service struct {
	mu          sync.RWMutex
	reviews     map[string][]review.Review
	restaurants restaurant.Store
	classifier  Classifier
	logger      *zap.Logger
}

// NewService wires the store to the restaurant catalogue and classifier.
func NewService(restaurants restaurant.Store, classifier Classifier, logger *zap.Logger) *Service {
	return &Service{
		reviews:     make(map[string][]review.Review),
		restaurants: restaurants,
		classifier:  classifier,
		logger:      logging.OrNop(logger).Named("review"),
	}
}

// Submit validates and stores draft for restaurantID on behalf of accountID.
func (s *Service) Submit(ctx context.Context, restaurantID, accountID string, draft review.Draft) (review.Review, error) {
	r, ok := s.restaurants.FindByID(restaurantID)
	if !ok {
		return review.Review{}, ErrRestaurantNotFound
	}
	body := strings.TrimSpace(draft.Body)
	if body == "" {
		return review.Review{}, ErrEmptyReview
	}
	label, err := review.ParseSentiment(string(draft.Sentiment))
	if err != nil {
		return review.Review{}, ErrInvalidSentiment
	}
	if label == "" && s.classifier != nil {
		verdict := s.classifier.Classify(ctx, r.Name, body)
		label = verdict.Sentiment
		s.logger.Debug("inferred sentiment",
			zap.String("sentiment", string(label)),
			zap.Float32("confidence", verdict.Confidence),
			zap.String("reason", verdict.Reason))
	}
	if label == "" {
		label = review.Neutral
	}

	stored := review.Review{
		ID:           uuid.NewString(),
		RestaurantID: r.ID,
		AccountID:    accountID,
		Sentiment:    label,
		Body:         body,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	s.reviews[r.ID] = append(s.reviews[r.ID], stored)
	s.mu.Unlock()
	return stored, nil
}

// List returns the reviews of restaurantID, oldest first.
func (s *Service) List(_ context.Context, restaurantID string) []review.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]review.Review(nil), s.reviews[restaurantID]...)
}
