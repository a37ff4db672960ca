package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tableside/concierge/internal/model/restaurant"
	"github.com/tableside/concierge/internal/model/review"
	"github.com/tableside/concierge/internal/service/sentiment"
)

func newService(t *testing.T) *Service {
	t.Helper()
	classifier, err := sentiment.NewService(context.Background(), nil, sentiment.Config{}, nil)
	require.NoError(t, err)
	return NewService(restaurant.NewMemoryStore(restaurant.Seed()), classifier, nil)
}

func TestSubmitInfersSentiment(t *testing.T) {
	svc := newService(t)

	stored, err := svc.Submit(context.Background(), "42", "acct", review.Draft{Body: " Terrible, the pasta was cold "})
	require.NoError(t, err)
	assert.Equal(t, review.Negative, stored.Sentiment)
	assert.Equal(t, "Terrible, the pasta was cold", stored.Body)
	assert.NotEmpty(t, stored.ID)

	stored, err = svc.Submit(context.Background(), "42", "acct", review.Draft{Sentiment: review.Positive, Body: "fine"})
	require.NoError(t, err)
	assert.Equal(t, review.Positive, stored.Sentiment)

	assert.Len(t, svc.List(context.Background(), "42"), 2)
	assert.Empty(t, svc.List(context.Background(), "77"))
}

func TestSubmitValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "999", "acct", review.Draft{Body: "x"})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
	_, err = svc.Submit(ctx, "42", "acct", review.Draft{Body: "  "})
	assert.ErrorIs(t, err, ErrEmptyReview)
	_, err = svc.Submit(ctx, "42", "acct", review.Draft{Sentiment: "meh", Body: "x"})
	assert.ErrorIs(t, err, ErrInvalidSentiment)
}
