package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/apperror"
	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/model/review"
)

// ErrReviewNotOpen rejects edits and submits while the modal is closed or busy.
var ErrReviewNotOpen = errors.New("review modal is not open")

// ReviewState of the review modal.
type ReviewState int

const (
	// ReviewClosed is the hidden modal; no draft exists.
	ReviewClosed ReviewState = iota
	// ReviewOpen accepts draft edits.
	ReviewOpen
	// ReviewSubmitting waits on the backend.
	ReviewSubmitting
)

func (s ReviewState) String() string {
	switch s {
	case ReviewClosed:
		return "closed"
	case ReviewOpen:
		return "open"
	case ReviewSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// ReviewPoster posts a finished draft.
type ReviewPoster interface {
	PostReview(ctx context.Context, restaurantID string, draft review.Draft) (review.Receipt, error)
}

// ReviewResult tells the modal what to show. Closed is true only after a
// successful post. Sentiment is the backend's label when it returned one.
type ReviewResult struct {
	Closed    bool
	Sentiment review.Sentiment
	Alert     *apperror.Alert
}

// ReviewFlow is the review modal for one restaurant.
type ReviewFlow struct {
	mu           sync.Mutex
	restaurantID string
	poster       ReviewPoster
	logger       *zap.Logger
	state        ReviewState
	draft        review.Draft
}

// NewReviewFlow returns a closed modal for restaurantID.
func NewReviewFlow(restaurantID string, poster ReviewPoster, logger *zap.Logger) *ReviewFlow {
	return &ReviewFlow{
		restaurantID: restaurantID,
		poster:       poster,
		logger:       logging.OrNop(logger).Named("review"),
	}
}

// Review returns the review modal for the conversation's restaurant.
func (c *Conversation) Review(poster ReviewPoster) *ReviewFlow {
	return NewReviewFlow(c.sess.RestaurantID, poster, c.logger)
}

// State returns the modal state.
func (f *ReviewFlow) State() ReviewState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns the current draft.
func (f *ReviewFlow) Draft() review.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Open shows the modal with an empty draft. Opening an open modal keeps its draft.
func (f *ReviewFlow) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == ReviewClosed {
		f.state = ReviewOpen
		f.draft = review.Draft{}
	}
}

// SetDraft edits the draft while the modal is open.
func (f *ReviewFlow) SetDraft(draft review.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != ReviewOpen {
		return ErrReviewNotOpen
	}
	f.draft = draft
	return nil
}

// Cancel closes the modal and discards the draft. It is ignored mid-submit.
func (f *ReviewFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == ReviewOpen {
		f.state = ReviewClosed
		f.draft = review.Draft{}
	}
}

// Submit validates and posts the draft. Validation failures never reach the
// backend; post failures keep the modal open with the draft intact.
func (f *ReviewFlow) Submit(ctx context.Context) (ReviewResult, error) {
	f.mu.Lock()
	if f.state != ReviewOpen {
		f.mu.Unlock()
		return ReviewResult{}, ErrReviewNotOpen
	}

	draft := f.draft
	draft.Body = strings.TrimSpace(draft.Body)
	parsed, err := f.validate(draft)
	if err != nil {
		f.mu.Unlock()
		alert := apperror.AlertFor(err, "Error", "")
		return ReviewResult{Alert: &alert}, err
	}
	// 未选择情感时留空，由后端分类器判断
	draft.Sentiment = parsed
	f.state = ReviewSubmitting
	f.mu.Unlock()

	receipt, err := f.poster.PostReview(ctx, f.restaurantID, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = ReviewOpen
		f.logger.Warn("review post failed", zap.String("restaurant_id", f.restaurantID), zap.Error(err))
		alert := apperror.AlertFor(err, "Error", "Failed to submit review.")
		return ReviewResult{Sentiment: draft.Sentiment, Alert: &alert}, err
	}

	label := draft.Sentiment
	if receipt.Sentiment != "" {
		label = receipt.Sentiment
	}
	f.state = ReviewClosed
	f.draft = review.Draft{}
	f.logger.Info("review posted",
		zap.String("restaurant_id", f.restaurantID),
		zap.String("sentiment", string(label)))
	return ReviewResult{Closed: true, Sentiment: label}, nil
}

func (f *ReviewFlow) validate(draft review.Draft) (review.Sentiment, error) {
	if f.restaurantID == "" {
		return "", apperror.Invalid("restaurantId", "No restaurant selected.")
	}
	if draft.Body == "" {
		return "", apperror.Invalid("message", "Please write a review before submitting.")
	}
	parsed, err := review.ParseSentiment(string(draft.Sentiment))
	if err != nil {
		return "", apperror.Invalid("sentiment", "Please choose positive, neutral or negative.")
	}
	return parsed, nil
}
