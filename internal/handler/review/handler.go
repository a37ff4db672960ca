package review

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tableside/concierge/internal/middleware"
	"github.com/tableside/concierge/internal/model/review"
	reviewService "github.com/tableside/concierge/internal/service/review"
	"github.com/tableside/concierge/pkg/utils"
)

// Submitter stores reviews.
type Submitter interface {
	Submit(ctx context.Context, restaurantID, accountID string, draft review.Draft) (review.Review, error)
}

// Handler 评论的HTTP处理器
type Handler struct {
	reviews Submitter
}

// New 创建评论处理器
func New(reviews Submitter) *Handler {
	return &Handler{reviews: reviews}
}

// RegisterRoutes 注册评论路由
func (h *Handler) RegisterRoutes(r chi.Router, auth middleware.Authenticator) {
	r.With(middleware.RequireBearer(auth)).Post("/post-review/{restaurantID}", h.handlePostReview)
}

func (h *Handler) handlePostReview(w http.ResponseWriter, r *http.Request) {
	acct, _ := middleware.AccountFrom(r.Context())

	var draft review.Draft
	if err := utils.DecodeJSON(r, &draft); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := h.reviews.Submit(r.Context(), chi.URLParam(r, "restaurantID"), acct.ID, draft)
	switch {
	case errors.Is(err, reviewService.ErrRestaurantNotFound):
		utils.RespondError(w, http.StatusNotFound, "Restaurant not found")
	case errors.Is(err, reviewService.ErrEmptyReview):
		utils.RespondError(w, http.StatusBadRequest, "Review message is required")
	case errors.Is(err, reviewService.ErrInvalidSentiment):
		utils.RespondError(w, http.StatusBadRequest, "Sentiment must be positive, neutral or negative")
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "Failed to store review")
	default:
		utils.RespondJSON(w, http.StatusAccepted, review.Receipt{
			Status:    "received",
			ID:        stored.ID,
			Sentiment: stored.Sentiment,
		})
	}
}
