package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	authHandler "github.com/tableside/concierge/internal/handler/auth"
	chatHandler "github.com/tableside/concierge/internal/handler/chat"
	"github.com/tableside/concierge/internal/handler/profile"
	reviewHandler "github.com/tableside/concierge/internal/handler/review"
	"github.com/tableside/concierge/internal/logging"
	middlewarePkg "github.com/tableside/concierge/internal/middleware"
	"github.com/tableside/concierge/internal/model/restaurant"
	accountService "github.com/tableside/concierge/internal/service/account"
	chatService "github.com/tableside/concierge/internal/service/chat"
	reviewService "github.com/tableside/concierge/internal/service/review"
	"github.com/tableside/concierge/pkg/utils"
)

// Deps are the services the router exposes.
type Deps struct {
	Restaurants restaurant.Store
	Accounts    *accountService.Service
	Chat        *chatService.Service
	Replier     chatHandler.Replier
	Reviews     *reviewService.Service
	Metrics     *middlewarePkg.Metrics
	Logger      *zap.Logger
}

// NewRouter wires HTTP routes to core services under /api/v1.
func NewRouter(deps Deps) http.Handler {
	logger := logging.OrNop(deps.Logger)
	metrics := deps.Metrics
	if metrics == nil {
		metrics = middlewarePkg.NewMetrics()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		authHandler.New(deps.Accounts, logger).RegisterRoutes(api)
		profile.New(deps.Restaurants).RegisterRoutes(api)
		chatHandler.New(deps.Chat, deps.Replier, deps.Restaurants, logger).RegisterRoutes(api, deps.Accounts)
		reviewHandler.New(deps.Reviews).RegisterRoutes(api, deps.Accounts)
	})

	return r
}
