package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/middleware"
	"github.com/tableside/concierge/internal/model/account"
	accountService "github.com/tableside/concierge/internal/service/account"
	"github.com/tableside/concierge/pkg/utils"
)

// Accounts is the account service as seen by the handler.
type Accounts interface {
	Register(ctx context.Context, creds account.Credentials) (account.TokenResponse, error)
	Login(ctx context.Context, creds account.Credentials) (account.TokenResponse, error)
	middleware.Authenticator
}

// Handler 账户相关的HTTP处理器
type Handler struct {
	accounts Accounts
	logger   *zap.Logger
}

// New 创建账户处理器
func New(accounts Accounts, logger *zap.Logger) *Handler {
	return &Handler{accounts: accounts, logger: logging.OrNop(logger).Named("auth")}
}

// RegisterRoutes 注册 /auth 路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireBearer(h.accounts)).Get("/user", h.handleUser)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds account.Credentials
	if err := utils.DecodeJSON(r, &creds); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.accounts.Register(r.Context(), creds)
	switch {
	case errors.Is(err, accountService.ErrInvalidInput):
		utils.RespondError(w, http.StatusBadRequest, "Email and password are required")
	case errors.Is(err, accountService.ErrEmailTaken):
		utils.RespondError(w, http.StatusConflict, "Email already registered")
	case err != nil:
		h.logger.Error("register failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Registration failed")
	default:
		utils.RespondJSON(w, http.StatusCreated, resp)
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds account.Credentials
	if err := utils.DecodeJSON(r, &creds); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.accounts.Login(r.Context(), creds)
	switch {
	case errors.Is(err, accountService.ErrInvalidInput):
		utils.RespondError(w, http.StatusBadRequest, "Email and password are required")
	case err != nil:
		utils.RespondError(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		utils.RespondJSON(w, http.StatusOK, resp)
	}
}

func (h *Handler) handleUser(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFrom(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}
	utils.RespondJSON(w, http.StatusOK, acct)
}
