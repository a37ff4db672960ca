package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/middleware"
	"github.com/tableside/concierge/internal/model/chat"
	"github.com/tableside/concierge/internal/model/restaurant"
	"github.com/tableside/concierge/internal/service/capability"
	chatService "github.com/tableside/concierge/internal/service/chat"
	"github.com/tableside/concierge/pkg/utils"
)

// Replier produces the concierge answer for one patron message.
type Replier interface {
	Reply(ctx context.Context, r *restaurant.Restaurant, tableID string, history []chat.Message, userMessage string) (string, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc     *chatService.Service
	replier     Replier
	restaurants restaurant.Store
	logger      *zap.Logger
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, replier Replier, restaurants restaurant.Store, logger *zap.Logger) *Handler {
	return &Handler{
		chatSvc:     chatSvc,
		replier:     replier,
		restaurants: restaurants,
		logger:      logging.OrNop(logger).Named("chat"),
	}
}

// RegisterRoutes 注册 /ai 路由，全部需要 bearer
func (h *Handler) RegisterRoutes(r chi.Router, auth middleware.Authenticator) {
	r.Route("/ai", func(r chi.Router) {
		r.Use(middleware.RequireBearer(auth))
		r.Post("/chat", h.handleChat)
		r.Post("/audio-chat", h.handleAudioChat)
		r.Get("/chat-messages", h.handleHistory)
	})
}

type chatPayload struct {
	AgentID      string `json:"ai_agent_id"`
	Message      string `json:"message"`
	RestaurantID string `json:"restaurant_id"`
	TableID      string `json:"table_id"`
}

// handleChat 保存用户消息并生成回复
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	acct, _ := middleware.AccountFrom(r.Context())

	var payload chatPayload
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	text := strings.TrimSpace(payload.Message)
	if text == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	venue, ok := h.resolveRestaurant(payload)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Restaurant not found")
		return
	}
	profile := venue.Profile()
	if !capability.Resolve(&profile).Text {
		utils.RespondError(w, http.StatusForbidden, "Chat is not enabled for this restaurant")
		return
	}

	ctx := r.Context()
	history := h.chatSvc.LoadTranscript(ctx, acct.ID, venue.ID)
	if _, err := h.chatSvc.SaveMessage(ctx, chat.Message{
		AccountID:    acct.ID,
		RestaurantID: venue.ID,
		Sender:       chat.SenderUser,
		Text:         text,
	}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reply, err := h.replier.Reply(ctx, &venue, payload.TableID, history, text)
	if err != nil {
		h.logger.Error("reply failed", zap.String("restaurant_id", venue.ID), zap.Error(err))
		utils.RespondError(w, http.StatusBadGateway, "The concierge is unavailable right now")
		return
	}
	if _, err := h.chatSvc.SaveMessage(ctx, chat.Message{
		AccountID:    acct.ID,
		RestaurantID: venue.ID,
		Sender:       chat.SenderAssistant,
		Text:         reply,
	}); err != nil {
		h.logger.Warn("failed to store reply", zap.Error(err))
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": reply})
}

// handleAudioChat 音频通道暂未实现，仅确认收到
func (h *Handler) handleAudioChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message":  "Audio chat is not available yet.",
		"received": true,
	})
}

// handleHistory 返回当前账户的聊天记录
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	acct, _ := middleware.AccountFrom(r.Context())
	messages := h.chatSvc.LoadTranscript(r.Context(), acct.ID, r.URL.Query().Get("restaurantId"))
	utils.RespondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// resolveRestaurant 优先使用 restaurant_id，其次按 agent 查找
func (h *Handler) resolveRestaurant(p chatPayload) (restaurant.Restaurant, bool) {
	if p.RestaurantID != "" {
		return h.restaurants.FindByID(p.RestaurantID)
	}
	return h.restaurants.FindByAgent(p.AgentID)
}
