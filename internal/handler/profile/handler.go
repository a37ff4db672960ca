package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tableside/concierge/internal/model/restaurant"
	"github.com/tableside/concierge/pkg/utils"
)

// Handler 餐厅资料的HTTP处理器
type Handler struct {
	restaurants restaurant.Store
}

// New 创建餐厅资料处理器
func New(restaurants restaurant.Store) *Handler {
	return &Handler{restaurants: restaurants}
}

// RegisterRoutes 注册餐厅相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/restaurants", h.handleListRestaurants)
	r.Get("/profile/restaurant/{restaurantID}", h.handleProfile)
}

// handleListRestaurants 列出所有餐厅
func (h *Handler) handleListRestaurants(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.restaurants.List())
}

// handleProfile 返回餐厅的能力配置，tableId 可选
func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	item, ok := h.restaurants.FindByID(chi.URLParam(r, "restaurantID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Restaurant not found")
		return
	}
	if tableID := r.URL.Query().Get("tableId"); tableID != "" && !item.HasTable(tableID) {
		utils.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item.Profile())
}
