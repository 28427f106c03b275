package handler

import (
	"net/http"

	"github.com/mostafayousef44200444-rgb/backend/internal/middleware"
	"github.com/mostafayousef44200444-rgb/backend/internal/model"
	"github.com/mostafayousef44200444-rgb/backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrderHandler handles cart and order HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// callerID extracts the authenticated user ID. Routes reaching here always
// sit behind RequireAuth.
func (h *OrderHandler) callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", h.logger)
		return "", false
	}
	return claims.UserID, true
}

// ReplaceCart handles POST /api/orders requests.
func (h *OrderHandler) ReplaceCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req model.ReplaceCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	order, err := h.service.ReplaceCart(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{Success: true, Message: "Cart updated", Order: order})
}

// UpdateCart handles PUT /api/orders/update-cart requests.
func (h *OrderHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req model.UpdateCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	order, err := h.service.UpdateCart(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{Success: true, Message: "Cart updated", Order: order})
}

// AddToCart handles POST /api/orders/add-to-cart requests.
func (h *OrderHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req model.AddToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	order, err := h.service.AddToCart(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{Success: true, Message: "Item added to cart", Order: order})
}

// RemoveFromCart handles DELETE /api/orders/remove-from-cart/{productId}.
func (h *OrderHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	order, err := h.service.RemoveFromCart(r.Context(), userID, chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{Success: true, Message: "Item removed from cart", Order: order})
}

// Confirm handles PUT /api/orders/{orderId}/confirm requests.
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req model.ConfirmOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	order, err := h.service.Confirm(r.Context(), userID, chi.URLParam(r, "orderId"), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{Success: true, Message: "Order confirmed", Order: order})
}

// GetCurrentCart handles GET /api/orders/my/current requests.
func (h *OrderHandler) GetCurrentCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetCurrentCart(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{Success: true, Order: order})
}

// ListMine handles GET /api/orders/my requests.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrdersResponse{Success: true, Orders: orders})
}

// ListAll handles GET /api/orders requests (admin only).
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrdersResponse{Success: true, Orders: orders})
}

// AdminGet handles GET /api/orders/{orderId}/admin requests.
func (h *OrderHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.AdminGet(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{Success: true, Order: order})
}

// AdminUpdate handles PUT /api/orders/{orderId}/admin requests.
func (h *OrderHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.AdminUpdateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	order, err := h.service.AdminUpdate(r.Context(), chi.URLParam(r, "orderId"), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.OrderResponse{Success: true, Message: "Order updated", Order: order})
}
