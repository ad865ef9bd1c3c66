package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickntrack/storefront-api/models"
	"github.com/tickntrack/storefront-api/store"
)

// OrderController serves a user's own orders.
type OrderController struct {
	logger *logrus.Logger
	orders store.OrderStore
}

// NewOrderController creates a new OrderController
func NewOrderController(logger *logrus.Logger, st Stores) *OrderController {
	return &OrderController{logger: logger, orders: st.Orders}
}

// GetMyOrders lists the authenticated user's orders, newest first.
// GET /api/orders
func (oc *OrderController) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orders, err := oc.orders.ListByUser(r.Context(), userID)
	if err != nil {
		oc.logger.WithError(err).Error("Failed to list orders")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetOrderByID returns one of the user's orders.
// GET /api/orders/{id}
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, ok := oc.loadOwnOrder(w, r, userID)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// CancelOrder cancels an order that has not reached a terminal state.
// PUT /api/orders/{id}/cancel
func (oc *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, ok := oc.loadOwnOrder(w, r, userID)
	if !ok {
		return
	}
	if order.Terminal() {
		respondError(w, http.StatusBadRequest, "Order can no longer be cancelled")
		return
	}

	updated, err := oc.orders.TransitionByID(r.Context(), order.ID,
		[]string{models.OrderStatusPending, models.OrderStatusCreated},
		store.OrderUpdate{Status: models.OrderStatusCancelled})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost the race to a callback; report the current state.
			respondError(w, http.StatusBadRequest, "Order can no longer be cancelled")
			return
		}
		oc.logger.WithError(err).Error("Failed to cancel order")
		respondError(w, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"order":   updated,
	})
}

func (oc *OrderController) loadOwnOrder(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) (*models.Order, bool) {
	vars := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid order ID")
		return nil, false
	}

	order, err := oc.orders.GetByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return nil, false
		}
		oc.logger.WithError(err).Error("Failed to load order")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve order")
		return nil, false
	}
	if order.UserID != userID {
		respondError(w, http.StatusNotFound, "Order not found")
		return nil, false
	}
	return order, true
}
