package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickntrack/storefront-api/models"
	"github.com/tickntrack/storefront-api/store"
)

// CartController handles cart-related requests
type CartController struct {
	logger *logrus.Logger
	carts  store.CartStore
}

// NewCartController creates a new CartController
func NewCartController(logger *logrus.Logger, st Stores) *CartController {
	return &CartController{logger: logger, carts: st.Carts}
}

// GetCart retrieves the user's cart. A user without a cart gets an empty one.
// GET /api/cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cart, err := cc.carts.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSON(w, http.StatusOK, models.Cart{UserID: userID, Items: []models.CartItem{}})
			return
		}
		cc.logger.WithError(err).Error("Failed to load cart")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve cart")
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// AddToCart adds a product line to the cart. Lines are keyed by
// (product, size): adding an existing line bumps its quantity.
// POST /api/cart/add
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid productId")
		return
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		respondError(w, http.StatusBadRequest, "Quantity must be >= 1")
		return
	}

	cart, err := cc.carts.Get(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			cc.logger.WithError(err).Error("Failed to load cart")
			respondError(w, http.StatusInternalServerError, "Failed to update cart")
			return
		}
		cart = &models.Cart{UserID: userID}
	}

	if idx := cart.FindItem(productID, req.Size); idx >= 0 {
		cart.Items[idx].Quantity += qty
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: productID,
			Quantity:  qty,
			Size:      req.Size,
		})
	}

	if err := cc.carts.Save(r.Context(), cart); err != nil {
		cc.logger.WithError(err).Error("Failed to save cart")
		respondError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// UpdateCartItem sets the quantity of an existing line.
// PUT /api/cart/update
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid productId")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "Quantity must be >= 1")
		return
	}

	cart, err := cc.carts.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Cart not found")
			return
		}
		cc.logger.WithError(err).Error("Failed to load cart")
		respondError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	idx := cart.FindItem(productID, req.Size)
	if idx < 0 {
		respondError(w, http.StatusNotFound, "Item not found in cart")
		return
	}
	cart.Items[idx].Quantity = req.Quantity

	if err := cc.carts.Save(r.Context(), cart); err != nil {
		cc.logger.WithError(err).Error("Failed to save cart")
		respondError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// RemoveFromCart removes lines for a product. With a size query parameter
// only the matching (product, size) line goes; without one, every line for
// the product goes.
// DELETE /api/cart/remove/{id}
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vars := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid productId")
		return
	}
	size := r.URL.Query().Get("size")

	cart, err := cc.carts.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSON(w, http.StatusOK, models.Cart{UserID: userID, Items: []models.CartItem{}})
			return
		}
		cc.logger.WithError(err).Error("Failed to load cart")
		respondError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID == productID && (size == "" || item.Size == size) {
			continue
		}
		kept = append(kept, item)
	}
	cart.Items = kept

	if err := cc.carts.Save(r.Context(), cart); err != nil {
		cc.logger.WithError(err).Error("Failed to save cart")
		respondError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	respondJSON(w, http.StatusOK, cart)
}
