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

// WishlistController handles wishlist-related requests
type WishlistController struct {
	logger    *logrus.Logger
	wishlists store.WishlistStore
}

// NewWishlistController creates a new WishlistController
func NewWishlistController(logger *logrus.Logger, st Stores) *WishlistController {
	return &WishlistController{logger: logger, wishlists: st.Wishlists}
}

// GetWishlist returns the user's wishlist, empty if none exists yet.
// GET /api/wishlist
func (wc *WishlistController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	wishlist, err := wc.wishlists.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSON(w, http.StatusOK, models.Wishlist{UserID: userID, Products: []primitive.ObjectID{}})
			return
		}
		wc.logger.WithError(err).Error("Failed to load wishlist")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve wishlist")
		return
	}
	respondJSON(w, http.StatusOK, wishlist)
}

// AddToWishlist adds a product. Adding an already-saved product is a no-op.
// POST /api/wishlist/add
func (wc *WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ProductID string `json:"productId"`
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

	wishlist, err := wc.wishlists.Get(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			wc.logger.WithError(err).Error("Failed to load wishlist")
			respondError(w, http.StatusInternalServerError, "Failed to update wishlist")
			return
		}
		wishlist = &models.Wishlist{UserID: userID}
	}

	for _, id := range wishlist.Products {
		if id == productID {
			respondJSON(w, http.StatusOK, wishlist)
			return
		}
	}
	wishlist.Products = append(wishlist.Products, productID)

	if err := wc.wishlists.Save(r.Context(), wishlist); err != nil {
		wc.logger.WithError(err).Error("Failed to save wishlist")
		respondError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	respondJSON(w, http.StatusOK, wishlist)
}

// RemoveFromWishlist removes a product.
// DELETE /api/wishlist/remove/{id}
func (wc *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
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

	wishlist, err := wc.wishlists.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondJSON(w, http.StatusOK, models.Wishlist{UserID: userID, Products: []primitive.ObjectID{}})
			return
		}
		wc.logger.WithError(err).Error("Failed to load wishlist")
		respondError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}

	kept := wishlist.Products[:0]
	for _, id := range wishlist.Products {
		if id != productID {
			kept = append(kept, id)
		}
	}
	wishlist.Products = kept

	if err := wc.wishlists.Save(r.Context(), wishlist); err != nil {
		wc.logger.WithError(err).Error("Failed to save wishlist")
		respondError(w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	respondJSON(w, http.StatusOK, wishlist)
}
