package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/tickntrack/storefront-api/models"
	"github.com/tickntrack/storefront-api/store"
)

// AddressController handles the user's saved delivery address.
type AddressController struct {
	logger *logrus.Logger
	addrs  store.AddressStore
}

// NewAddressController creates a new AddressController
func NewAddressController(logger *logrus.Logger, st Stores) *AddressController {
	return &AddressController{logger: logger, addrs: st.Addresses}
}

// GetAddress returns the user's saved address.
// GET /api/address
func (ac *AddressController) GetAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	address, err := ac.addrs.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Address not found")
			return
		}
		ac.logger.WithError(err).Error("Failed to load address")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve address")
		return
	}
	respondJSON(w, http.StatusOK, address)
}

// SaveAddress creates or replaces the user's address record. Orders placed
// before an edit keep their snapshot of the old values.
// PUT /api/address
func (ac *AddressController) SaveAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var address models.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if address.FullName == "" || address.MobileNumber == "" || address.Pincode == "" {
		respondError(w, http.StatusBadRequest, "fullName, mobileNumber and pincode are required")
		return
	}
	address.UserID = userID

	if err := ac.addrs.Upsert(r.Context(), &address); err != nil {
		ac.logger.WithError(err).Error("Failed to save address")
		respondError(w, http.StatusInternalServerError, "Failed to save address")
		return
	}
	respondJSON(w, http.StatusOK, address)
}
