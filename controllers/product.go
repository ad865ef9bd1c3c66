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

// ProductController handles product-related requests
type ProductController struct {
	logger   *logrus.Logger
	products store.ProductStore
}

// NewProductController creates a new ProductController
func NewProductController(logger *logrus.Logger, st Stores) *ProductController {
	return &ProductController{logger: logger, products: st.Products}
}

// GetProducts lists the catalog, optionally filtered by category.
// GET /api/products?category=...
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = r.URL.Query().Get("subcategory")
	}

	products, err := pc.products.List(r.Context(), category)
	if err != nil {
		pc.logger.WithError(err).Error("Failed to list products")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

// GetProductByID returns a single product.
// GET /api/products/{id}
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := pc.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		pc.logger.WithError(err).Error("Failed to load product")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// CreateProduct handles adding a new product (Admin only)
// POST /api/products
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if product.Name == "" {
		respondError(w, http.StatusBadRequest, "Product name is required")
		return
	}

	id, err := pc.products.Create(r.Context(), &product)
	if err != nil {
		pc.logger.WithError(err).Error("Failed to create product")
		respondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	product.ID = id
	respondJSON(w, http.StatusCreated, product)
}
