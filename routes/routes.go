package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tickntrack/storefront-api/controllers"
	"github.com/tickntrack/storefront-api/middleware"
)

// Controllers bundles everything RegisterRoutes mounts.
type Controllers struct {
	User     *controllers.UserController
	Product  *controllers.ProductController
	Cart     *controllers.CartController
	Wishlist *controllers.WishlistController
	Address  *controllers.AddressController
	Order    *controllers.OrderController
	Payment  *controllers.PaymentController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}).Methods("GET")

	// Public routes
	api.HandleFunc("/auth/register", c.User.Register).Methods("POST")
	api.HandleFunc("/auth/login", c.User.Login).Methods("POST")
	api.HandleFunc("/products", c.Product.GetProducts).Methods("GET")
	api.HandleFunc("/products/{id}", c.Product.GetProductByID).Methods("GET")

	// Razorpay order creation is called before a session exists; the
	// gateway callbacks arrive from the provider with no session at all.
	api.HandleFunc("/payment/orders", c.Payment.CreateRazorpayOrder).Methods("POST")
	api.HandleFunc("/payment/success", c.Payment.GatewaySuccess).Methods("POST")
	api.HandleFunc("/payment/failure", c.Payment.GatewayFailure).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/me", c.User.Me).Methods("GET")

	protected.HandleFunc("/cart", c.Cart.GetCart).Methods("GET")
	protected.HandleFunc("/cart/add", c.Cart.AddToCart).Methods("POST")
	protected.HandleFunc("/cart/update", c.Cart.UpdateCartItem).Methods("PUT")
	protected.HandleFunc("/cart/remove/{id}", c.Cart.RemoveFromCart).Methods("DELETE")

	protected.HandleFunc("/wishlist", c.Wishlist.GetWishlist).Methods("GET")
	protected.HandleFunc("/wishlist/add", c.Wishlist.AddToWishlist).Methods("POST")
	protected.HandleFunc("/wishlist/remove/{id}", c.Wishlist.RemoveFromWishlist).Methods("DELETE")

	protected.HandleFunc("/address", c.Address.GetAddress).Methods("GET")
	protected.HandleFunc("/address", c.Address.SaveAddress).Methods("PUT")

	protected.HandleFunc("/orders", c.Order.GetMyOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}", c.Order.GetOrderByID).Methods("GET")
	protected.HandleFunc("/orders/{id}/cancel", c.Order.CancelOrder).Methods("PUT")

	protected.HandleFunc("/payment/verify", c.Payment.VerifyRazorpayPayment).Methods("POST")
	protected.HandleFunc("/payment/cod", c.Payment.CreateCODOrder).Methods("POST")
	protected.HandleFunc("/payment/create", c.Payment.CreateGatewayPayment).Methods("POST")

	// Admin routes
	admin := api.PathPrefix("/products").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("", c.Product.CreateProduct).Methods("POST")
}
