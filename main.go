package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tickntrack/storefront-api/config"
	"github.com/tickntrack/storefront-api/controllers"
	"github.com/tickntrack/storefront-api/middleware"
	"github.com/tickntrack/storefront-api/payments"
	"github.com/tickntrack/storefront-api/routes"
	"github.com/tickntrack/storefront-api/store"
	"github.com/tickntrack/storefront-api/utils"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}
	utils.JwtKey = []byte(cfg.JWTSecret)

	// Connect to MongoDB
	client, err := store.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.WithError(err).Error("Failed to disconnect from MongoDB")
		}
	}()

	mongoStores := store.NewMongo(client, cfg.MongoDatabase)
	stores := controllers.Stores{
		Orders:    mongoStores.Orders,
		Carts:     mongoStores.Carts,
		Products:  mongoStores.Products,
		Users:     mongoStores.Users,
		Addresses: mongoStores.Addresses,
		Wishlists: mongoStores.Wishlists,
	}

	// Payment provider clients
	razorpayClient := payments.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger)
	gatewayClient := payments.NewGatewayClient(payments.GatewayConfig{
		APIKey:  cfg.PGAPIKey,
		Salt:    cfg.PGSalt,
		BaseURL: cfg.PGBaseURL,
		Mode:    cfg.PGMode,
	}, logger)

	emailService := utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender)
	var email controllers.EmailSender
	if emailService != nil {
		email = emailService
	}

	// Initialize controllers
	c := routes.Controllers{
		User:     controllers.NewUserController(logger, stores),
		Product:  controllers.NewProductController(logger, stores),
		Cart:     controllers.NewCartController(logger, stores),
		Wishlist: controllers.NewWishlistController(logger, stores),
		Address:  controllers.NewAddressController(logger, stores),
		Order:    controllers.NewOrderController(logger, stores),
		Payment:  controllers.NewPaymentController(cfg, logger, stores, razorpayClient, gatewayClient, email),
	}

	// Set up the router
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(logger))
	routes.RegisterRoutes(router, c)

	logger.WithField("port", cfg.Port).Info("Server is running")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}
