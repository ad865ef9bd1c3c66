package config

import (
	"fmt"
	"os"
)

// Config holds all environment-sourced settings. It is loaded once in main
// and injected into controllers and clients; nothing reads the process
// environment after startup.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	JWTSecret string

	// Razorpay (provider A)
	RazorpayKeyID     string
	RazorpayKeySecret string

	// Hosted payment gateway (provider B)
	PGAPIKey  string
	PGSalt    string
	PGBaseURL string
	PGMode    string

	// External URLs used to build callback and redirect targets.
	BackendURL  string
	FrontendURL string

	PostmarkToken string
	EmailSender   string
}

// Load reads configuration from the environment and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "5000"),
		MongoURI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGODB_DATABASE", "storefront"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		PGAPIKey:          os.Getenv("PG_API_KEY"),
		PGSalt:            os.Getenv("PG_SALT"),
		PGBaseURL:         os.Getenv("PG_API_URL"),
		PGMode:            getEnv("PG_MODE", "LIVE"),
		BackendURL:        getEnv("BACKEND_URL", "http://localhost:5000"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		PostmarkToken:     os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:       os.Getenv("EMAIL_SENDER"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}

// RazorpayConfigured reports whether provider-A credentials are present.
func (c *Config) RazorpayConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
