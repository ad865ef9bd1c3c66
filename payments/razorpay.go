package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayOrder is the provider's order object, returned to the frontend so
// it can open the hosted checkout.
type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// RazorpayClient creates orders against the Razorpay REST API.
type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewRazorpayClient returns a client authenticated with the given key pair.
func NewRazorpayClient(keyID, keySecret string, logger *logrus.Logger) *RazorpayClient {
	return &RazorpayClient{
		baseURL:   razorpayBaseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// CreateOrder registers an order with the provider. Amount is in rupees and
// is converted to paise on the wire.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amountRupees float64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error) {
	body := map[string]interface{}{
		"amount":   int64(math.Round(amountRupees * 100)),
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		body["notes"] = notes
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Razorpay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error.Description != "" {
			c.logger.WithField("description", apiErr.Error.Description).Error("Razorpay API error")
		}
		return nil, fmt.Errorf("razorpay returned error status: %d", resp.StatusCode)
	}

	var order RazorpayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode Razorpay response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"razorpay_order_id": order.ID,
		"amount":            order.Amount,
	}).Info("Created Razorpay order")

	return &order, nil
}
