package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// GatewayConfig holds the hosted gateway's credentials and endpoints.
type GatewayConfig struct {
	APIKey  string
	Salt    string
	BaseURL string
	Mode    string
}

// GatewayStatus is the provider's payment-status response. Raw preserves the
// full body for audit storage.
type GatewayStatus struct {
	Status        string `json:"status"`
	ResponseCode  string `json:"response_code"`
	TransactionID string `json:"transaction_id"`
	Raw           string `json:"-"`
}

// IsSuccess maps the provider's status vocabulary to a boolean. The provider
// reports success as either a status synonym or response code "00".
func (s *GatewayStatus) IsSuccess() bool {
	return s.Status == "success" || s.Status == "SUCCESS" || s.ResponseCode == "00"
}

// GatewayClient talks to the hosted payment gateway (provider B). Requests
// are authenticated by a salted hash over the payload, not by a header.
type GatewayClient struct {
	cfg        GatewayConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewGatewayClient returns a client for the configured gateway. Redirects are
// not followed: the payment-request call answers with the hosted checkout
// URL, which is what the caller wants.
func NewGatewayClient(cfg GatewayConfig, logger *logrus.Logger) *GatewayClient {
	return &GatewayClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// Config returns the client's configuration.
func (c *GatewayClient) Config() GatewayConfig {
	return c.cfg
}

// CreatePaymentRequest signs and submits a payment request, returning the
// hosted-checkout redirect URL. The api_key, mode and hash fields are filled
// in here; everything else comes from the caller.
func (c *GatewayClient) CreatePaymentRequest(ctx context.Context, fields map[string]string) (string, error) {
	fields["api_key"] = c.cfg.APIKey
	if fields["mode"] == "" {
		fields["mode"] = c.cfg.Mode
	}
	fields["hash"] = GenerateHash(fields, c.cfg.Salt)

	resp, err := c.post(ctx, "/v2/paymentrequest", fields)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// The gateway answers with either a redirect or a JSON body carrying
	// redirect_url.
	if loc := resp.Header.Get("Location"); loc != "" && resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return loc, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("Gateway payment request rejected")
		return "", fmt.Errorf("gateway returned error status: %d", resp.StatusCode)
	}

	var parsed struct {
		RedirectURL string `json:"redirect_url"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if parsed.RedirectURL == "" {
		c.logger.WithField("body", string(body)).Error("Gateway response missing redirect URL")
		return "", fmt.Errorf("gateway response missing redirect URL")
	}
	return parsed.RedirectURL, nil
}

// PaymentStatus re-queries the provider for the authoritative state of an
// order. Callback data alone is never trusted for the paid/failed decision.
func (c *GatewayClient) PaymentStatus(ctx context.Context, pgOrderID string) (*GatewayStatus, error) {
	fields := map[string]string{
		"api_key":  c.cfg.APIKey,
		"order_id": pgOrderID,
	}
	fields["hash"] = GenerateHash(fields, c.cfg.Salt)

	resp, err := c.post(ctx, "/v2/paymentstatus", fields)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway status returned error status: %d", resp.StatusCode)
	}

	var status GatewayStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	status.Raw = string(body)

	c.logger.WithFields(logrus.Fields{
		"pg_order_id":   pgOrderID,
		"status":        status.Status,
		"response_code": status.ResponseCode,
	}).Info("Fetched gateway payment status")

	return &status, nil
}

func (c *GatewayClient) post(ctx context.Context, path string, payload map[string]string) (*http.Response, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gateway payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to gateway: %w", err)
	}
	return resp, nil
}
