package payments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGatewayClient(baseURL string) *GatewayClient {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewGatewayClient(GatewayConfig{
		APIKey:  "key-1",
		Salt:    "salt-1",
		BaseURL: baseURL,
		Mode:    "TEST",
	}, logger)
}

func TestCreatePaymentRequest_RedirectLocation(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/paymentrequest", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Location", "https://pay.example.com/checkout/abc")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	client := testGatewayClient(srv.URL)
	url, err := client.CreatePaymentRequest(context.Background(), map[string]string{
		"order_id": "ORD_1",
		"amount":   "1300",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/checkout/abc", url)

	// The client fills credentials and signs the payload it sends.
	assert.Equal(t, "key-1", received["api_key"])
	assert.Equal(t, "TEST", received["mode"])
	submitted := received["hash"]
	delete(received, "hash")
	assert.True(t, VerifyHash(received, submitted, "salt-1"))
}

func TestCreatePaymentRequest_RedirectURLInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"redirect_url": "https://pay.example.com/checkout/xyz"})
	}))
	defer srv.Close()

	client := testGatewayClient(srv.URL)
	url, err := client.CreatePaymentRequest(context.Background(), map[string]string{"order_id": "ORD_2"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/checkout/xyz", url)
}

func TestCreatePaymentRequest_MissingRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
	}))
	defer srv.Close()

	client := testGatewayClient(srv.URL)
	_, err := client.CreatePaymentRequest(context.Background(), map[string]string{"order_id": "ORD_3"})
	assert.Error(t, err)
}

func TestCreatePaymentRequest_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := testGatewayClient(srv.URL)
	_, err := client.CreatePaymentRequest(context.Background(), map[string]string{"order_id": "ORD_4"})
	assert.Error(t, err)
}

func TestPaymentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/paymentstatus", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "key-1", payload["api_key"])
		assert.Equal(t, "ORD_5", payload["order_id"])
		submitted := payload["hash"]
		delete(payload, "hash")
		assert.True(t, VerifyHash(payload, submitted, "salt-1"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":         "success",
			"response_code":  "00",
			"transaction_id": "TXN_99",
		})
	}))
	defer srv.Close()

	client := testGatewayClient(srv.URL)
	status, err := client.PaymentStatus(context.Background(), "ORD_5")
	require.NoError(t, err)
	assert.Equal(t, "success", status.Status)
	assert.Equal(t, "00", status.ResponseCode)
	assert.Equal(t, "TXN_99", status.TransactionID)
	assert.Contains(t, status.Raw, "TXN_99")
	assert.True(t, status.IsSuccess())
}

func TestPaymentStatus_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := testGatewayClient(srv.URL)
	_, err := client.PaymentStatus(context.Background(), "ORD_6")
	assert.Error(t, err)
}

func TestGatewayStatusIsSuccess(t *testing.T) {
	tests := []struct {
		name   string
		status GatewayStatus
		want   bool
	}{
		{"lowercase success", GatewayStatus{Status: "success"}, true},
		{"uppercase success", GatewayStatus{Status: "SUCCESS"}, true},
		{"response code 00", GatewayStatus{Status: "completed", ResponseCode: "00"}, true},
		{"failed", GatewayStatus{Status: "failed", ResponseCode: "01"}, false},
		{"empty", GatewayStatus{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsSuccess())
		})
	}
}
