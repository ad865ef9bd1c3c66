package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickntrack/storefront-api/config"
	"github.com/tickntrack/storefront-api/models"
	"github.com/tickntrack/storefront-api/payments"
	"github.com/tickntrack/storefront-api/store"
)

// RazorpayAPI is the provider-A surface the controller needs.
type RazorpayAPI interface {
	CreateOrder(ctx context.Context, amountRupees float64, currency, receipt string, notes map[string]string) (*payments.RazorpayOrder, error)
}

// GatewayAPI is the provider-B surface the controller needs.
type GatewayAPI interface {
	CreatePaymentRequest(ctx context.Context, fields map[string]string) (string, error)
	PaymentStatus(ctx context.Context, pgOrderID string) (*payments.GatewayStatus, error)
}

// EmailSender sends order confirmation mail. May be backed by a nil service.
type EmailSender interface {
	SendOrderConfirmationEmail(toEmail string, order *models.Order) error
}

// PaymentController handles checkout: Razorpay verification, cash on
// delivery, and the hosted gateway's create/callback flow.
type PaymentController struct {
	cfg      *config.Config
	logger   *logrus.Logger
	orders   store.OrderStore
	carts    store.CartStore
	products store.ProductStore
	users    store.UserStore
	addrs    store.AddressStore
	razorpay RazorpayAPI
	gateway  GatewayAPI
	email    EmailSender
}

// Stores bundles the storage interfaces the controllers depend on.
type Stores struct {
	Orders    store.OrderStore
	Carts     store.CartStore
	Products  store.ProductStore
	Users     store.UserStore
	Addresses store.AddressStore
	Wishlists store.WishlistStore
}

// NewPaymentController wires a payment controller.
func NewPaymentController(cfg *config.Config, logger *logrus.Logger, st Stores, razorpay RazorpayAPI, gateway GatewayAPI, email EmailSender) *PaymentController {
	return &PaymentController{
		cfg:      cfg,
		logger:   logger,
		orders:   st.Orders,
		carts:    st.Carts,
		products: st.Products,
		users:    st.Users,
		addrs:    st.Addresses,
		razorpay: razorpay,
		gateway:  gateway,
		email:    email,
	}
}

// CreateRazorpayOrder registers a hosted-checkout order with Razorpay.
// POST /api/payment/orders
func (pc *PaymentController) CreateRazorpayOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   float64           `json:"amount"`
		Currency string            `json:"currency"`
		Receipt  string            `json:"receipt"`
		Notes    map[string]string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	if !pc.cfg.RazorpayConfigured() {
		respondError(w, http.StatusInternalServerError, "Razorpay keys not configured on server")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = "rcpt_" + uuid.NewString()
	}

	order, err := pc.razorpay.CreateOrder(r.Context(), req.Amount, currency, receipt, req.Notes)
	if err != nil {
		pc.logger.WithError(err).Error("Razorpay order creation failed")
		respondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"order": order,
		"key":   pc.cfg.RazorpayKeyID,
	})
}

// VerifyRazorpayPayment authenticates a completed Razorpay payment and places
// the order from the caller's cart.
// POST /api/payment/verify
func (pc *PaymentController) VerifyRazorpayPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID   string `json:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		respondError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if pc.cfg.RazorpayKeySecret == "" {
		respondError(w, http.StatusInternalServerError, "Server secret missing")
		return
	}

	// Reject before touching any state.
	if !payments.VerifyRazorpaySignature(req.OrderID, req.PaymentID, req.Signature, pc.cfg.RazorpayKeySecret) {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Invalid signature",
		})
		return
	}

	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	items, amount, err := pc.orderItemsFromCart(r.Context(), userID, false)
	if err != nil {
		pc.respondCartError(w, err)
		return
	}

	order := &models.Order{
		UserID:            userID,
		Items:             items,
		Amount:            amount,
		Currency:          "INR",
		Status:            models.OrderStatusPaid,
		PaymentMethod:     models.PaymentMethodRazorpay,
		RazorpayOrderID:   req.OrderID,
		RazorpayPaymentID: req.PaymentID,
		RazorpaySignature: req.Signature,
		ShippingAddress:   pc.snapshotAddress(r.Context(), userID),
	}

	orderID, err := pc.orders.Create(r.Context(), order)
	if err != nil {
		pc.logger.WithError(err).Error("Failed to persist Razorpay order")
		respondError(w, http.StatusInternalServerError, "Verification failed")
		return
	}
	order.ID = orderID

	if err := pc.carts.Clear(r.Context(), userID); err != nil {
		pc.logger.WithError(err).WithField("order_id", orderID.Hex()).Error("Failed to clear cart after payment")
	}

	pc.sendConfirmation(userID, order)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

// CreateCODOrder places a cash-on-delivery order from the caller's cart.
// Cart lines whose product no longer resolves are dropped first.
// POST /api/payment/cod
func (pc *PaymentController) CreateCODOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	items, amount, err := pc.orderItemsFromCart(r.Context(), userID, true)
	if err != nil {
		pc.respondCartError(w, err)
		return
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		Amount:          amount,
		Currency:        "INR",
		Status:          models.OrderStatusPending,
		PaymentMethod:   models.PaymentMethodCOD,
		ShippingAddress: pc.snapshotAddress(r.Context(), userID),
	}

	orderID, err := pc.orders.Create(r.Context(), order)
	if err != nil {
		pc.logger.WithError(err).Error("Failed to create COD order")
		respondError(w, http.StatusInternalServerError, "Failed to create COD order")
		return
	}
	order.ID = orderID

	// Cleared only after the order exists.
	if err := pc.carts.Clear(r.Context(), userID); err != nil {
		pc.logger.WithError(err).WithField("order_id", orderID.Hex()).Error("Failed to clear cart after COD order")
	}

	pc.sendConfirmation(userID, order)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"order":   order,
	})
}

// CreateGatewayPayment builds and submits a hosted-gateway payment request
// and records the order in "created" state for later callback correlation.
// The cart is not cleared here (only a confirmed success clears it).
// POST /api/payment/create
func (pc *PaymentController) CreateGatewayPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	items, amount, err := pc.orderItemsFromCart(r.Context(), userID, false)
	if err != nil {
		pc.respondCartError(w, err)
		return
	}

	user, err := pc.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	snapshot := pc.snapshotAddress(r.Context(), userID)

	// Contact fields fall back address -> profile -> fixed defaults.
	name := user.Name
	phone := user.Phone
	city := "Pune"
	zip := "411001"
	if snapshot != nil {
		if snapshot.FullName != "" {
			name = snapshot.FullName
		}
		if snapshot.MobileNumber != "" {
			phone = snapshot.MobileNumber
		}
		if snapshot.City != "" {
			city = snapshot.City
		}
		if snapshot.Pincode != "" {
			zip = snapshot.Pincode
		}
	}
	if name == "" {
		name = "Customer"
	}

	pgOrderID := fmt.Sprintf("ORD_%d_%s", time.Now().UnixMilli(), userID.Hex())

	fields := map[string]string{
		"order_id":           pgOrderID,
		"amount":             strconv.FormatFloat(amount, 'f', -1, 64),
		"currency":           "INR",
		"description":        "Order Payment",
		"name":               name,
		"email":              user.Email,
		"phone":              phone,
		"city":               city,
		"country":            "IND",
		"zip_code":           zip,
		"return_url":         pc.cfg.BackendURL + "/api/payment/success",
		"return_url_failure": pc.cfg.BackendURL + "/api/payment/failure",
	}

	redirectURL, err := pc.gateway.CreatePaymentRequest(r.Context(), fields)
	if err != nil {
		pc.logger.WithError(err).Error("Gateway payment request failed")
		respondError(w, http.StatusInternalServerError, "Failed to get payment redirect URL")
		return
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		Amount:          amount,
		Currency:        "INR",
		Status:          models.OrderStatusCreated,
		PaymentMethod:   models.PaymentMethodGateway,
		PGOrderID:       pgOrderID,
		ShippingAddress: snapshot,
	}
	orderID, err := pc.orders.Create(r.Context(), order)
	if err != nil {
		pc.logger.WithError(err).Error("Failed to persist gateway order")
		respondError(w, http.StatusInternalServerError, "Failed to create payment")
		return
	}

	pc.logger.WithFields(logrus.Fields{
		"order_id":    orderID.Hex(),
		"pg_order_id": pgOrderID,
		"amount":      amount,
	}).Info("Gateway payment request created")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"redirectUrl": redirectURL,
		"orderId":     orderID,
		"pgOrderId":   pgOrderID,
	})
}

// GatewaySuccess handles the provider's success callback. The callback is
// untrusted: the hash is verified first and the paid/failed decision comes
// from an out-of-band status re-query, never from the callback body alone.
// Every outcome is a browser redirect.
// POST /api/payment/success
func (pc *PaymentController) GatewaySuccess(w http.ResponseWriter, r *http.Request) {
	data := callbackFields(r)
	submittedHash := data["hash"]
	delete(data, "hash")

	if !payments.VerifyHash(data, submittedHash, pc.cfg.PGSalt) {
		pc.logger.Warn("Hash mismatch in payment success callback")
		pc.redirectFailure(w, r, "hash_mismatch", "")
		return
	}

	pgOrderID := data["order_id"]
	if pgOrderID == "" {
		pc.redirectFailure(w, r, "missing_order_id", "")
		return
	}

	statusData, err := pc.gateway.PaymentStatus(r.Context(), pgOrderID)
	if err != nil {
		pc.logger.WithError(err).WithField("pg_order_id", pgOrderID).Error("Payment status verification failed")
		pc.redirectFailure(w, r, "verification_failed", "")
		return
	}

	order, err := pc.orders.GetByPGOrderID(r.Context(), pgOrderID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			pc.logger.WithError(err).Error("Order lookup failed in success callback")
		}
		pc.redirectFailure(w, r, "order_not_found", "")
		return
	}

	if !statusData.IsSuccess() {
		_, err := pc.orders.TransitionByPGOrderID(r.Context(), pgOrderID,
			[]string{models.OrderStatusCreated, models.OrderStatusPending},
			store.OrderUpdate{
				Status:         models.OrderStatusFailed,
				PGResponseCode: statusData.ResponseCode,
				PGRawResponse:  statusData.Raw,
			})
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			pc.logger.WithError(err).Error("Failed to mark order failed")
		}
		pc.redirectFailure(w, r, "payment_failed", order.ID.Hex())
		return
	}

	transactionID := statusData.TransactionID
	if transactionID == "" {
		transactionID = data["transaction_id"]
	}

	// Guarded transition: only one callback moves the order out of
	// "created", so a replay cannot re-apply side effects.
	updated, err := pc.orders.TransitionByPGOrderID(r.Context(), pgOrderID,
		[]string{models.OrderStatusCreated, models.OrderStatusPending},
		store.OrderUpdate{
			Status:          models.OrderStatusPaid,
			PGTransactionID: transactionID,
			PGResponseCode:  statusData.ResponseCode,
			PGRawResponse:   statusData.Raw,
		})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Already terminal. A replayed success callback for a paid
			// order lands on the success page without any mutation.
			if order.Status == models.OrderStatusPaid {
				pc.redirectSuccess(w, r, order.ID.Hex())
				return
			}
			pc.redirectFailure(w, r, "payment_failed", order.ID.Hex())
			return
		}
		pc.logger.WithError(err).Error("Failed to mark order paid")
		pc.redirectFailure(w, r, "server_error", "")
		return
	}

	if err := pc.carts.Clear(r.Context(), updated.UserID); err != nil {
		pc.logger.WithError(err).WithField("order_id", updated.ID.Hex()).Error("Failed to clear cart after gateway payment")
	}

	pc.sendConfirmation(updated.UserID, updated)

	pc.logger.WithFields(logrus.Fields{
		"order_id":    updated.ID.Hex(),
		"pg_order_id": pgOrderID,
	}).Info("Gateway payment confirmed")

	pc.redirectSuccess(w, r, updated.ID.Hex())
}

// GatewayFailure handles the provider's failure callback. The provider posts
// failure callbacks unsigned, so the hash is checked only when present and a
// mismatch is logged rather than enforced; the handler can do nothing worse
// than mark a not-yet-paid order failed.
// POST /api/payment/failure
func (pc *PaymentController) GatewayFailure(w http.ResponseWriter, r *http.Request) {
	data := callbackFields(r)
	submittedHash := data["hash"]
	delete(data, "hash")

	if submittedHash != "" && !payments.VerifyHash(data, submittedHash, pc.cfg.PGSalt) {
		pc.logger.Warn("Hash mismatch in payment failure callback")
	}

	pgOrderID := data["order_id"]
	if pgOrderID != "" {
		raw, _ := json.Marshal(data)
		// Only created orders move to failed; paid and failed orders are
		// never overwritten by a duplicate callback.
		_, err := pc.orders.TransitionByPGOrderID(r.Context(), pgOrderID,
			[]string{models.OrderStatusCreated},
			store.OrderUpdate{
				Status:         models.OrderStatusFailed,
				PGResponseCode: data["response_code"],
				PGRawResponse:  string(raw),
			})
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			pc.logger.WithError(err).WithField("pg_order_id", pgOrderID).Error("Failed to record payment failure")
		}
	}

	pc.redirectFailure(w, r, "payment_failed", pgOrderID)
}

// orderItemsFromCart loads the cart, resolves each line's product and prices
// it. With dropMissing, lines whose product no longer exists are skipped;
// otherwise a missing product aborts the whole request.
func (pc *PaymentController) orderItemsFromCart(ctx context.Context, userID primitive.ObjectID, dropMissing bool) ([]models.OrderItem, float64, error) {
	cart, err := pc.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, 0, errCartEmpty
		}
		return nil, 0, err
	}
	if len(cart.Items) == 0 {
		return nil, 0, errCartEmpty
	}

	var items []models.OrderItem
	var amount float64
	for _, line := range cart.Items {
		product, err := pc.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) && dropMissing {
				pc.logger.WithField("product_id", line.ProductID.Hex()).Warn("Skipping unresolvable product in cart")
				continue
			}
			if errors.Is(err, store.ErrNotFound) {
				return nil, 0, errProductMissing
			}
			return nil, 0, err
		}

		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		price := product.EffectivePrice()
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  qty,
			Price:     price,
			Size:      line.Size,
		})
		amount += price * float64(qty)
	}

	if len(items) == 0 {
		return nil, 0, errNoValidItems
	}
	return items, amount, nil
}

var (
	errCartEmpty      = errors.New("cart is empty")
	errNoValidItems   = errors.New("no valid products in cart")
	errProductMissing = errors.New("product not found")
)

func (pc *PaymentController) respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errCartEmpty):
		respondError(w, http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, errNoValidItems):
		respondError(w, http.StatusBadRequest, "No valid products in cart")
	case errors.Is(err, errProductMissing):
		respondError(w, http.StatusNotFound, "Product not found")
	default:
		pc.logger.WithError(err).Error("Failed to load cart")
		respondError(w, http.StatusInternalServerError, "Failed to load cart")
	}
}

// snapshotAddress copies the user's current address into the order. Best
// effort: an order without a snapshot is valid.
func (pc *PaymentController) snapshotAddress(ctx context.Context, userID primitive.ObjectID) *models.AddressSnapshot {
	addr, err := pc.addrs.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			pc.logger.WithError(err).Warn("Failed to load address for snapshot")
		}
		return nil
	}
	return addr.Snapshot()
}

func (pc *PaymentController) sendConfirmation(userID primitive.ObjectID, order *models.Order) {
	if pc.email == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		user, err := pc.users.GetByID(ctx, userID)
		if err != nil {
			pc.logger.WithError(err).Warn("Could not load user for confirmation email")
			return
		}
		if err := pc.email.SendOrderConfirmationEmail(user.Email, order); err != nil {
			pc.logger.WithError(err).WithField("email", user.Email).Warn("Failed to send confirmation email")
		}
	}()
}

func (pc *PaymentController) redirectSuccess(w http.ResponseWriter, r *http.Request, orderID string) {
	url := fmt.Sprintf("%s/order/success?orderId=%s&paymentMethod=%s", pc.cfg.FrontendURL, orderID, models.PaymentMethodGateway)
	http.Redirect(w, r, url, http.StatusFound)
}

func (pc *PaymentController) redirectFailure(w http.ResponseWriter, r *http.Request, code, orderID string) {
	url := fmt.Sprintf("%s/payment-failure?error=%s", pc.cfg.FrontendURL, code)
	if orderID != "" {
		url += "&orderId=" + orderID
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// callbackFields flattens a provider callback into string fields. The
// gateway posts form data, but JSON is accepted too.
func callbackFields(r *http.Request) map[string]string {
	fields := make(map[string]string)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var raw map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err == nil {
			for k, v := range raw {
				fields[k] = fmt.Sprint(v)
			}
		}
		return fields
	}
	if err := r.ParseForm(); err != nil {
		return fields
	}
	for k, vals := range r.PostForm {
		if len(vals) > 0 {
			fields[k] = vals[0]
		}
	}
	return fields
}
