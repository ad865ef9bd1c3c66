package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Paid, failed and cancelled are terminal: no handler in
// this system transitions an order out of them.
const (
	OrderStatusPending   = "pending" // COD order awaiting delivery
	OrderStatusCreated   = "created" // gateway order awaiting callback
	OrderStatusPaid      = "paid"
	OrderStatusFailed    = "failed"
	OrderStatusCancelled = "cancelled"
)

// Payment method tags.
const (
	PaymentMethodCOD      = "cod"
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodGateway  = "paymentgateway"
)

// OrderItem is one purchased line. Price is the unit price at the time of
// purchase, not a live product reference.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
}

// Order represents one checkout attempt.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items         []OrderItem        `bson:"items" json:"items"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	Status        string             `bson:"status" json:"status"`
	PaymentMethod string             `bson:"payment_method" json:"paymentMethod"`

	// Razorpay (provider A) references.
	RazorpayOrderID   string `bson:"razorpay_order_id,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string `bson:"razorpay_payment_id,omitempty" json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string `bson:"razorpay_signature,omitempty" json:"razorpaySignature,omitempty"`

	// Hosted gateway (provider B) references. PGRawResponse is opaque and
	// stored for audit only.
	PGOrderID       string `bson:"pg_order_id,omitempty" json:"pgOrderId,omitempty"`
	PGTransactionID string `bson:"pg_transaction_id,omitempty" json:"pgTransactionId,omitempty"`
	PGResponseCode  string `bson:"pg_response_code,omitempty" json:"pgResponseCode,omitempty"`
	PGRawResponse   string `bson:"pg_raw_response,omitempty" json:"pgRawResponse,omitempty"`

	ShippingAddress *AddressSnapshot `bson:"shipping_address,omitempty" json:"shippingAddress,omitempty"`
	CreatedAt       time.Time        `bson:"created_at" json:"createdAt"`
}

// Terminal reports whether the order's status can never change again.
func (o *Order) Terminal() bool {
	switch o.Status {
	case OrderStatusPaid, OrderStatusFailed, OrderStatusCancelled:
		return true
	}
	return false
}
