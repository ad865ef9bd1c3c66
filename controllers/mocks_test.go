package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickntrack/storefront-api/middleware"
	"github.com/tickntrack/storefront-api/models"
	"github.com/tickntrack/storefront-api/payments"
	"github.com/tickntrack/storefront-api/store"
	"github.com/tickntrack/storefront-api/utils"
)

// Func-field mocks for the store interfaces. Unset getters report not-found,
// unset mutators succeed; tests override what they care about.

type mockOrderStore struct {
	createFunc         func(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	getByIDFunc        func(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	getByPGOrderIDFunc func(ctx context.Context, pgOrderID string) (*models.Order, error)
	listByUserFunc     func(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	transitionByPGFunc func(ctx context.Context, pgOrderID string, fromStatuses []string, upd store.OrderUpdate) (*models.Order, error)
	transitionByIDFunc func(ctx context.Context, id primitive.ObjectID, fromStatuses []string, upd store.OrderUpdate) (*models.Order, error)
}

func (m *mockOrderStore) Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	if m.createFunc == nil {
		return primitive.NewObjectID(), nil
	}
	return m.createFunc(ctx, order)
}

func (m *mockOrderStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	if m.getByIDFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockOrderStore) GetByPGOrderID(ctx context.Context, pgOrderID string) (*models.Order, error) {
	if m.getByPGOrderIDFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getByPGOrderIDFunc(ctx, pgOrderID)
}

func (m *mockOrderStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	if m.listByUserFunc == nil {
		return nil, nil
	}
	return m.listByUserFunc(ctx, userID)
}

func (m *mockOrderStore) TransitionByPGOrderID(ctx context.Context, pgOrderID string, fromStatuses []string, upd store.OrderUpdate) (*models.Order, error) {
	if m.transitionByPGFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.transitionByPGFunc(ctx, pgOrderID, fromStatuses, upd)
}

func (m *mockOrderStore) TransitionByID(ctx context.Context, id primitive.ObjectID, fromStatuses []string, upd store.OrderUpdate) (*models.Order, error) {
	if m.transitionByIDFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.transitionByIDFunc(ctx, id, fromStatuses, upd)
}

type mockCartStore struct {
	getFunc   func(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	saveFunc  func(ctx context.Context, cart *models.Cart) error
	clearFunc func(ctx context.Context, userID primitive.ObjectID) error
}

func (m *mockCartStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	if m.getFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getFunc(ctx, userID)
}

func (m *mockCartStore) Save(ctx context.Context, cart *models.Cart) error {
	if m.saveFunc == nil {
		return nil
	}
	return m.saveFunc(ctx, cart)
}

func (m *mockCartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if m.clearFunc == nil {
		return nil
	}
	return m.clearFunc(ctx, userID)
}

type mockProductStore struct {
	createFunc  func(ctx context.Context, product *models.Product) (primitive.ObjectID, error)
	getByIDFunc func(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	listFunc    func(ctx context.Context, category string) ([]models.Product, error)
}

func (m *mockProductStore) Create(ctx context.Context, product *models.Product) (primitive.ObjectID, error) {
	if m.createFunc == nil {
		return primitive.NewObjectID(), nil
	}
	return m.createFunc(ctx, product)
}

func (m *mockProductStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if m.getByIDFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockProductStore) List(ctx context.Context, category string) ([]models.Product, error) {
	if m.listFunc == nil {
		return nil, nil
	}
	return m.listFunc(ctx, category)
}

type mockUserStore struct {
	createFunc     func(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	getByIDFunc    func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*models.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	if m.createFunc == nil {
		return primitive.NewObjectID(), nil
	}
	return m.createFunc(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.getByIDFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getByEmailFunc(ctx, email)
}

type mockAddressStore struct {
	getFunc    func(ctx context.Context, userID primitive.ObjectID) (*models.Address, error)
	upsertFunc func(ctx context.Context, address *models.Address) error
}

func (m *mockAddressStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Address, error) {
	if m.getFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getFunc(ctx, userID)
}

func (m *mockAddressStore) Upsert(ctx context.Context, address *models.Address) error {
	if m.upsertFunc == nil {
		return nil
	}
	return m.upsertFunc(ctx, address)
}

type mockWishlistStore struct {
	getFunc  func(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error)
	saveFunc func(ctx context.Context, wishlist *models.Wishlist) error
}

func (m *mockWishlistStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	if m.getFunc == nil {
		return nil, store.ErrNotFound
	}
	return m.getFunc(ctx, userID)
}

func (m *mockWishlistStore) Save(ctx context.Context, wishlist *models.Wishlist) error {
	if m.saveFunc == nil {
		return nil
	}
	return m.saveFunc(ctx, wishlist)
}

type mockRazorpay struct {
	createOrderFunc func(ctx context.Context, amountRupees float64, currency, receipt string, notes map[string]string) (*payments.RazorpayOrder, error)
}

func (m *mockRazorpay) CreateOrder(ctx context.Context, amountRupees float64, currency, receipt string, notes map[string]string) (*payments.RazorpayOrder, error) {
	return m.createOrderFunc(ctx, amountRupees, currency, receipt, notes)
}

type mockGateway struct {
	createPaymentRequestFunc func(ctx context.Context, fields map[string]string) (string, error)
	paymentStatusFunc        func(ctx context.Context, pgOrderID string) (*payments.GatewayStatus, error)
}

func (m *mockGateway) CreatePaymentRequest(ctx context.Context, fields map[string]string) (string, error) {
	return m.createPaymentRequestFunc(ctx, fields)
}

func (m *mockGateway) PaymentStatus(ctx context.Context, pgOrderID string) (*payments.GatewayStatus, error) {
	return m.paymentStatusFunc(ctx, pgOrderID)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// authedRequest builds a request carrying the claims the auth middleware
// would have attached.
func authedRequest(method, target string, body io.Reader, userID primitive.ObjectID) *http.Request {
	r := httptest.NewRequest(method, target, body)
	claims := &utils.Claims{UserID: userID.Hex(), Email: "shopper@example.com", Role: "user"}
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, claims)
	return r.WithContext(ctx)
}
