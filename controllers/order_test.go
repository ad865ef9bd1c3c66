package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickntrack/storefront-api/models"
	"github.com/tickntrack/storefront-api/store"
)

func orderRequest(method, target string, userID, orderID primitive.ObjectID) *http.Request {
	r := authedRequest(method, target, nil, userID)
	return mux.SetURLVars(r, map[string]string{"id": orderID.Hex()})
}

func TestGetMyOrders(t *testing.T) {
	userID := primitive.NewObjectID()
	orders := &mockOrderStore{
		listByUserFunc: func(ctx context.Context, id primitive.ObjectID) ([]models.Order, error) {
			assert.Equal(t, userID, id)
			return []models.Order{
				{ID: primitive.NewObjectID(), UserID: id, Status: models.OrderStatusPaid},
				{ID: primitive.NewObjectID(), UserID: id, Status: models.OrderStatusPending},
			}, nil
		},
	}
	oc := NewOrderController(testLogger(), Stores{Orders: orders})

	w := httptest.NewRecorder()
	oc.GetMyOrders(w, authedRequest(http.MethodGet, "/api/orders", nil, userID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.OrderStatusPaid)
}

func TestGetOrderByID_NotOwned(t *testing.T) {
	userID := primitive.NewObjectID()
	orderID := primitive.NewObjectID()
	orders := &mockOrderStore{
		getByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
			return &models.Order{ID: id, UserID: primitive.NewObjectID()}, nil
		},
	}
	oc := NewOrderController(testLogger(), Stores{Orders: orders})

	w := httptest.NewRecorder()
	oc.GetOrderByID(w, orderRequest(http.MethodGet, "/api/orders/"+orderID.Hex(), userID, orderID))

	// Another user's order is indistinguishable from a missing one.
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelOrder(t *testing.T) {
	userID := primitive.NewObjectID()
	orderID := primitive.NewObjectID()

	orders := &mockOrderStore{
		getByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
			return &models.Order{ID: id, UserID: userID, Status: models.OrderStatusPending}, nil
		},
		transitionByIDFunc: func(ctx context.Context, id primitive.ObjectID, from []string, upd store.OrderUpdate) (*models.Order, error) {
			assert.Equal(t, orderID, id)
			assert.ElementsMatch(t, []string{models.OrderStatusPending, models.OrderStatusCreated}, from)
			require.Equal(t, models.OrderStatusCancelled, upd.Status)
			return &models.Order{ID: id, UserID: userID, Status: models.OrderStatusCancelled}, nil
		},
	}
	oc := NewOrderController(testLogger(), Stores{Orders: orders})

	w := httptest.NewRecorder()
	oc.CancelOrder(w, orderRequest(http.MethodPut, "/api/orders/"+orderID.Hex()+"/cancel", userID, orderID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.OrderStatusCancelled)
}

func TestCancelOrder_TerminalStatuses(t *testing.T) {
	userID := primitive.NewObjectID()
	orderID := primitive.NewObjectID()

	for _, status := range []string{models.OrderStatusPaid, models.OrderStatusFailed, models.OrderStatusCancelled} {
		t.Run(status, func(t *testing.T) {
			orders := &mockOrderStore{
				getByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
					return &models.Order{ID: id, UserID: userID, Status: status}, nil
				},
				transitionByIDFunc: func(ctx context.Context, id primitive.ObjectID, from []string, upd store.OrderUpdate) (*models.Order, error) {
					t.Error("terminal orders must not transition")
					return nil, store.ErrNotFound
				},
			}
			oc := NewOrderController(testLogger(), Stores{Orders: orders})

			w := httptest.NewRecorder()
			oc.CancelOrder(w, orderRequest(http.MethodPut, "/api/orders/"+orderID.Hex()+"/cancel", userID, orderID))

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCancelOrder_LosesRaceToCallback(t *testing.T) {
	userID := primitive.NewObjectID()
	orderID := primitive.NewObjectID()

	orders := &mockOrderStore{
		getByIDFunc: func(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
			return &models.Order{ID: id, UserID: userID, Status: models.OrderStatusCreated}, nil
		},
		// A callback won the race and the guard refuses the cancel.
		transitionByIDFunc: func(ctx context.Context, id primitive.ObjectID, from []string, upd store.OrderUpdate) (*models.Order, error) {
			return nil, store.ErrNotFound
		},
	}
	oc := NewOrderController(testLogger(), Stores{Orders: orders})

	w := httptest.NewRecorder()
	oc.CancelOrder(w, orderRequest(http.MethodPut, "/api/orders/"+orderID.Hex()+"/cancel", userID, orderID))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
