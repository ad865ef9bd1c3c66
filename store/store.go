package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tickntrack/storefront-api/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// UserStore provides access to user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProductStore provides access to the catalog.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
}

// CartStore provides access to per-user carts.
type CartStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	// Clear empties the user's cart. Clearing an absent cart is a no-op.
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// WishlistStore provides access to per-user wishlists.
type WishlistStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error)
	Save(ctx context.Context, wishlist *models.Wishlist) error
}

// AddressStore provides access to the user's saved delivery address.
type AddressStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Address, error)
	Upsert(ctx context.Context, address *models.Address) error
}

// OrderUpdate carries the provider fields recorded on a status transition.
type OrderUpdate struct {
	Status          string
	PGTransactionID string
	PGResponseCode  string
	PGRawResponse   string
}

// OrderStore provides access to orders.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetByPGOrderID(ctx context.Context, pgOrderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	// TransitionByPGOrderID applies upd only if the order's current status is
	// one of fromStatuses, and returns the updated order. ErrNotFound means
	// no order matched the reference and guard together; callers distinguish
	// "no such order" from "already in a terminal state" by a follow-up read.
	TransitionByPGOrderID(ctx context.Context, pgOrderID string, fromStatuses []string, upd OrderUpdate) (*models.Order, error)
	// TransitionByID is the same guard keyed by order id, used for
	// user-initiated cancellation.
	TransitionByID(ctx context.Context, id primitive.ObjectID, fromStatuses []string, upd OrderUpdate) (*models.Order, error)
}
