package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tickntrack/storefront-api/models"
)

const queryTimeout = 10 * time.Second

// Mongo bundles the MongoDB-backed implementations of every store interface.
type Mongo struct {
	Users     *MongoUserStore
	Products  *MongoProductStore
	Carts     *MongoCartStore
	Wishlists *MongoWishlistStore
	Addresses *MongoAddressStore
	Orders    *MongoOrderStore
}

// NewMongo wires store implementations onto the named database.
func NewMongo(client *mongo.Client, database string) *Mongo {
	db := client.Database(database)
	return &Mongo{
		Users:     &MongoUserStore{coll: db.Collection("users")},
		Products:  &MongoProductStore{coll: db.Collection("products")},
		Carts:     &MongoCartStore{coll: db.Collection("carts")},
		Wishlists: &MongoWishlistStore{coll: db.Collection("wishlists")},
		Addresses: &MongoAddressStore{coll: db.Collection("addresses")},
		Orders:    &MongoOrderStore{coll: db.Collection("orders")},
	}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// MongoUserStore implements UserStore on the users collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

// MongoProductStore implements ProductStore on the products collection.
type MongoProductStore struct {
	coll *mongo.Collection
}

func (s *MongoProductStore) Create(ctx context.Context, product *models.Product) (primitive.ObjectID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := s.coll.InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoProductStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var product models.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, mapErr(err)
	}
	return &product, nil
}

func (s *MongoProductStore) List(ctx context.Context, category string) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// MongoCartStore implements CartStore on the carts collection.
type MongoCartStore struct {
	coll *mongo.Collection
}

func (s *MongoCartStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var cart models.Cart
	err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		return nil, mapErr(err)
	}
	return &cart, nil
}

func (s *MongoCartStore) Save(ctx context.Context, cart *models.Cart) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Update().SetUpsert(true)
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": cart.UserID},
		bson.M{"$set": bson.M{"items": cart.Items}},
		opts,
	)
	return err
}

func (s *MongoCartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}}},
	)
	return err
}

// MongoWishlistStore implements WishlistStore on the wishlists collection.
type MongoWishlistStore struct {
	coll *mongo.Collection
}

func (s *MongoWishlistStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var wishlist models.Wishlist
	err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&wishlist)
	if err != nil {
		return nil, mapErr(err)
	}
	return &wishlist, nil
}

func (s *MongoWishlistStore) Save(ctx context.Context, wishlist *models.Wishlist) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Update().SetUpsert(true)
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": wishlist.UserID},
		bson.M{"$set": bson.M{"products": wishlist.Products}},
		opts,
	)
	return err
}

// MongoAddressStore implements AddressStore on the addresses collection.
type MongoAddressStore struct {
	coll *mongo.Collection
}

func (s *MongoAddressStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Address, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var address models.Address
	err := s.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&address)
	if err != nil {
		return nil, mapErr(err)
	}
	return &address, nil
}

func (s *MongoAddressStore) Upsert(ctx context.Context, address *models.Address) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Update().SetUpsert(true)
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": address.UserID},
		bson.M{"$set": bson.M{
			"full_name":       address.FullName,
			"mobile_number":   address.MobileNumber,
			"pincode":         address.Pincode,
			"locality":        address.Locality,
			"address":         address.Address,
			"city":            address.City,
			"state":           address.State,
			"landmark":        address.Landmark,
			"alternate_phone": address.AlternatePhone,
			"address_type":    address.AddressType,
		}},
		opts,
	)
	return err
}

// MongoOrderStore implements OrderStore on the orders collection.
type MongoOrderStore struct {
	coll *mongo.Collection
}

func (s *MongoOrderStore) Create(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	res, err := s.coll.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoOrderStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, mapErr(err)
	}
	return &order, nil
}

func (s *MongoOrderStore) GetByPGOrderID(ctx context.Context, pgOrderID string) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"pg_order_id": pgOrderID}).Decode(&order)
	if err != nil {
		return nil, mapErr(err)
	}
	return &order, nil
}

func (s *MongoOrderStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoOrderStore) TransitionByPGOrderID(ctx context.Context, pgOrderID string, fromStatuses []string, upd OrderUpdate) (*models.Order, error) {
	filter := bson.M{
		"pg_order_id": pgOrderID,
		"status":      bson.M{"$in": fromStatuses},
	}
	return s.transition(ctx, filter, upd)
}

func (s *MongoOrderStore) TransitionByID(ctx context.Context, id primitive.ObjectID, fromStatuses []string, upd OrderUpdate) (*models.Order, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": fromStatuses},
	}
	return s.transition(ctx, filter, upd)
}

// transition is a status-guarded conditional update: the write succeeds only
// while the order is still in one of the expected statuses, so a replayed
// callback cannot re-apply a terminal transition.
func (s *MongoOrderStore) transition(ctx context.Context, filter bson.M, upd OrderUpdate) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"status": upd.Status}
	if upd.PGTransactionID != "" {
		set["pg_transaction_id"] = upd.PGTransactionID
	}
	if upd.PGResponseCode != "" {
		set["pg_response_code"] = upd.PGResponseCode
	}
	if upd.PGRawResponse != "" {
		set["pg_raw_response"] = upd.PGRawResponse
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&order)
	if err != nil {
		return nil, mapErr(err)
	}
	return &order, nil
}

func mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
