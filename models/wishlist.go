package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wishlist holds the products a user has saved for later. One per user.
type Wishlist struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	UserID   primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Products []primitive.ObjectID `bson:"products" json:"products"`
}
