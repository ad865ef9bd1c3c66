package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line in a cart. Line identity is (product, size): a sized
// line and an unsized line for the same product are distinct.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Size      string             `bson:"size,omitempty" json:"size,omitempty"`
}

// Cart represents a user's shopping cart. One cart per user.
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// FindItem returns the index of the line matching productID and size, or -1.
func (c *Cart) FindItem(productID primitive.ObjectID, size string) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.Size == size {
			return i
		}
	}
	return -1
}
