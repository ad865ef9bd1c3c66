package models

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a catalog item. Price is a pointer because older
// catalog entries only carry MRP plus a discount percentage; "no stored
// price" and "price zero" are different things.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Price           *float64           `bson:"price,omitempty" json:"price,omitempty"`
	MRP             float64            `bson:"mrp,omitempty" json:"mrp,omitempty"`
	DiscountPercent float64            `bson:"discount_percent,omitempty" json:"discountPercent,omitempty"`
	Category        string             `bson:"category,omitempty" json:"category,omitempty"`
	Sizes           []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Images          []string           `bson:"images,omitempty" json:"images,omitempty"`
	Stock           int                `bson:"stock" json:"stock"`
}

// EffectivePrice returns the unit price charged for the product: the stored
// price when present, otherwise MRP less the discount percentage, rounded to
// the nearest rupee.
func (p *Product) EffectivePrice() float64 {
	if p.Price != nil {
		return *p.Price
	}
	return math.Round(p.MRP - p.MRP*p.DiscountPercent/100)
}
