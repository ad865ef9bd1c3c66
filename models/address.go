package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a user's saved delivery address.
type Address struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	FullName       string             `bson:"full_name" json:"fullName"`
	MobileNumber   string             `bson:"mobile_number" json:"mobileNumber"`
	Pincode        string             `bson:"pincode" json:"pincode"`
	Locality       string             `bson:"locality" json:"locality"`
	Address        string             `bson:"address" json:"address"`
	City           string             `bson:"city" json:"city"`
	State          string             `bson:"state" json:"state"`
	Landmark       string             `bson:"landmark,omitempty" json:"landmark,omitempty"`
	AlternatePhone string             `bson:"alternate_phone,omitempty" json:"alternatePhone,omitempty"`
	AddressType    string             `bson:"address_type,omitempty" json:"addressType,omitempty"`
}

// AddressSnapshot is the copy of an address embedded in an order at creation
// time. It keeps no link to the source record, so later address edits never
// touch past orders.
type AddressSnapshot struct {
	FullName       string `bson:"full_name" json:"fullName"`
	MobileNumber   string `bson:"mobile_number" json:"mobileNumber"`
	Pincode        string `bson:"pincode" json:"pincode"`
	Locality       string `bson:"locality" json:"locality"`
	Address        string `bson:"address" json:"address"`
	City           string `bson:"city" json:"city"`
	State          string `bson:"state" json:"state"`
	Landmark       string `bson:"landmark,omitempty" json:"landmark,omitempty"`
	AlternatePhone string `bson:"alternate_phone,omitempty" json:"alternatePhone,omitempty"`
	AddressType    string `bson:"address_type,omitempty" json:"addressType,omitempty"`
}

// Snapshot copies the address fields into an order-embeddable snapshot.
func (a *Address) Snapshot() *AddressSnapshot {
	return &AddressSnapshot{
		FullName:       a.FullName,
		MobileNumber:   a.MobileNumber,
		Pincode:        a.Pincode,
		Locality:       a.Locality,
		Address:        a.Address,
		City:           a.City,
		State:          a.State,
		Landmark:       a.Landmark,
		AlternatePhone: a.AlternatePhone,
		AddressType:    a.AddressType,
	}
}
