package models

import "time"

// Review of a product, allowed only after the referenced order is delivered.
// Approved is tri-state: nil while awaiting moderation, then true or false.
type Review struct {
	ID        int64     `bson:"_id" json:"id"`
	UserID    int64     `bson:"userId" json:"userId"`
	ProductID int64     `bson:"productId" json:"productId"`
	OrderID   int64     `bson:"orderId" json:"orderId"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment" json:"comment"`
	Approved  *bool     `bson:"approved" json:"approved"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// Display fields filled in at read time, never stored.
	UserName    string `bson:"-" json:"userName,omitempty"`
	UserEmail   string `bson:"-" json:"userEmail,omitempty"`
	ProductName string `bson:"-" json:"productName,omitempty"`
}
