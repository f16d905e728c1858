package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipping   OrderStatus = "shipping"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid reports whether s is one of the five order statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipping,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further change in the
// normal flow.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentEWallet      PaymentMethod = "e_wallet"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCOD, PaymentBankTransfer, PaymentEWallet:
		return true
	}
	return false
}

// OrderItem is a snapshot of a product line taken at checkout time.
// Later edits or deletes of the product never touch it.
type OrderItem struct {
	ProductID int64   `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
}

type Order struct {
	ID              int64         `bson:"_id" json:"id"`
	UserID          int64         `bson:"userId" json:"userId"`
	Items           []OrderItem   `bson:"items" json:"items"`
	Total           float64       `bson:"total" json:"total"`
	Status          OrderStatus   `bson:"status" json:"status"`
	PaymentMethod   PaymentMethod `bson:"paymentMethod" json:"paymentMethod"`
	CustomerName    string        `bson:"customerName" json:"customerName"`
	CustomerPhone   string        `bson:"customerPhone" json:"customerPhone"`
	CustomerAddress string        `bson:"customerAddress" json:"customerAddress"`
	Notes           string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}
