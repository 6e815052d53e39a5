package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment methods and statuses.
const (
	PaymentCOD        = "cod"
	PaymentCard       = "card"
	PaymentUPI        = "upi"
	PaymentNetbanking = "netbanking"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// OrderItem is a snapshot of a cart line taken at checkout. Name, image
// and price are copied so later product edits leave the order untouched.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product"  json:"productId"`
	Name      string             `bson:"name"     json:"name"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price"    json:"price"`
	Image     string             `bson:"image"    json:"image"`
}

type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"        json:"id"`
	UserID            primitive.ObjectID `bson:"user"                 json:"userId"`
	Items             []OrderItem        `bson:"items"                json:"items"`
	Subtotal          float64            `bson:"subtotal"             json:"subtotal"`
	Discount          float64            `bson:"discount"             json:"discount"`
	Tax               float64            `bson:"tax"                  json:"tax"`
	Total             float64            `bson:"total"                json:"total"`
	CouponCode        string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	Status            string             `bson:"status"               json:"status"`
	ShippingAddress   ShippingAddress    `bson:"shippingAddress"      json:"shippingAddress"`
	PaymentMethod     string             `bson:"paymentMethod"        json:"paymentMethod"`
	PaymentStatus     string             `bson:"paymentStatus"        json:"paymentStatus"`
	EstimatedDelivery time.Time          `bson:"estimatedDelivery"    json:"estimatedDelivery"`
	CreatedAt         time.Time          `bson:"createdAt"            json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"            json:"updatedAt"`
}

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCOD, PaymentCard, PaymentUPI, PaymentNetbanking:
		return true
	}
	return false
}

// Cancel moves the order to cancelled. Delivered orders cannot be
// cancelled.
func (o *Order) Cancel() error {
	if o.Status == StatusDelivered {
		return ErrInvalidState
	}
	o.Status = StatusCancelled
	return nil
}

// MarkDelivered completes the order. Cancelled orders stay cancelled.
func (o *Order) MarkDelivered() error {
	if o.Status == StatusCancelled {
		return ErrInvalidState
	}
	o.Status = StatusDelivered
	return nil
}
