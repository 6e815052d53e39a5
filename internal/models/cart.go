package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greenharvest/shop/internal/coupon"
)

// TaxRate is the flat GST rate applied on (subtotal - discount).
const TaxRate = 0.05

// MaxItemQuantity caps a single cart line.
const MaxItemQuantity = 20

type CartItem struct {
	ProductID primitive.ObjectID `bson:"product"  json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	// Price is the product price captured when the line was added. Later
	// product price changes do not touch it.
	Price float64 `bson:"price" json:"price"`
}

type AppliedCoupon struct {
	Code     string  `bson:"code"     json:"code"`
	Discount float64 `bson:"discount" json:"discount"`
	Type     string  `bson:"type"     json:"type"`
}

type Cart struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"           json:"id"`
	UserID        primitive.ObjectID `bson:"user"                    json:"userId"`
	Items         []CartItem         `bson:"items"                   json:"items"`
	AppliedCoupon *AppliedCoupon     `bson:"appliedCoupon,omitempty" json:"appliedCoupon,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"               json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"               json:"updatedAt"`
}

// AddItem merges quantity into an existing line for the product or appends
// a new line with the given price snapshot. Stock is validated by the
// caller before this runs.
func (c *Cart) AddItem(productID primitive.ObjectID, quantity int, price float64) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity, Price: price})
	return nil
}

// UpdateQuantity overwrites a line's quantity; zero or negative removes the
// line. Unknown products are a no-op.
func (c *Cart) UpdateQuantity(productID primitive.ObjectID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) RemoveItem(productID primitive.ObjectID) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// ApplyCoupon copies the matched rule onto the cart, replacing any prior
// coupon. The stored copy stays fixed even if the table changes later.
func (c *Cart) ApplyCoupon(code string, table coupon.Table) error {
	rule, ok := table.Lookup(code)
	if !ok {
		return ErrInvalidCoupon
	}
	c.AppliedCoupon = &AppliedCoupon{
		Code:     strings.ToUpper(code),
		Discount: rule.Discount,
		Type:     rule.Type,
	}
	return nil
}

func (c *Cart) RemoveCoupon() {
	c.AppliedCoupon = nil
}

func (c *Cart) Clear() {
	c.Items = nil
	c.AppliedCoupon = nil
}

func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Discount returns the coupon reduction. A fixed discount is not capped at
// the subtotal, so totals can go negative; that matches the storefront
// rules as shipped.
func (c *Cart) Discount() float64 {
	if c.AppliedCoupon == nil {
		return 0
	}
	if c.AppliedCoupon.Type == coupon.TypePercent {
		return c.Subtotal() * c.AppliedCoupon.Discount / 100
	}
	return c.AppliedCoupon.Discount
}

func (c *Cart) Tax() float64 {
	return (c.Subtotal() - c.Discount()) * TaxRate
}

func (c *Cart) Total() float64 {
	subtotal := c.Subtotal()
	discount := c.Discount()
	return subtotal - discount + (subtotal-discount)*TaxRate
}
