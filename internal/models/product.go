package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories accepted for products.
var Categories = []string{
	"vegetables", "fruits", "nuts", "honey", "grains",
	"dairy", "herbs", "oils", "beverages",
}

const DefaultDescription = "100% organic, farm-fresh product. Sourced directly from local farmers. No pesticides, no chemicals. Pure natural goodness."

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name"          json:"name"`
	Category    string             `bson:"category"      json:"category"`
	Price       float64            `bson:"price"         json:"price"`
	Image       string             `bson:"image"         json:"image"`
	Description string             `bson:"description"   json:"description"`
	Rating      float64            `bson:"rating"        json:"rating"`
	Reviews     int                `bson:"reviews"       json:"reviews"`
	Stock       int                `bson:"stock"         json:"stock"`
	IsNew       bool               `bson:"isNew"         json:"isNew"`
	IsActive    bool               `bson:"isActive"      json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

// DecreaseStock subtracts quantity when enough stock is on hand and
// reports whether the subtraction happened. The product is untouched on
// failure.
func (p *Product) DecreaseStock(quantity int) bool {
	if p.Stock >= quantity {
		p.Stock -= quantity
		return true
	}
	return false
}

// IncreaseStock adds quantity unconditionally and returns the new level.
func (p *Product) IncreaseStock(quantity int) int {
	p.Stock += quantity
	return p.Stock
}
