package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WishlistItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"productId"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}

type Wishlist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user"          json:"userId"`
	Items     []WishlistItem     `bson:"items"         json:"items"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

// Add appends the product with the current timestamp, rejecting products
// already on the list.
func (w *Wishlist) Add(productID primitive.ObjectID) error {
	for _, item := range w.Items {
		if item.ProductID == productID {
			return ErrDuplicate
		}
	}
	w.Items = append(w.Items, WishlistItem{ProductID: productID, AddedAt: time.Now()})
	return nil
}

// Remove filters out the product; absent products are a no-op.
func (w *Wishlist) Remove(productID primitive.ObjectID) {
	kept := w.Items[:0]
	for _, item := range w.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	w.Items = kept
}

// Dedupe collapses accidental duplicates keeping the first occurrence. It
// runs before every persist in case concurrent adds slipped past Add.
func (w *Wishlist) Dedupe() {
	seen := make(map[primitive.ObjectID]struct{}, len(w.Items))
	kept := w.Items[:0]
	for _, item := range w.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		kept = append(kept, item)
	}
	w.Items = kept
}
