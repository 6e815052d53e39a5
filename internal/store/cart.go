package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greenharvest/shop/internal/models"
)

type CartStore struct {
	col *mongo.Collection
}

// FindOrCreate returns the user's cart, creating an empty one on first
// use. Carts are lazy: they appear on the first read or write and are
// never deleted afterwards, only emptied.
func (s *CartStore) FindOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now()
	cart = models.Cart{UserID: userID, Items: []models.CartItem{}, CreatedAt: now, UpdatedAt: now}
	res, err := s.col.InsertOne(ctx, cart)
	if err != nil {
		return nil, err
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return &cart, nil
}

// Save upserts the cart's items and coupon keyed by user.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	update := bson.M{
		"items":     cart.Items,
		"updatedAt": cart.UpdatedAt,
	}
	if cart.AppliedCoupon != nil {
		update["appliedCoupon"] = cart.AppliedCoupon
	}
	ops := bson.M{"$set": update}
	if cart.AppliedCoupon == nil {
		ops["$unset"] = bson.M{"appliedCoupon": ""}
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"user": cart.UserID}, ops, options.Update().SetUpsert(true))
	return err
}
