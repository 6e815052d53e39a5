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

type WishlistStore struct {
	col *mongo.Collection
}

// FindOrCreate returns the user's wishlist, creating an empty one on
// first use.
func (s *WishlistStore) FindOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := s.col.FindOne(ctx, bson.M{"user": userID}).Decode(&wishlist)
	if err == nil {
		return &wishlist, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now()
	wishlist = models.Wishlist{UserID: userID, Items: []models.WishlistItem{}, CreatedAt: now, UpdatedAt: now}
	res, err := s.col.InsertOne(ctx, wishlist)
	if err != nil {
		return nil, err
	}
	wishlist.ID = res.InsertedID.(primitive.ObjectID)
	return &wishlist, nil
}

// Save upserts the wishlist items keyed by user. Dedupe runs first so a
// racing pair of adds cannot leave duplicates behind.
func (s *WishlistStore) Save(ctx context.Context, wishlist *models.Wishlist) error {
	wishlist.Dedupe()
	wishlist.UpdatedAt = time.Now()
	_, err := s.col.UpdateOne(ctx,
		bson.M{"user": wishlist.UserID},
		bson.M{"$set": bson.M{"items": wishlist.Items, "updatedAt": wishlist.UpdatedAt}},
		options.Update().SetUpsert(true),
	)
	return err
}
