package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store bundles the per-collection stores over one database handle.
type Store struct {
	client *mongo.Client

	Users     *UserStore
	Products  *ProductStore
	Carts     *CartStore
	Orders    *OrderStore
	Wishlists *WishlistStore
}

// Connect dials MongoDB, pings it and wires up the collection stores.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	return &Store{
		client:    client,
		Users:     &UserStore{col: db.Collection("users")},
		Products:  &ProductStore{col: db.Collection("products")},
		Carts:     &CartStore{col: db.Collection("carts")},
		Orders:    &OrderStore{col: db.Collection("orders")},
		Wishlists: &WishlistStore{col: db.Collection("wishlists")},
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
