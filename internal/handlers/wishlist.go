package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greenharvest/shop/internal/models"
	"github.com/greenharvest/shop/internal/mykafka"
)

type WishlistHandler struct {
	Wishlists WishlistStore
	Products  ProductStore
	Producer  *mykafka.Producer
	Env       string
}

func (h *WishlistHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "wishlist_events", key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()

	wishlist, err := h.Wishlists.FindOrCreate(ctx, currentUserID(c))
	if err != nil {
		return failInternal(c, h.Env, "error fetching wishlist", err)
	}
	return respond(c, http.StatusOK, "OK", wishlist)
}

func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" {
		return fail(c, http.StatusBadRequest, "product ID is required")
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	if _, err := h.Products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fail(c, http.StatusNotFound, "product not found")
		}
		return failInternal(c, h.Env, "error adding to wishlist", err)
	}

	wishlist, err := h.Wishlists.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error adding to wishlist", err)
	}

	if err := wishlist.Add(productID); err != nil {
		return fail(c, http.StatusBadRequest, "product already in wishlist")
	}
	if err := h.Wishlists.Save(ctx, wishlist); err != nil {
		return failInternal(c, h.Env, "error adding to wishlist", err)
	}

	h.publish(c, userID.Hex(), map[string]any{
		"type":      "wishlist_item_added",
		"userID":    userID.Hex(),
		"productID": req.ProductID,
	})

	return respond(c, http.StatusOK, "Product added to wishlist", wishlist)
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	wishlist, err := h.Wishlists.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error removing from wishlist", err)
	}

	wishlist.Remove(productID)
	if err := h.Wishlists.Save(ctx, wishlist); err != nil {
		return failInternal(c, h.Env, "error removing from wishlist", err)
	}

	return respond(c, http.StatusOK, "Product removed from wishlist", wishlist)
}

func (h *WishlistHandler) ClearWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	wishlist, err := h.Wishlists.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error clearing wishlist", err)
	}

	wishlist.Items = []models.WishlistItem{}
	if err := h.Wishlists.Save(ctx, wishlist); err != nil {
		return failInternal(c, h.Env, "error clearing wishlist", err)
	}

	return respond(c, http.StatusOK, "Wishlist cleared", wishlist)
}
