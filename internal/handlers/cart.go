package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greenharvest/shop/internal/coupon"
	"github.com/greenharvest/shop/internal/logging"
	"github.com/greenharvest/shop/internal/models"
	"github.com/greenharvest/shop/internal/mykafka"
)

type CartHandler struct {
	Carts    CartStore
	Products ProductStore
	Coupons  coupon.Table
	Producer *mykafka.Producer
	Env      string
}

func (h *CartHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func cartSummary(cart *models.Cart) echo.Map {
	return echo.Map{
		"subtotal": cart.Subtotal(),
		"discount": cart.Discount(),
		"tax":      cart.Tax(),
		"total":    cart.Total(),
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	cart, err := h.Carts.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error fetching cart", err)
	}

	return respond(c, http.StatusOK, "OK", echo.Map{
		"cart":    cart,
		"summary": cartSummary(cart),
	})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_add")
	userID := currentUserID(c)

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" {
		return fail(c, http.StatusBadRequest, "please provide product ID")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		return fail(c, http.StatusBadRequest, models.ErrInvalidQuantity.Error())
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Products.FindByID(ctx, productID)
	if errors.Is(err, models.ErrNotFound) {
		return fail(c, http.StatusNotFound, "product not found")
	}
	if err != nil {
		return failInternal(c, h.Env, "error adding item to cart", err)
	}
	if product.Stock < req.Quantity {
		l.Warn("add_failed", "status", 400, "reason", "insufficient_stock", "productID", req.ProductID)
		return fail(c, http.StatusBadRequest, fmt.Sprintf("Only %d items available in stock", product.Stock))
	}

	cart, err := h.Carts.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error adding item to cart", err)
	}

	for _, item := range cart.Items {
		if item.ProductID == productID && item.Quantity+req.Quantity > models.MaxItemQuantity {
			return fail(c, http.StatusBadRequest, fmt.Sprintf("Quantity cannot exceed %d", models.MaxItemQuantity))
		}
	}
	if req.Quantity > models.MaxItemQuantity {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("Quantity cannot exceed %d", models.MaxItemQuantity))
	}

	if err := cart.AddItem(productID, req.Quantity, product.Price); err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.Carts.Save(ctx, cart); err != nil {
		return failInternal(c, h.Env, "error adding item to cart", err)
	}

	h.publish(c, userID.Hex(), map[string]any{
		"type":      "cart_item_added",
		"userID":    userID.Hex(),
		"productID": req.ProductID,
		"quantity":  req.Quantity,
	})

	return respond(c, http.StatusOK, "Item added to cart", cart)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	var req struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" || req.Quantity == nil {
		return fail(c, http.StatusBadRequest, "please provide product ID and quantity")
	}
	if *req.Quantity > models.MaxItemQuantity {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("Quantity cannot exceed %d", models.MaxItemQuantity))
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	cart, err := h.Carts.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error updating cart", err)
	}

	cart.UpdateQuantity(productID, *req.Quantity)
	if err := h.Carts.Save(ctx, cart); err != nil {
		return failInternal(c, h.Env, "error updating cart", err)
	}

	h.publish(c, userID.Hex(), map[string]any{
		"type":      "cart_item_updated",
		"userID":    userID.Hex(),
		"productID": req.ProductID,
		"quantity":  *req.Quantity,
	})

	return respond(c, http.StatusOK, "Cart updated", cart)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	cart, err := h.Carts.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error removing item from cart", err)
	}

	cart.RemoveItem(productID)
	if err := h.Carts.Save(ctx, cart); err != nil {
		return failInternal(c, h.Env, "error removing item from cart", err)
	}

	h.publish(c, userID.Hex(), map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID.Hex(),
		"productID": c.Param("productId"),
	})

	return respond(c, http.StatusOK, "Item removed from cart", cart)
}

func (h *CartHandler) ApplyCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_apply_coupon")
	userID := currentUserID(c)

	var req struct {
		CouponCode string `json:"couponCode"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.CouponCode == "" {
		return fail(c, http.StatusBadRequest, "please provide coupon code")
	}

	cart, err := h.Carts.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error applying coupon", err)
	}

	if err := cart.ApplyCoupon(req.CouponCode, h.Coupons); err != nil {
		l.Warn("apply_coupon_failed", "status", 400, "code", req.CouponCode)
		return fail(c, http.StatusBadRequest, "Invalid coupon code")
	}
	if err := h.Carts.Save(ctx, cart); err != nil {
		return failInternal(c, h.Env, "error applying coupon", err)
	}

	h.publish(c, userID.Hex(), map[string]any{
		"type":   "coupon_applied",
		"userID": userID.Hex(),
		"code":   cart.AppliedCoupon.Code,
	})

	return respond(c, http.StatusOK, "Coupon applied successfully", echo.Map{
		"cart":    cart,
		"summary": cartSummary(cart),
	})
}

func (h *CartHandler) RemoveCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	cart, err := h.Carts.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error removing coupon", err)
	}

	cart.RemoveCoupon()
	if err := h.Carts.Save(ctx, cart); err != nil {
		return failInternal(c, h.Env, "error removing coupon", err)
	}

	return respond(c, http.StatusOK, "Coupon removed", cart)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	userID := currentUserID(c)

	cart, err := h.Carts.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error clearing cart", err)
	}

	cart.Clear()
	if err := h.Carts.Save(ctx, cart); err != nil {
		return failInternal(c, h.Env, "error clearing cart", err)
	}

	h.publish(c, userID.Hex(), map[string]any{
		"type":   "cart_cleared",
		"userID": userID.Hex(),
	})

	return respond(c, http.StatusOK, "Cart cleared", cart)
}
