package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greenharvest/shop/internal/logging"
	"github.com/greenharvest/shop/internal/models"
	"github.com/greenharvest/shop/internal/mykafka"
)

type OrderHandler struct {
	Orders   OrderStore
	Carts    CartStore
	Products ProductStore
	Producer *mykafka.Producer
	Env      string
}

func (h *OrderHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// CreateOrder materializes the user's cart into an order. Stock is taken
// with atomic per-product decrements; if any line cannot be covered, the
// decrements already taken are rolled back, the order is marked cancelled
// with a failed payment and the checkout fails, so a partial checkout
// never leaves understocked inventory behind.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_create")
	userID := currentUserID(c)

	var req struct {
		ShippingAddress models.ShippingAddress `json:"shippingAddress"`
		PaymentMethod   string                 `json:"paymentMethod"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCOD
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return fail(c, http.StatusBadRequest, "invalid payment method")
	}

	cart, err := h.Carts.FindOrCreate(ctx, userID)
	if err != nil {
		return failInternal(c, h.Env, "error creating order", err)
	}
	if len(cart.Items) == 0 {
		l.Warn("checkout_failed", "status", 400, "reason", "empty_cart")
		return fail(c, http.StatusBadRequest, models.ErrEmptyCart.Error())
	}

	// Snapshot each line: name and image come from the product as it is
	// now, price and quantity from the cart line as captured at add time.
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := h.Products.FindByID(ctx, line.ProductID)
		if errors.Is(err, models.ErrNotFound) {
			return fail(c, http.StatusBadRequest, "product no longer available")
		}
		if err != nil {
			return failInternal(c, h.Env, "error creating order", err)
		}
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Image:     product.Image,
		})
	}

	order := models.Order{
		UserID:            userID,
		Items:             items,
		Subtotal:          cart.Subtotal(),
		Discount:          cart.Discount(),
		Tax:               cart.Tax(),
		Total:             cart.Total(),
		Status:            models.StatusPending,
		ShippingAddress:   req.ShippingAddress,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     models.PaymentPending,
		EstimatedDelivery: time.Now().Add(5 * 24 * time.Hour),
	}
	if cart.AppliedCoupon != nil {
		order.CouponCode = cart.AppliedCoupon.Code
	}
	if err := h.Orders.Create(ctx, &order); err != nil {
		l.Error("checkout_failed", "status", 500, "error", err)
		return failInternal(c, h.Env, "error creating order", err)
	}

	// Take stock line by line; compensate on the first failure.
	taken := make([]models.CartItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		if err := h.Products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			for _, t := range taken {
				if _, incErr := h.Products.IncrementStock(ctx, t.ProductID, t.Quantity); incErr != nil {
					l.Error("stock_compensation_failed", "productID", t.ProductID.Hex(), "error", incErr)
				}
			}
			if stErr := h.Orders.UpdateStatus(ctx, order.ID, models.StatusCancelled, models.PaymentFailed); stErr != nil {
				l.Error("order_cancel_failed", "orderID", order.ID.Hex(), "error", stErr)
			}
			if errors.Is(err, models.ErrInsufficientStock) {
				l.Warn("checkout_failed", "status", 409, "reason", "insufficient_stock", "productID", line.ProductID.Hex())
				return fail(c, http.StatusConflict, models.ErrInsufficientStock.Error())
			}
			l.Error("checkout_failed", "status", 500, "error", err)
			return failInternal(c, h.Env, "error creating order", err)
		}
		taken = append(taken, line)
	}

	cart.Clear()
	if err := h.Carts.Save(ctx, cart); err != nil {
		// The order stands; an unemptied cart is recoverable.
		l.Error("cart_clear_failed", "orderID", order.ID.Hex(), "error", err)
	}

	h.publish(c, userID.Hex(), map[string]any{
		"type":    "order_created",
		"userID":  userID.Hex(),
		"orderID": order.ID.Hex(),
		"total":   order.Total,
	})

	l.Info("checkout_success", "status", 201, "orderID", order.ID.Hex())
	return respond(c, http.StatusCreated, "Order placed successfully", order)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.Orders.FindByUser(ctx, currentUserID(c))
	if err != nil {
		return failInternal(c, h.Env, "error fetching orders", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Orders.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return fail(c, http.StatusNotFound, "order not found")
	}
	if err != nil {
		return failInternal(c, h.Env, "error fetching order", err)
	}

	if order.UserID != currentUserID(c) && currentRole(c) != models.RoleAdmin {
		return fail(c, http.StatusForbidden, "not authorized to view this order")
	}
	return respond(c, http.StatusOK, "OK", order)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_cancel")

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Orders.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return fail(c, http.StatusNotFound, "order not found")
	}
	if err != nil {
		return failInternal(c, h.Env, "error cancelling order", err)
	}

	if order.UserID != currentUserID(c) {
		return fail(c, http.StatusForbidden, "not authorized to cancel this order")
	}

	if err := order.Cancel(); err != nil {
		l.Warn("cancel_failed", "status", 400, "orderID", id.Hex(), "orderStatus", order.Status)
		return fail(c, http.StatusBadRequest, "cannot cancel delivered order")
	}
	if err := h.Orders.UpdateStatus(ctx, order.ID, order.Status, ""); err != nil {
		return failInternal(c, h.Env, "error cancelling order", err)
	}

	h.publish(c, order.UserID.Hex(), map[string]any{
		"type":    "order_cancelled",
		"userID":  order.UserID.Hex(),
		"orderID": order.ID.Hex(),
	})

	return respond(c, http.StatusOK, "Order cancelled successfully", order)
}

// UpdateOrderStatus lets an admin walk an order through the fulfilment
// pipeline. Delivered and cancelled go through the guarded transitions;
// a delivered order cannot be cancelled and a cancelled order cannot be
// delivered.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_update_status")

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Orders.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return fail(c, http.StatusNotFound, "order not found")
	}
	if err != nil {
		return failInternal(c, h.Env, "error updating order", err)
	}

	switch req.Status {
	case models.StatusProcessing, models.StatusShipped:
		if order.Status == models.StatusDelivered || order.Status == models.StatusCancelled {
			return fail(c, http.StatusBadRequest, models.ErrInvalidState.Error())
		}
		order.Status = req.Status
	case models.StatusDelivered:
		if err := order.MarkDelivered(); err != nil {
			l.Warn("status_update_failed", "status", 400, "orderID", id.Hex(), "target", req.Status)
			return fail(c, http.StatusBadRequest, models.ErrInvalidState.Error())
		}
	case models.StatusCancelled:
		if err := order.Cancel(); err != nil {
			l.Warn("status_update_failed", "status", 400, "orderID", id.Hex(), "target", req.Status)
			return fail(c, http.StatusBadRequest, models.ErrInvalidState.Error())
		}
	default:
		return fail(c, http.StatusBadRequest, "invalid order status")
	}

	if err := h.Orders.UpdateStatus(ctx, order.ID, order.Status, ""); err != nil {
		return failInternal(c, h.Env, "error updating order", err)
	}

	h.publish(c, order.UserID.Hex(), map[string]any{
		"type":    "order_status_updated",
		"userID":  order.UserID.Hex(),
		"orderID": order.ID.Hex(),
		"status":  order.Status,
	})

	return respond(c, http.StatusOK, "Order status updated", order)
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.Orders.FindAll(ctx)
	if err != nil {
		return failInternal(c, h.Env, "error fetching orders", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}
