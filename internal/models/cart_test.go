package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greenharvest/shop/internal/coupon"
)

func TestAddItemMergesQuantities(t *testing.T) {
	cart := &Cart{}
	productID := primitive.NewObjectID()

	require.NoError(t, cart.AddItem(productID, 2, 100))
	require.NoError(t, cart.AddItem(productID, 3, 100))

	require.Len(t, cart.Items, 1)
	require.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	cart := &Cart{}

	err := cart.AddItem(primitive.NewObjectID(), 0, 100)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	require.Empty(t, cart.Items)
}

func TestAddItemKeepsPriceSnapshot(t *testing.T) {
	cart := &Cart{}
	productID := primitive.NewObjectID()

	require.NoError(t, cart.AddItem(productID, 1, 80))
	// A later add at a different price merges quantity but the stored
	// snapshot stays at the original price.
	require.NoError(t, cart.AddItem(productID, 1, 120))

	require.Len(t, cart.Items, 1)
	require.Equal(t, float64(80), cart.Items[0].Price)
}

func TestUpdateQuantityOverwrites(t *testing.T) {
	cart := &Cart{}
	productID := primitive.NewObjectID()
	require.NoError(t, cart.AddItem(productID, 2, 50))

	cart.UpdateQuantity(productID, 7)

	require.Equal(t, 7, cart.Items[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	cart := &Cart{}
	productID := primitive.NewObjectID()
	require.NoError(t, cart.AddItem(productID, 2, 50))

	cart.UpdateQuantity(productID, 0)
	require.Empty(t, cart.Items)

	require.NoError(t, cart.AddItem(productID, 2, 50))
	cart.UpdateQuantity(productID, -1)
	require.Empty(t, cart.Items)
}

func TestUpdateQuantityUnknownProductNoop(t *testing.T) {
	cart := &Cart{}
	require.NoError(t, cart.AddItem(primitive.NewObjectID(), 2, 50))

	cart.UpdateQuantity(primitive.NewObjectID(), 9)

	require.Len(t, cart.Items, 1)
	require.Equal(t, 2, cart.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	cart := &Cart{}
	keep := primitive.NewObjectID()
	drop := primitive.NewObjectID()
	require.NoError(t, cart.AddItem(keep, 1, 10))
	require.NoError(t, cart.AddItem(drop, 1, 20))

	cart.RemoveItem(drop)

	require.Len(t, cart.Items, 1)
	require.Equal(t, keep, cart.Items[0].ProductID)

	// absent product is a no-op
	cart.RemoveItem(drop)
	require.Len(t, cart.Items, 1)
}

func TestApplyCouponUnknownCode(t *testing.T) {
	cart := &Cart{}
	table := coupon.Default()

	require.NoError(t, cart.ApplyCoupon("WELCOME10", table))
	applied := *cart.AppliedCoupon

	err := cart.ApplyCoupon("BOGUS", table)
	require.ErrorIs(t, err, ErrInvalidCoupon)
	require.Equal(t, applied, *cart.AppliedCoupon, "failed apply must not touch the coupon")
}

func TestApplyCouponStoresValueCopy(t *testing.T) {
	cart := &Cart{}
	table := coupon.Table{"FLASH5": {Discount: 5, Type: coupon.TypeFixed}}

	require.NoError(t, cart.ApplyCoupon("flash5", table))
	require.Equal(t, "FLASH5", cart.AppliedCoupon.Code)

	// mutating the table later must not affect the applied copy
	table["FLASH5"] = coupon.Rule{Discount: 50, Type: coupon.TypeFixed}
	require.Equal(t, float64(5), cart.AppliedCoupon.Discount)
}

func TestApplyCouponReplacesPrior(t *testing.T) {
	cart := &Cart{}
	table := coupon.Default()

	require.NoError(t, cart.ApplyCoupon("FIRST50", table))
	require.NoError(t, cart.ApplyCoupon("ORGANIC20", table))

	require.Equal(t, "ORGANIC20", cart.AppliedCoupon.Code)
}

func TestClearEmptiesItemsAndCoupon(t *testing.T) {
	cart := &Cart{}
	require.NoError(t, cart.AddItem(primitive.NewObjectID(), 2, 50))
	require.NoError(t, cart.ApplyCoupon("WELCOME10", coupon.Default()))

	cart.Clear()

	require.Empty(t, cart.Items)
	require.Nil(t, cart.AppliedCoupon)
}

func TestTotalsPercentCoupon(t *testing.T) {
	// cart = [{qty 2, price 100}], ORGANIC20 (20%):
	// subtotal=200, discount=40, tax=(200-40)*0.05=8, total=168
	cart := &Cart{}
	require.NoError(t, cart.AddItem(primitive.NewObjectID(), 2, 100))
	require.NoError(t, cart.ApplyCoupon("ORGANIC20", coupon.Default()))

	require.InDelta(t, 200, cart.Subtotal(), 1e-9)
	require.InDelta(t, 40, cart.Discount(), 1e-9)
	require.InDelta(t, 8, cart.Tax(), 1e-9)
	require.InDelta(t, 168, cart.Total(), 1e-9)
}

func TestTotalsFixedCouponCanGoNegative(t *testing.T) {
	// A fixed discount larger than the subtotal is not clamped; the
	// total goes negative. Documented storefront behavior.
	cart := &Cart{}
	require.NoError(t, cart.AddItem(primitive.NewObjectID(), 1, 50))
	require.NoError(t, cart.ApplyCoupon("SAVE100", coupon.Default()))

	require.InDelta(t, 50, cart.Subtotal(), 1e-9)
	require.InDelta(t, 100, cart.Discount(), 1e-9)
	require.InDelta(t, -52.5, cart.Total(), 1e-9)
}

func TestTotalIdentity(t *testing.T) {
	carts := []*Cart{
		{},
		{Items: []CartItem{{ProductID: primitive.NewObjectID(), Quantity: 3, Price: 19.99}}},
		{
			Items: []CartItem{
				{ProductID: primitive.NewObjectID(), Quantity: 1, Price: 250},
				{ProductID: primitive.NewObjectID(), Quantity: 4, Price: 12.5},
			},
			AppliedCoupon: &AppliedCoupon{Code: "WELCOME10", Discount: 10, Type: coupon.TypePercent},
		},
		{
			Items:         []CartItem{{ProductID: primitive.NewObjectID(), Quantity: 2, Price: 60}},
			AppliedCoupon: &AppliedCoupon{Code: "FIRST50", Discount: 50, Type: coupon.TypeFixed},
		},
	}

	for _, cart := range carts {
		expected := cart.Subtotal() - cart.Discount() + (cart.Subtotal()-cart.Discount())*0.05
		require.InDelta(t, expected, cart.Total(), 1e-9)
	}
}

func TestDiscountWithoutCoupon(t *testing.T) {
	cart := &Cart{}
	require.NoError(t, cart.AddItem(primitive.NewObjectID(), 2, 100))

	require.Zero(t, cart.Discount())
	require.InDelta(t, 210, cart.Total(), 1e-9)
}
