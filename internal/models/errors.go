package models

import "errors"

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidCoupon     = errors.New("invalid coupon code")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidState      = errors.New("invalid order status transition")
	ErrDuplicate         = errors.New("product already in wishlist")
	ErrNotFound          = errors.New("not found")
)
