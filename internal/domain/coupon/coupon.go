package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Type enumerates the supported coupon discount strategies.
type Type string

const (
	// TypePercent discounts a percentage of the cart subtotal.
	TypePercent Type = "PERCENT"
	// TypeFixed discounts a fixed amount, capped at the subtotal.
	TypeFixed Type = "FIXED"
)

var (
	// ErrNotFound is returned when a coupon code does not exist.
	ErrNotFound = errors.New("coupon not found")
	// ErrExpired is returned when a coupon is past its expiry timestamp.
	ErrExpired = errors.New("coupon expired")
	// ErrBelowMinimum is returned when the cart subtotal does not reach the
	// coupon's minimum spend.
	ErrBelowMinimum = errors.New("cart subtotal below coupon minimum")
)

// Coupon is a discount code with its eligibility constraints.
type Coupon struct {
	Code       string
	Type       Type
	Value      decimal.Decimal
	MinAmount  decimal.Decimal
	ExpiresAt  time.Time
	UsageLimit int
}

// Repository provides lookup of coupons by their code.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
}
