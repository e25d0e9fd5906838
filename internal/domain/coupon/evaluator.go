package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Evaluator computes the discount a coupon code grants for a given cart
// subtotal. It backs two call paths: the strict Validate used by the
// standalone validation endpoint, and the lenient Quote used during
// checkout, where an unusable coupon degrades to a zero discount instead of
// blocking the purchase.
type Evaluator struct {
	repo Repository
	now  func() time.Time
}

// NewEvaluator creates an Evaluator backed by the given Repository.
func NewEvaluator(repo Repository) *Evaluator {
	return &Evaluator{repo: repo, now: time.Now}
}

// Validate is the strict path. It returns the coupon and the discount it
// grants for the subtotal, or ErrNotFound, ErrExpired, or ErrBelowMinimum.
func (e *Evaluator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*Coupon, decimal.Decimal, error) {
	c, err := e.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, decimal.Zero, ErrNotFound
		}
		return nil, decimal.Zero, errors.Wrap(err, "lookup coupon")
	}

	if e.now().After(c.ExpiresAt) {
		return nil, decimal.Zero, ErrExpired
	}
	if subtotal.LessThan(c.MinAmount) {
		return nil, decimal.Zero, ErrBelowMinimum
	}

	return c, Discount(c, subtotal), nil
}

// Quote is the lenient checkout path: any coupon-level failure (unknown
// code, expired, below minimum spend) yields a zero discount and no error.
// Infrastructure failures still propagate so checkout does not silently
// drop a discount the customer was entitled to.
func (e *Evaluator) Quote(ctx context.Context, code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	_, discount, err := e.Validate(ctx, code, subtotal)
	switch {
	case err == nil:
		return discount, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrExpired), errors.Is(err, ErrBelowMinimum):
		return decimal.Zero, nil
	default:
		return decimal.Zero, err
	}
}

// Discount computes the raw discount a coupon grants for a subtotal.
// FIXED discounts are clamped to the subtotal so a large coupon can never
// drive the grand total negative. Results are rounded to 2 decimal places.
func Discount(c *Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch c.Type {
	case TypePercent:
		amount = subtotal.Mul(c.Value).Div(hundred)
	case TypeFixed:
		amount = decimal.Min(c.Value, subtotal)
	default:
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Round(2)
}
