// Package order implements the checkout core: pricing, the order status
// state machine, and the transaction coordinator that turns a mutable cart
// into an immutable order.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sahil13082003/ecommerce-api/internal/domain/catalog"
)

var (
	// ErrNotFound is returned for unknown order ids, and for orders the
	// caller is not allowed to see.
	ErrNotFound = errors.New("order not found")
	// ErrEmptyCart is returned when checkout is attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAlreadyApproved is returned when approving an order that has left
	// the PENDING state.
	ErrAlreadyApproved = errors.New("order already approved")
)

// InvalidTransitionError indicates a status change the state machine forbids.
type InvalidTransitionError struct {
	From, To Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}

// PaymentStatus is the payment axis, independent of the order status.
// It is recorded but not driven by this core.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Order is an immutable record of a completed purchase. Only its status
// fields change after creation.
type Order struct {
	ID            string
	UserID        string
	AddressID     string
	CouponCode    string
	Total         decimal.Decimal
	Discount      decimal.Decimal
	GrandTotal    decimal.Decimal
	PaymentStatus PaymentStatus
	Status        Status
	ApprovedBy    string
	Lines         []Line
	CreatedAt     time.Time
}

// Line is an order line item frozen at purchase time. UnitPrice is copied
// from the variant when the order is created and never re-read, so later
// price changes cannot alter historical orders.
type Line struct {
	ID        string
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Repository defines persistence for orders. CreateCheckout is the single
// write path that may decrement variant stock.
type Repository interface {
	// CreateCheckout persists the order and its lines, applies the stock
	// reservations, and clears the originating cart's lines, all in one
	// transaction. A failed reservation surfaces as
	// *catalog.InsufficientStockError and leaves every table untouched.
	CreateCheckout(ctx context.Context, o *Order, cartID string, reservations []catalog.Reservation) error

	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)

	// Approve flips a PENDING order to APPROVED, records the approver, and
	// writes the owner's notification in the same transaction. It returns
	// ErrAlreadyApproved when the order is in any other state.
	Approve(ctx context.Context, orderID, approverID, noteTitle, noteMessage string) (*Order, error)

	// SetStatus performs a conditional status update, succeeding only when
	// the stored status still equals from.
	SetStatus(ctx context.Context, orderID string, from, to Status) error
}
