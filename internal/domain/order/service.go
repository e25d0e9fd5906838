package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sahil13082003/ecommerce-api/internal/domain/address"
	"github.com/sahil13082003/ecommerce-api/internal/domain/auth"
	"github.com/sahil13082003/ecommerce-api/internal/domain/cart"
	"github.com/sahil13082003/ecommerce-api/internal/domain/catalog"
	"github.com/sahil13082003/ecommerce-api/internal/domain/coupon"
)

// Service coordinates the checkout transaction and the order status
// lifecycle.
type Service struct {
	carts     cart.Repository
	catalog   catalog.Repository
	addresses address.Repository
	coupons   *coupon.Evaluator
	orders    Repository
}

// NewService creates an order Service with the required collaborators.
func NewService(
	carts cart.Repository,
	cat catalog.Repository,
	addresses address.Repository,
	coupons *coupon.Evaluator,
	orders Repository,
) *Service {
	return &Service{
		carts:     carts,
		catalog:   cat,
		addresses: addresses,
		coupons:   coupons,
		orders:    orders,
	}
}

// CreateOrder runs the checkout: it reads the actor's cart, verifies address
// ownership, prices the lines with the coupon applied leniently, and hands
// the storage layer a fully built order together with the stock reservations
// and the cart to clear. Steps after validation commit or roll back as one
// unit; there is no observable intermediate state.
func (s *Service) CreateOrder(ctx context.Context, actor auth.Actor, addressID, couponCode string) (*Order, error) {
	c, err := s.carts.GetByUser(ctx, actor.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(c.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	if _, err := s.addresses.GetForUser(ctx, addressID, actor.UserID); err != nil {
		if errors.Is(err, address.ErrNotFound) {
			return nil, address.ErrNotFound
		}
		return nil, errors.Wrap(err, "check address")
	}

	// Batch fetch the variants to snapshot their current prices.
	ids := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		ids[i] = l.VariantID
	}
	variants, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get variants")
	}
	byID := make(map[string]catalog.Variant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}

	lines := make([]Line, len(c.Lines))
	reservations := make([]catalog.Reservation, len(c.Lines))
	for i, l := range c.Lines {
		v, ok := byID[l.VariantID]
		if !ok {
			return nil, errors.Wrapf(catalog.ErrNotFound, "variant %s", l.VariantID)
		}
		lines[i] = Line{
			ID:        uuid.NewString(),
			VariantID: v.ID,
			Quantity:  l.Quantity,
			UnitPrice: v.Price,
		}
		reservations[i] = catalog.Reservation{VariantID: v.ID, Quantity: l.Quantity}
	}

	subtotal := Subtotal(lines)
	discount := decimal.Zero
	if couponCode != "" {
		discount, err = s.coupons.Quote(ctx, couponCode, subtotal)
		if err != nil {
			return nil, errors.Wrap(err, "quote coupon")
		}
	}
	q := Price(subtotal, discount)

	o := &Order{
		ID:            uuid.NewString(),
		UserID:        actor.UserID,
		AddressID:     addressID,
		CouponCode:    couponCode,
		Total:         q.Total,
		Discount:      q.Discount,
		GrandTotal:    q.GrandTotal,
		PaymentStatus: PaymentPending,
		Status:        StatusPending,
		Lines:         lines,
	}

	if err := s.orders.CreateCheckout(ctx, o, c.ID, reservations); err != nil {
		var ise *catalog.InsufficientStockError
		if errors.As(err, &ise) {
			return nil, ise
		}
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// Approve transitions a PENDING order to APPROVED, stamping the approver and
// notifying the owner. Approving from any other state returns
// ErrAlreadyApproved; the conditional update in storage makes concurrent
// approvals settle on exactly one winner.
func (s *Service) Approve(ctx context.Context, actor auth.Actor, orderID string) (*Order, error) {
	title := "Order Approved"
	message := fmt.Sprintf("Your order #%s has been approved.", orderID)
	o, err := s.orders.Approve(ctx, orderID, actor.UserID, title, message)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// SetStatus drives a state-machine checked status transition, used by staff
// for SHIPPED/DELIVERED progress and for cancellation.
func (s *Service) SetStatus(ctx context.Context, orderID string, to Status) (*Order, error) {
	if !ValidStatus(to) {
		return nil, &InvalidTransitionError{To: to}
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, to) {
		return nil, &InvalidTransitionError{From: o.Status, To: to}
	}
	if err := s.orders.SetStatus(ctx, orderID, o.Status, to); err != nil {
		return nil, err
	}
	o.Status = to
	return o, nil
}

// Get returns an order visible to the actor: its own, or any order when the
// actor can view all.
func (s *Service) Get(ctx context.Context, actor auth.Actor, orderID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != actor.UserID && !actor.Can(auth.CapViewAllOrders) {
		return nil, ErrNotFound
	}
	return o, nil
}

// List returns the actor's orders, or every order for staff actors.
func (s *Service) List(ctx context.Context, actor auth.Actor) ([]Order, error) {
	if actor.Can(auth.CapViewAllOrders) {
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByUser(ctx, actor.UserID)
}
