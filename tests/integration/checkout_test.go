//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/sahil13082003/ecommerce-api/internal/domain/auth"
	"github.com/sahil13082003/ecommerce-api/internal/domain/catalog"
	"github.com/sahil13082003/ecommerce-api/internal/domain/order"
	"github.com/sahil13082003/ecommerce-api/internal/storage/postgres"
)

var (
	alice = auth.Actor{UserID: "user-alice", Role: auth.RoleUser}
	bob   = auth.Actor{UserID: "user-bob", Role: auth.RoleUser}
	admin = auth.Actor{UserID: "user-admin", Role: auth.RoleAdmin}
)

func fillCart(t *testing.T, userID string, items map[string]int) {
	t.Helper()
	ctx := context.Background()
	carts := postgres.NewCartRepository(pool)
	for variantID, qty := range items {
		_, err := carts.AddLine(ctx, userID, variantID, qty)
		require.NoError(t, err)
	}
}

func TestCheckout_HappyPath(t *testing.T) {
	ctx := context.Background()
	svc := newOrderService()
	fillCart(t, alice.UserID, map[string]int{"v-tee": 2, "v-mug": 1})

	before := variantStock(t, "v-tee")

	o, err := svc.CreateOrder(ctx, alice, "addr-alice", "")
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, order.PaymentPending, o.PaymentStatus)
	assert.Equal(t, "44.99", o.Total.StringFixed(2))
	assert.Equal(t, "44.99", o.GrandTotal.StringFixed(2))
	require.Len(t, o.Lines, 2)

	// Stock was decremented inside the checkout transaction.
	assert.Equal(t, before-2, variantStock(t, "v-tee"))

	// The cart was emptied in the same transaction.
	carts := postgres.NewCartRepository(pool)
	c, err := carts.GetByUser(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	// The stored order reads back with identical numbers.
	stored, err := svc.Get(ctx, alice, o.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(o.Total))
	assert.True(t, stored.GrandTotal.Equal(o.GrandTotal))
	assert.Len(t, stored.Lines, 2)
}

func TestCheckout_CouponApplied(t *testing.T) {
	ctx := context.Background()
	svc := newOrderService()
	fillCart(t, alice.UserID, map[string]int{"v-tee": 2}) // 39.98, above SAVE10 minimum

	o, err := svc.CreateOrder(ctx, alice, "addr-alice", "SAVE10")
	require.NoError(t, err)

	assert.Equal(t, "SAVE10", o.CouponCode)
	assert.Equal(t, "39.98", o.Total.StringFixed(2))
	assert.Equal(t, "4.00", o.Discount.StringFixed(2))
	assert.Equal(t, "35.98", o.GrandTotal.StringFixed(2))
}

func TestCheckout_ExpiredCouponDegrades(t *testing.T) {
	ctx := context.Background()
	svc := newOrderService()
	fillCart(t, alice.UserID, map[string]int{"v-mug": 1})

	o, err := svc.CreateOrder(ctx, alice, "addr-alice", "STALE")
	require.NoError(t, err)

	// Checkout proceeds at full price; the expired coupon grants nothing.
	assert.True(t, o.Discount.IsZero())
	assert.Equal(t, "5.01", o.GrandTotal.StringFixed(2))
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	svc := newOrderService()
	fillCart(t, bob.UserID, map[string]int{"v-mug": 1, "v-scarce": 5})

	before := variantStock(t, "v-mug")

	_, err := svc.CreateOrder(ctx, bob, "addr-bob", "")

	var ise *catalog.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "v-scarce", ise.VariantID)

	// Nothing committed: the other line's stock is untouched and the cart
	// still holds both lines.
	assert.Equal(t, before, variantStock(t, "v-mug"))
	carts := postgres.NewCartRepository(pool)
	c, err := carts.GetByUser(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Len(t, c.Lines, 2)

	// Clean up for later tests.
	for _, l := range c.Lines {
		require.NoError(t, carts.RemoveLine(ctx, bob.UserID, l.ID))
	}
}

func TestCheckout_LastUnitRace(t *testing.T) {
	ctx := context.Background()
	svc := newOrderService()

	fillCart(t, alice.UserID, map[string]int{"v-short": 2})
	fillCart(t, bob.UserID, map[string]int{"v-short": 2})

	results := make([]error, 2)
	var g errgroup.Group
	g.Go(func() error {
		_, results[0] = svc.CreateOrder(ctx, alice, "addr-alice", "")
		return nil
	})
	g.Go(func() error {
		_, results[1] = svc.CreateOrder(ctx, bob, "addr-bob", "")
		return nil
	})
	require.NoError(t, g.Wait())

	// Two units of stock, two orders of two: exactly one checkout wins.
	var wins, stockErrs int
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		var ise *catalog.InsufficientStockError
		require.ErrorAs(t, err, &ise)
		stockErrs++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, stockErrs)
	assert.Equal(t, 0, variantStock(t, "v-short"))

	// The loser keeps their cart for a retry.
	carts := postgres.NewCartRepository(pool)
	for _, u := range []string{alice.UserID, bob.UserID} {
		c, err := carts.GetByUser(ctx, u)
		require.NoError(t, err)
		if len(c.Lines) > 0 {
			for _, l := range c.Lines {
				require.NoError(t, carts.RemoveLine(ctx, u, l.ID))
			}
		}
	}
}

func TestApprove_WritesNotificationAtomically(t *testing.T) {
	ctx := context.Background()
	svc := newOrderService()
	fillCart(t, alice.UserID, map[string]int{"v-mug": 1})

	o, err := svc.CreateOrder(ctx, alice, "addr-alice", "")
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, admin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusApproved, approved.Status)
	assert.Equal(t, admin.UserID, approved.ApprovedBy)

	// The owner got exactly one notification about this order.
	notes := postgres.NewNotificationRepository(pool)
	ns, err := notes.ListByUser(ctx, alice.UserID)
	require.NoError(t, err)
	var matched int
	for _, n := range ns {
		if n.Title == "Order Approved" && !n.IsRead {
			matched++
		}
	}
	assert.GreaterOrEqual(t, matched, 1)

	// A second approval is rejected.
	_, err = svc.Approve(ctx, admin, o.ID)
	require.ErrorIs(t, err, order.ErrAlreadyApproved)
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()
	svc := newOrderService()
	fillCart(t, alice.UserID, map[string]int{"v-mug": 1})

	o, err := svc.CreateOrder(ctx, alice, "addr-alice", "")
	require.NoError(t, err)

	// PENDING -> SHIPPED skips approval and is rejected.
	_, err = svc.SetStatus(ctx, o.ID, order.StatusShipped)
	var ite *order.InvalidTransitionError
	require.ErrorAs(t, err, &ite)

	_, err = svc.Approve(ctx, admin, o.ID)
	require.NoError(t, err)

	shipped, err := svc.SetStatus(ctx, o.ID, order.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, shipped.Status)

	// Cancellation after shipping is rejected.
	_, err = svc.SetStatus(ctx, o.ID, order.StatusCancelled)
	require.ErrorAs(t, err, &ite)

	delivered, err := svc.SetStatus(ctx, o.ID, order.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, delivered.Status)
	assert.True(t, order.Terminal(delivered.Status))
}

func TestCancelPendingOrder(t *testing.T) {
	ctx := context.Background()
	svc := newOrderService()
	fillCart(t, alice.UserID, map[string]int{"v-mug": 1})

	o, err := svc.CreateOrder(ctx, alice, "addr-alice", "")
	require.NoError(t, err)

	cancelled, err := svc.SetStatus(ctx, o.ID, order.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.Status)

	// No further transitions from CANCELLED.
	_, err = svc.SetStatus(ctx, o.ID, order.StatusApproved)
	var ite *order.InvalidTransitionError
	require.True(t, errors.As(err, &ite))
}

func TestGetOrder_OtherUserHidden(t *testing.T) {
	ctx := context.Background()
	svc := newOrderService()
	fillCart(t, alice.UserID, map[string]int{"v-mug": 1})

	o, err := svc.CreateOrder(ctx, alice, "addr-alice", "")
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, o.ID)
	require.ErrorIs(t, err, order.ErrNotFound)

	got, err := svc.Get(ctx, admin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}
