package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sahil13082003/ecommerce-api/internal/domain/catalog"
	"github.com/sahil13082003/ecommerce-api/internal/domain/order"
)

const (
	// Conditional decrement: the WHERE clause makes the stock check and the
	// write one atomic statement, so concurrent checkouts on the same
	// variant serialize on the row and stock can never go negative. A zero
	// affected-row count means insufficient stock.
	reserveStockSQL = `UPDATE product_variants SET stock = stock - $2
		WHERE id = $1 AND stock >= $2`

	insertOrderSQL = `INSERT INTO orders (id, user_id, address_id, coupon_code,
			total_amount, discount, grand_total, payment_status, order_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	insertOrderLineSQL = `INSERT INTO order_lines (id, order_id, variant_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`

	clearCartLinesSQL = `DELETE FROM cart_lines WHERE cart_id = $1`

	getOrderSQL = `SELECT id, user_id, COALESCE(address_id, ''), coupon_code,
			total_amount, discount, grand_total, payment_status, order_status,
			COALESCE(approved_by, ''), created_at
		FROM orders WHERE id = $1`

	getOrderLinesSQL = `SELECT id, variant_id, quantity, unit_price
		FROM order_lines WHERE order_id = $1 ORDER BY id`

	listOrdersByUserSQL = `SELECT id, user_id, COALESCE(address_id, ''), coupon_code,
			total_amount, discount, grand_total, payment_status, order_status,
			COALESCE(approved_by, ''), created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	listOrdersSQL = `SELECT id, user_id, COALESCE(address_id, ''), coupon_code,
			total_amount, discount, grand_total, payment_status, order_status,
			COALESCE(approved_by, ''), created_at
		FROM orders ORDER BY created_at DESC`

	// Approval only fires from PENDING; the condition doubles as the guard
	// against double approval under concurrency.
	approveOrderSQL = `UPDATE orders SET order_status = 'APPROVED', approved_by = $2
		WHERE id = $1 AND order_status = 'PENDING'
		RETURNING user_id`

	orderStatusSQL = `SELECT order_status FROM orders WHERE id = $1`

	setOrderStatusSQL = `UPDATE orders SET order_status = $3
		WHERE id = $1 AND order_status = $2`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. It owns
// the checkout transaction and is the only code path that writes variant
// stock.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateCheckout persists the order with its lines, applies every stock
// reservation, and clears the cart, all in one transaction. Any failure,
// including a shortage on a single line, rolls the whole operation back.
func (r *OrderRepository) CreateCheckout(ctx context.Context, o *order.Order, cartID string, reservations []catalog.Reservation) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, res := range reservations {
		ct, err := tx.Exec(ctx, reserveStockSQL, res.VariantID, res.Quantity)
		if err != nil {
			return fmt.Errorf("reserving stock for variant %q: %w", res.VariantID, err)
		}
		if ct.RowsAffected() == 0 {
			return &catalog.InsufficientStockError{
				VariantID: res.VariantID,
				Requested: res.Quantity,
			}
		}
	}

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.ID, o.UserID, nullable(o.AddressID), o.CouponCode,
		o.Total, o.Discount, o.GrandTotal, o.PaymentStatus, o.Status,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	for _, l := range o.Lines {
		if _, err := tx.Exec(ctx, insertOrderLineSQL,
			l.ID, o.ID, l.VariantID, l.Quantity, l.UnitPrice,
		); err != nil {
			return fmt.Errorf("creating order line for variant %q: %w", l.VariantID, err)
		}
	}

	if _, err := tx.Exec(ctx, clearCartLinesSQL, cartID); err != nil {
		return fmt.Errorf("clearing cart %q: %w", cartID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit checkout tx: %w", err)
	}
	return nil
}

// GetByID returns the order with its lines. Returns order.ErrNotFound for
// unknown ids.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	lineRows, err := r.pool.Query(ctx, getOrderLinesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order lines: %w", err)
	}
	o.Lines, err = pgx.CollectRows(lineRows, scanOrderLine)
	if err != nil {
		return nil, fmt.Errorf("getting order lines: %w", err)
	}
	return &o, nil
}

// ListByUser returns order summaries (no lines) for one user, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return orders, nil
}

// ListAll returns all order summaries, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// Approve flips a PENDING order to APPROVED and writes the owner's
// notification in the same transaction. Exactly one of two concurrent
// approvals can win the conditional update; the loser sees
// ErrAlreadyApproved.
func (r *OrderRepository) Approve(ctx context.Context, orderID, approverID, noteTitle, noteMessage string) (*order.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin approve tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ownerID string
	err = tx.QueryRow(ctx, approveOrderSQL, orderID, approverID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.approveConflict(ctx, orderID)
		}
		return nil, fmt.Errorf("approving order %q: %w", orderID, err)
	}

	if _, err := tx.Exec(ctx, insertNotificationSQL,
		uuid.NewString(), ownerID, noteTitle, noteMessage,
	); err != nil {
		return nil, fmt.Errorf("creating approval notification: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit approve tx: %w", err)
	}

	return r.GetByID(ctx, orderID)
}

// approveConflict distinguishes a missing order from one that already left
// PENDING.
func (r *OrderRepository) approveConflict(ctx context.Context, orderID string) error {
	var status string
	err := r.pool.QueryRow(ctx, orderStatusSQL, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.ErrNotFound
		}
		return fmt.Errorf("checking order %q: %w", orderID, err)
	}
	return order.ErrAlreadyApproved
}

// SetStatus performs a conditional transition; a concurrent change of the
// stored status surfaces as InvalidTransitionError.
func (r *OrderRepository) SetStatus(ctx context.Context, orderID string, from, to order.Status) error {
	ct, err := r.pool.Exec(ctx, setOrderStatusSQL, orderID, from, to)
	if err != nil {
		return fmt.Errorf("updating order %q status: %w", orderID, err)
	}
	if ct.RowsAffected() == 0 {
		return &order.InvalidTransitionError{From: from, To: to}
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.AddressID, &o.CouponCode,
		&o.Total, &o.Discount, &o.GrandTotal,
		&o.PaymentStatus, &o.Status, &o.ApprovedBy, &o.CreatedAt,
	)
	return o, err
}

func scanOrderLine(row pgx.CollectableRow) (order.Line, error) {
	var l order.Line
	err := row.Scan(&l.ID, &l.VariantID, &l.Quantity, &l.UnitPrice)
	return l, err
}

// nullable maps an empty string to SQL NULL for optional foreign keys.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
