package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sahil13082003/ecommerce-api/internal/domain/cart"
)

const (
	// The unique user_id constraint makes concurrent first accesses converge
	// on one cart row.
	ensureCartSQL = `INSERT INTO carts (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`

	getCartSQL = `SELECT id, user_id, created_at FROM carts WHERE user_id = $1`

	getCartLinesSQL = `SELECT id, variant_id, quantity FROM cart_lines
		WHERE cart_id = $1 ORDER BY id`

	upsertCartLineSQL = `INSERT INTO cart_lines (id, cart_id, variant_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, variant_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
		RETURNING id, variant_id, quantity`

	updateCartLineSQL = `UPDATE cart_lines SET quantity = $3
		FROM carts
		WHERE cart_lines.id = $2 AND cart_lines.cart_id = carts.id AND carts.user_id = $1
		RETURNING cart_lines.id, cart_lines.variant_id, cart_lines.quantity`

	removeCartLineSQL = `DELETE FROM cart_lines
		USING carts
		WHERE cart_lines.id = $2 AND cart_lines.cart_id = carts.id AND carts.user_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetByUser returns the user's cart with its lines, creating the cart on
// first access.
func (r *CartRepository) GetByUser(ctx context.Context, userID string) (*cart.Cart, error) {
	if _, err := r.pool.Exec(ctx, ensureCartSQL, uuid.NewString(), userID); err != nil {
		return nil, fmt.Errorf("ensuring cart for user %q: %w", userID, err)
	}

	var c cart.Cart
	if err := r.pool.QueryRow(ctx, getCartSQL, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("getting cart for user %q: %w", userID, err)
	}

	rows, err := r.pool.Query(ctx, getCartLinesSQL, c.ID)
	if err != nil {
		return nil, fmt.Errorf("getting cart lines: %w", err)
	}
	c.Lines, err = pgx.CollectRows(rows, scanCartLine)
	if err != nil {
		return nil, fmt.Errorf("getting cart lines: %w", err)
	}
	return &c, nil
}

// AddLine upserts a line into the user's cart; adding a variant already in
// the cart increases the existing line's quantity.
func (r *CartRepository) AddLine(ctx context.Context, userID, variantID string, quantity int) (*cart.Line, error) {
	if quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	c, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var l cart.Line
	err = r.pool.QueryRow(ctx, upsertCartLineSQL, uuid.NewString(), c.ID, variantID, quantity).
		Scan(&l.ID, &l.VariantID, &l.Quantity)
	if err != nil {
		return nil, fmt.Errorf("adding cart line: %w", err)
	}
	return &l, nil
}

// UpdateLine replaces a line's quantity. The join against carts scopes the
// update to lines the user actually owns.
func (r *CartRepository) UpdateLine(ctx context.Context, userID, lineID string, quantity int) (*cart.Line, error) {
	if quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	var l cart.Line
	err := r.pool.QueryRow(ctx, updateCartLineSQL, userID, lineID, quantity).
		Scan(&l.ID, &l.VariantID, &l.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrLineNotFound
		}
		return nil, fmt.Errorf("updating cart line %q: %w", lineID, err)
	}
	return &l, nil
}

// RemoveLine deletes a line from the user's cart.
func (r *CartRepository) RemoveLine(ctx context.Context, userID, lineID string) error {
	ct, err := r.pool.Exec(ctx, removeCartLineSQL, userID, lineID)
	if err != nil {
		return fmt.Errorf("removing cart line %q: %w", lineID, err)
	}
	if ct.RowsAffected() == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

func scanCartLine(row pgx.CollectableRow) (cart.Line, error) {
	var l cart.Line
	err := row.Scan(&l.ID, &l.VariantID, &l.Quantity)
	return l, err
}
