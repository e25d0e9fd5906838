// Package cart models a user's in-progress selection. Every user has exactly
// one cart, created lazily on first access; the checkout transaction empties
// it atomically with the order insert.
package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrLineNotFound is returned when a cart line id does not exist or does
	// not belong to the caller's cart.
	ErrLineNotFound = errors.New("cart line not found")
	// ErrInvalidQuantity is returned for non-positive line quantities.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Cart is a user's mutable selection of variants.
type Cart struct {
	ID        string
	UserID    string
	Lines     []Line
	CreatedAt time.Time
}

// Line pairs a variant with a positive quantity.
type Line struct {
	ID        string
	VariantID string
	Quantity  int
}

// Repository defines persistence for carts and their lines.
//
// GetByUser creates the cart on first access, so it never reports a missing
// cart for a known user.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (*Cart, error)
	// AddLine upserts: adding a variant already in the cart increases the
	// existing line's quantity instead of creating a duplicate line.
	AddLine(ctx context.Context, userID, variantID string, quantity int) (*Line, error)
	UpdateLine(ctx context.Context, userID, lineID string, quantity int) (*Line, error)
	RemoveLine(ctx context.Context, userID, lineID string) error
}
