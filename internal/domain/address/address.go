// Package address holds shipping addresses. Checkout only needs the
// ownership check: an order may reference an address solely when it belongs
// to the ordering user.
package address

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when an address does not exist or is owned by a
// different user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("address not found")

// Address is a shipping destination owned by a single user.
type Address struct {
	ID        string
	UserID    string
	Name      string
	Street    string
	City      string
	State     string
	Country   string
	Zipcode   string
	IsDefault bool
}

// Repository defines persistence operations for addresses.
type Repository interface {
	// GetForUser returns the address only if it belongs to userID.
	GetForUser(ctx context.Context, id, userID string) (*Address, error)
	ListByUser(ctx context.Context, userID string) ([]Address, error)
	Create(ctx context.Context, a *Address) error
}
