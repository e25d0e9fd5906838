// Package catalog holds the purchasable product variants and the stock
// ledger types. Variant stock is mutated only by the checkout transaction in
// the storage layer; everything else gets read access.
package catalog

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested variant does not exist.
var ErrNotFound = errors.New("product variant not found")

// Variant represents a purchasable SKU with its current price and stock.
type Variant struct {
	ID    string
	SKU   string
	Name  string
	Price decimal.Decimal
	Stock int
}

// Reservation is a request to decrement a variant's available stock as part
// of a checkout transaction.
type Reservation struct {
	VariantID string
	Quantity  int
}

// InsufficientStockError indicates a stock reservation could not be
// satisfied. It aborts the entire checkout transaction.
type InsufficientStockError struct {
	VariantID string
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %s (requested %d)", e.VariantID, e.Requested)
}

// Repository defines read operations over the variant catalog.
type Repository interface {
	List(ctx context.Context) ([]Variant, error)
	GetByID(ctx context.Context, id string) (*Variant, error)
	GetByIDs(ctx context.Context, ids []string) ([]Variant, error)
}
