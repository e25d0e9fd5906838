package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sahil13082003/ecommerce-api/internal/domain/address"
)

const (
	getAddressForUserSQL = `SELECT id, user_id, name, street, city, state, country, zipcode, is_default
		FROM addresses WHERE id = $1 AND user_id = $2`

	listAddressesSQL = `SELECT id, user_id, name, street, city, state, country, zipcode, is_default
		FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, id`

	insertAddressSQL = `INSERT INTO addresses (id, user_id, name, street, city, state, country, zipcode, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

var _ address.Repository = (*AddressRepository)(nil)

// AddressRepository implements address.Repository backed by PostgreSQL.
type AddressRepository struct {
	pool *pgxpool.Pool
}

// NewAddressRepository returns an AddressRepository that uses the given pool.
func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

// GetForUser returns the address only when it belongs to userID; otherwise
// address.ErrNotFound.
func (r *AddressRepository) GetForUser(ctx context.Context, id, userID string) (*address.Address, error) {
	rows, err := r.pool.Query(ctx, getAddressForUserSQL, id, userID)
	if err != nil {
		return nil, fmt.Errorf("getting address %q: %w", id, err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, scanAddress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, address.ErrNotFound
		}
		return nil, fmt.Errorf("getting address %q: %w", id, err)
	}
	return &a, nil
}

// ListByUser returns the user's addresses, default first.
func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]address.Address, error) {
	rows, err := r.pool.Query(ctx, listAddressesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing addresses for user %q: %w", userID, err)
	}
	addrs, err := pgx.CollectRows(rows, scanAddress)
	if err != nil {
		return nil, fmt.Errorf("listing addresses for user %q: %w", userID, err)
	}
	return addrs, nil
}

// Create persists a new address.
func (r *AddressRepository) Create(ctx context.Context, a *address.Address) error {
	_, err := r.pool.Exec(ctx, insertAddressSQL,
		a.ID, a.UserID, a.Name, a.Street, a.City, a.State, a.Country, a.Zipcode, a.IsDefault,
	)
	if err != nil {
		return fmt.Errorf("creating address %q: %w", a.ID, err)
	}
	return nil
}

func scanAddress(row pgx.CollectableRow) (address.Address, error) {
	var a address.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Street, &a.City, &a.State, &a.Country, &a.Zipcode, &a.IsDefault)
	return a, err
}
