package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/models"
)

const addressColumns = "id, user_id, label, line1, line2, city, state, postcode, country, phone, is_default, created_at"

// AddressStore persists saved customer addresses.
type AddressStore struct {
	db *sql.DB
}

func NewAddressStore(db *sql.DB) *AddressStore {
	return &AddressStore{db: db}
}

func scanAddress(row interface{ Scan(...any) error }) (*models.Address, error) {
	var a models.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.Line1, &a.Line2, &a.City, &a.State,
		&a.Postcode, &a.Country, &a.Phone, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create saves an address. Making it the default clears the flag on the
// user's other addresses in the same transaction.
func (s *AddressStore) Create(ctx context.Context, a *models.Address) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if a.IsDefault {
			if _, err := tx.ExecContext(ctx, "UPDATE addresses SET is_default = FALSE WHERE user_id = ?", a.UserID); err != nil {
				return fmt.Errorf("clear default address: %w", err)
			}
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO addresses (user_id, label, line1, line2, city, state, postcode, country, phone, is_default)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.UserID, a.Label, a.Line1, a.Line2, a.City, a.State, a.Postcode, a.Country, a.Phone, a.IsDefault)
		if err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
		if a.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("address id: %w", err)
		}
		return nil
	})
}

func (s *AddressStore) ListByUser(ctx context.Context, userID int64) ([]models.Address, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE user_id = ? ORDER BY is_default DESC, id", userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	list := []models.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// GetForUser returns an address only if it belongs to userID.
func (s *AddressStore) GetForUser(ctx context.Context, userID, id int64) (*models.Address, error) {
	a, err := scanAddress(s.db.QueryRowContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE id = ? AND user_id = ?", id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("address", id)
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

func (s *AddressStore) Delete(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM addresses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("address", id)
	}
	return nil
}
