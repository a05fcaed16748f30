package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/database"
	"github.com/01moynul/herbal-storefront/internal/models"
)

const locationColumns = "id, name, postcode, serviceable, delivery_charge, created_at, updated_at"

// LocationStore persists the delivery postcodes the store knows about.
type LocationStore struct {
	db *sql.DB
}

func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

// NormalizePostcode uppercases and strips inner whitespace so lookups
// match however the customer typed it.
func NormalizePostcode(p string) string {
	return strings.ToUpper(strings.Join(strings.Fields(p), ""))
}

func scanLocation(row interface{ Scan(...any) error }) (*models.Location, error) {
	var l models.Location
	if err := row.Scan(&l.ID, &l.Name, &l.Postcode, &l.Serviceable, &l.DeliveryCharge, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LocationStore) Create(ctx context.Context, l *models.Location) error {
	l.Postcode = NormalizePostcode(l.Postcode)
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO locations (name, postcode, serviceable, delivery_charge) VALUES (?, ?, ?, ?)",
		l.Name, l.Postcode, l.Serviceable, l.DeliveryCharge)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.Conflict("postcode %s already exists", l.Postcode)
		}
		return fmt.Errorf("insert location: %w", err)
	}
	if l.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("location id: %w", err)
	}
	return nil
}

// Update overwrites every editable column of an existing location.
func (s *LocationStore) Update(ctx context.Context, l *models.Location) error {
	if _, err := s.GetByID(ctx, l.ID); err != nil {
		return err
	}
	l.Postcode = NormalizePostcode(l.Postcode)
	_, err := s.db.ExecContext(ctx,
		"UPDATE locations SET name = ?, postcode = ?, serviceable = ?, delivery_charge = ? WHERE id = ?",
		l.Name, l.Postcode, l.Serviceable, l.DeliveryCharge, l.ID)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.Conflict("postcode %s already exists", l.Postcode)
		}
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

func (s *LocationStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM locations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("location", id)
	}
	return nil
}

func (s *LocationStore) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	l, err := scanLocation(s.db.QueryRowContext(ctx, "SELECT "+locationColumns+" FROM locations WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("location", id)
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (s *LocationStore) GetByPostcode(ctx context.Context, postcode string) (*models.Location, error) {
	postcode = NormalizePostcode(postcode)
	l, err := scanLocation(s.db.QueryRowContext(ctx, "SELECT "+locationColumns+" FROM locations WHERE postcode = ?", postcode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("location", postcode)
		}
		return nil, fmt.Errorf("get location by postcode: %w", err)
	}
	return l, nil
}

func (s *LocationStore) List(ctx context.Context) ([]models.Location, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+locationColumns+" FROM locations ORDER BY postcode")
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	list := []models.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, *l)
	}
	return list, rows.Err()
}
