package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/herbal-storefront/internal/apperr"
	"github.com/01moynul/herbal-storefront/internal/database"
	"github.com/01moynul/herbal-storefront/internal/models"
)

// CategoryStore persists the category tree.
type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// CategoryPatch lists the fields an update may change. ClearParent moves
// the category to the root.
type CategoryPatch struct {
	Name        *string
	Slug        *string
	ParentID    *int64
	ClearParent bool
}

func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	if c.ParentID != nil {
		if _, err := s.GetByID(ctx, *c.ParentID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.FieldError("parentId", "parent category does not exist")
			}
			return err
		}
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (name, slug, parent_id) VALUES (?, ?, ?)", c.Name, c.Slug, c.ParentID)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.Conflict("slug %q is already in use", c.Slug)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("category id: %w", err)
	}
	return nil
}

func (s *CategoryStore) Update(ctx context.Context, id int64, patch CategoryPatch) (*models.Category, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.Slug != nil {
		current.Slug = *patch.Slug
	}
	if patch.ClearParent {
		current.ParentID = nil
	} else if patch.ParentID != nil {
		if err := s.checkParent(ctx, id, *patch.ParentID); err != nil {
			return nil, err
		}
		current.ParentID = patch.ParentID
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, slug = ?, parent_id = ? WHERE id = ?",
		current.Name, current.Slug, current.ParentID, id)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperr.Conflict("slug %q is already in use", current.Slug)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return s.GetByID(ctx, id)
}

// checkParent rejects missing parents and parents that would create a cycle.
func (s *CategoryStore) checkParent(ctx context.Context, id, parentID int64) error {
	seen := map[int64]bool{id: true}
	next := &parentID
	for next != nil {
		if seen[*next] {
			return apperr.FieldError("parentId", "category cannot be its own ancestor")
		}
		seen[*next] = true
		parent, err := s.GetByID(ctx, *next)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.FieldError("parentId", "parent category does not exist")
			}
			return err
		}
		next = parent.ParentID
	}
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, slug, parent_id, created_at, updated_at FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("category", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List returns every category ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, slug, parent_id, created_at, updated_at FROM categories ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	list := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
