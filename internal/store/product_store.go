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

const productColumns = `p.id, p.name, p.slug, p.description, p.price, p.compare_at_price, p.stock,
	p.status, p.category_id, p.created_at, p.updated_at`

// ProductStore persists products together with their image and video rows.
type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CompareAtPrice, &p.Stock,
		&p.Status, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the product and its media in one transaction.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		// 1. --- Insert the product row ---
		res, err := tx.ExecContext(ctx, `
			INSERT INTO products (name, slug, description, price, compare_at_price, stock, status, category_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Name, p.Slug, p.Description, p.Price, p.CompareAtPrice, p.Stock, p.Status, p.CategoryID)
		if err != nil {
			return productWriteError(err, p.Slug)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("product id: %w", err)
		}

		// 2. --- Insert media ---
		if err := insertImages(ctx, tx, p.ID, p.Images); err != nil {
			return err
		}
		return insertVideos(ctx, tx, p.ID, p.Videos)
	})
}

// Update applies a patch in one transaction. A non-nil media list replaces
// all existing rows of that kind; an empty one deletes them.
func (s *ProductStore) Update(ctx context.Context, id int64, patch models.ProductPatch) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		// 1. --- Update the product row ---
		sets := []string{"updated_at = CURRENT_TIMESTAMP"}
		var args []any
		add := func(col string, v any) {
			sets = append(sets, col+" = ?")
			args = append(args, v)
		}
		if patch.Name != nil {
			add("name", *patch.Name)
		}
		if patch.Slug != nil {
			add("slug", *patch.Slug)
		}
		if patch.Description != nil {
			add("description", *patch.Description)
		}
		if patch.Price != nil {
			add("price", *patch.Price)
		}
		if patch.CompareAtPrice != nil {
			add("compare_at_price", *patch.CompareAtPrice)
		}
		if patch.Stock != nil {
			add("stock", *patch.Stock)
		}
		if patch.Status != nil {
			add("status", *patch.Status)
		}
		if patch.CategoryID != nil {
			add("category_id", *patch.CategoryID)
		}
		args = append(args, id)

		res, err := tx.ExecContext(ctx, "UPDATE products SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			slugValue := ""
			if patch.Slug != nil {
				slugValue = *patch.Slug
			}
			return productWriteError(err, slugValue)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)", id).Scan(&exists); err != nil {
				return fmt.Errorf("check product: %w", err)
			}
			if !exists {
				return apperr.NotFound("product", id)
			}
		}

		// 2. --- Replace media lists that were sent ---
		if patch.Images != nil {
			if _, err := tx.ExecContext(ctx, "DELETE FROM product_images WHERE product_id = ?", id); err != nil {
				return fmt.Errorf("delete product images: %w", err)
			}
			if err := insertImages(ctx, tx, id, *patch.Images); err != nil {
				return err
			}
		}
		if patch.Videos != nil {
			if _, err := tx.ExecContext(ctx, "DELETE FROM product_videos WHERE product_id = ?", id); err != nil {
				return fmt.Errorf("delete product videos: %w", err)
			}
			if err := insertVideos(ctx, tx, id, *patch.Videos); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertImages(ctx context.Context, tx *sql.Tx, productID int64, images []models.ProductImage) error {
	for i, img := range images {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_images (product_id, url, alt_text, position) VALUES (?, ?, ?, ?)",
			productID, img.URL, img.AltText, i); err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}
	}
	return nil
}

func insertVideos(ctx context.Context, tx *sql.Tx, productID int64, videos []models.ProductVideo) error {
	for i, v := range videos {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_videos (product_id, url, position) VALUES (?, ?, ?)",
			productID, v.URL, i); err != nil {
			return fmt.Errorf("insert product video: %w", err)
		}
	}
	return nil
}

func productWriteError(err error, slugValue string) error {
	if database.IsDuplicateKey(err) {
		return apperr.Conflict("slug %q is already in use", slugValue)
	}
	return fmt.Errorf("write product: %w", err)
}

func (s *ProductStore) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.getOne(ctx, "p.id = ?", id)
}

func (s *ProductStore) GetBySlug(ctx context.Context, slugValue string) (*models.Product, error) {
	return s.getOne(ctx, "p.slug = ?", slugValue)
}

func (s *ProductStore) getOne(ctx context.Context, where string, arg any) (*models.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products p WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("product", arg)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := s.loadMedia(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductStore) loadMedia(ctx context.Context, p *models.Product) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, product_id, url, alt_text, position FROM product_images WHERE product_id = ? ORDER BY position, id", p.ID)
	if err != nil {
		return fmt.Errorf("list product images: %w", err)
	}
	p.Images = []models.ProductImage{}
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.AltText, &img.Position); err != nil {
			rows.Close()
			return fmt.Errorf("scan product image: %w", err)
		}
		p.Images = append(p.Images, img)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT id, product_id, url, position FROM product_videos WHERE product_id = ? ORDER BY position, id", p.ID)
	if err != nil {
		return fmt.Errorf("list product videos: %w", err)
	}
	defer rows.Close()
	p.Videos = []models.ProductVideo{}
	for rows.Next() {
		var v models.ProductVideo
		if err := rows.Scan(&v.ID, &v.ProductID, &v.URL, &v.Position); err != nil {
			return fmt.Errorf("scan product video: %w", err)
		}
		p.Videos = append(p.Videos, v)
	}
	return rows.Err()
}

// List returns one page of products matching the filter plus the total
// number of matches. Media is not loaded.
func (s *ProductStore) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	from := " FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE 1=1"
	var args []any
	if f.Status != "" {
		from += " AND p.status = ?"
		args = append(args, f.Status)
	}
	if f.CategorySlug != "" {
		from += " AND c.slug = ?"
		args = append(args, f.CategorySlug)
	}
	if f.Search != "" {
		from += " AND (p.name LIKE ? OR p.description LIKE ?)"
		like := "%" + f.Search + "%"
		args = append(args, like, like)
	}
	if f.MinPrice != nil {
		from += " AND p.price >= ?"
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		from += " AND p.price <= ?"
		args = append(args, *f.MaxPrice)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*)"+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	pageArgs := append(append([]any{}, args...), clampLimit(f.Limit, 24, 100), max(f.Offset, 0))
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+from+" ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

// GetMany loads the given products keyed by ID. Missing IDs are absent
// from the map.
func (s *ProductStore) GetMany(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	out := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products p WHERE p.id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = *p
	}
	return out, rows.Err()
}
