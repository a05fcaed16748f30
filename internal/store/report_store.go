package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/shopspring/decimal"
)

// ReportStore runs aggregate queries for the admin dashboard.
type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// BucketFormat is the MySQL DATE_FORMAT pattern that labels a bucket.
func BucketFormat(b models.ReportBucket) (string, bool) {
	switch b {
	case models.BucketDay:
		return "%Y-%m-%d", true
	case models.BucketWeek:
		return "%x-W%v", true
	case models.BucketMonth:
		return "%Y-%m", true
	default:
		return "", false
	}
}

// Sales returns per-bucket order counts, revenue from non-cancelled orders
// and new customer sign-ups in [from, to).
func (s *ReportStore) Sales(ctx context.Context, from, to time.Time, bucket models.ReportBucket) ([]models.SalesPoint, error) {
	format, ok := BucketFormat(bucket)
	if !ok {
		return nil, fmt.Errorf("unknown report bucket %q", bucket)
	}

	points := map[string]*models.SalesPoint{}
	point := func(label string) *models.SalesPoint {
		p, ok := points[label]
		if !ok {
			p = &models.SalesPoint{Bucket: label, Revenue: decimal.Zero}
			points[label] = p
		}
		return p
	}

	// 1. --- Orders and revenue ---
	rows, err := s.db.QueryContext(ctx, `
		SELECT DATE_FORMAT(created_at, ?) AS bucket, COUNT(*),
		       COALESCE(SUM(CASE WHEN status <> ? THEN total ELSE 0 END), 0)
		FROM orders
		WHERE created_at >= ? AND created_at < ?
		GROUP BY bucket`,
		format, models.OrderCancelled, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	for rows.Next() {
		var (
			label   string
			count   int
			revenue decimal.Decimal
		)
		if err := rows.Scan(&label, &count, &revenue); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		p := point(label)
		p.Orders = count
		p.Revenue = revenue
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 2. --- New customers ---
	rows, err = s.db.QueryContext(ctx, `
		SELECT DATE_FORMAT(created_at, ?) AS bucket, COUNT(*)
		FROM users
		WHERE role = ? AND created_at >= ? AND created_at < ?
		GROUP BY bucket`,
		format, models.RoleCustomer, from, to)
	if err != nil {
		return nil, fmt.Errorf("customer report: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			label string
			count int
		)
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		point(label).NewCustomers = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.SalesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out, nil
}
