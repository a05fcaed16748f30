package handlers

import (
	"net/http"
	"time"

	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/01moynul/herbal-storefront/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//
// --- Admin Sales Report ---
//

const (
	reportDateLayout  = "2006-01-02"
	defaultReportDays = 30
	maxReportDays     = 366
)

// SalesTotals sums every bucket of a report.
type SalesTotals struct {
	Orders       int             `json:"orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	NewCustomers int             `json:"newCustomers"`
}

// GetSalesReport returns KPI data per day, week or month.
// GET /v1/admin/reports/sales?from=2026-01-01&to=2026-01-31&bucket=day
// Both dates are inclusive. The default range is the last 30 days.
func (h *Handlers) GetSalesReport(c *gin.Context) {
	// 1. Bucket
	bucket := models.ReportBucket(c.DefaultQuery("bucket", string(models.BucketDay)))
	if _, ok := store.BucketFormat(bucket); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": gin.H{"bucket": "must be one of day, week, month"}})
		return
	}

	// 2. Date range
	today := time.Now().UTC().Truncate(24 * time.Hour)
	to := today
	from := today.AddDate(0, 0, -(defaultReportDays - 1))
	fields := gin.H{}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(reportDateLayout, raw)
		if err != nil {
			fields["from"] = "must be a date in the form YYYY-MM-DD"
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(reportDateLayout, raw)
		if err != nil {
			fields["to"] = "must be a date in the form YYYY-MM-DD"
		}
		to = t
	}
	if len(fields) == 0 {
		switch {
		case to.Before(from):
			fields["to"] = "must not be before from"
		case to.Sub(from) > maxReportDays*24*time.Hour:
			fields["to"] = "range must not exceed 366 days"
		}
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": fields})
		return
	}

	// 3. Query
	points, err := h.Reports.Sales(c.Request.Context(), from, to.AddDate(0, 0, 1), bucket)
	if err != nil {
		h.respondError(c, err)
		return
	}

	totals := SalesTotals{Revenue: decimal.Zero}
	for _, p := range points {
		totals.Orders += p.Orders
		totals.Revenue = totals.Revenue.Add(p.Revenue)
		totals.NewCustomers += p.NewCustomers
	}

	c.JSON(http.StatusOK, gin.H{
		"from":   from.Format(reportDateLayout),
		"to":     to.Format(reportDateLayout),
		"bucket": bucket,
		"points": points,
		"totals": totals,
	})
}
