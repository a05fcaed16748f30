package models

import "github.com/shopspring/decimal"

// ReportBucket is the time granularity of a sales report.
type ReportBucket string

const (
	BucketDay   ReportBucket = "day"
	BucketWeek  ReportBucket = "week"
	BucketMonth ReportBucket = "month"
)

// SalesPoint is one bucket of the sales report.
type SalesPoint struct {
	Bucket       string          `json:"bucket"`
	Orders       int             `json:"orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	NewCustomers int             `json:"newCustomers"`
}
