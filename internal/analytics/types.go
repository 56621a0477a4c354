package analytics

import (
	"time"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
)

// Window is a half-open [From, To) reporting range plus the equally sized
// range immediately before it, used for growth comparisons.
type Window struct {
	Days         int
	From         time.Time
	To           time.Time
	PreviousFrom time.Time
	PreviousTo   time.Time
}

// DailyPoint is one calendar day in the report series. Days without orders
// are still present with zero values. The completed sum is the realized
// revenue line, kept apart from gross booked revenue because not every
// booked order is realized.
type DailyPoint struct {
	Date                     string `json:"date"`
	Orders                   int    `json:"orders"`
	RevenueCentavos          int64  `json:"revenue_centavos"`
	CompletedRevenueCentavos int64  `json:"completed_revenue_centavos"`
}

// GrowthStats compares the reporting window against the window before it.
// A nil percentage means the previous window had nothing to compare against.
type GrowthStats struct {
	RevenuePct *float64 `json:"revenue_pct,omitempty"`
	OrdersPct  *float64 `json:"orders_pct,omitempty"`
}

// ProductPerformance aggregates sold units and revenue for one product
// snapshot as captured on the order lines.
type ProductPerformance struct {
	ProductName     string  `json:"product_name"`
	Category        string  `json:"category"`
	VariantName     *string `json:"variant_name,omitempty"`
	UnitsSold       int     `json:"units_sold"`
	RevenueCentavos int64   `json:"revenue_centavos"`
}

// CategoryPerformance aggregates sold units and revenue per category.
type CategoryPerformance struct {
	Category        string `json:"category"`
	UnitsSold       int    `json:"units_sold"`
	RevenueCentavos int64  `json:"revenue_centavos"`
}

// SalesReport is the full aggregate returned by the reports endpoint.
//
// Gross figures include every order placed in the window regardless of where
// it ended up; product and category rankings exclude rejected and cancelled
// orders so declined demand does not inflate them.
type SalesReport struct {
	WindowDays int       `json:"window_days"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`

	TotalOrders               int                       `json:"total_orders"`
	GrossRevenueCentavos      int64                     `json:"gross_revenue_centavos"`
	CompletedRevenueCentavos  int64                     `json:"completed_revenue_centavos"`
	AverageOrderValueCentavos int64                     `json:"average_order_value_centavos"`
	CompletionRatePct         float64                   `json:"completion_rate_pct"`
	CancellationRatePct       float64                   `json:"cancellation_rate_pct"`
	StatusCounts              map[enums.OrderStatus]int `json:"status_counts"`

	Growth        GrowthStats           `json:"growth"`
	Daily         []DailyPoint          `json:"daily"`
	TopProducts   []ProductPerformance  `json:"top_products"`
	TopCategories []CategoryPerformance `json:"top_categories"`
}
