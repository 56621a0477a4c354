package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marvindelacruz/hardwarehub-backend/pkg/db/models"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/enums"
)

const dayFormat = "2006-01-02"

// NewWindow computes the reporting range ending now, aligned to whole UTC
// days so two requests in the same day hit the same cache entry.
func NewWindow(now time.Time, days int) Window {
	to := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	from := to.AddDate(0, 0, -days)
	return Window{
		Days:         days,
		From:         from,
		To:           to,
		PreviousFrom: from.AddDate(0, 0, -days),
		PreviousTo:   from,
	}
}

// BuildReport folds the window's orders into a SalesReport. It is pure: all
// inputs are explicit and nothing is loaded lazily, which keeps it cheap to
// test against hand-built fixtures.
func BuildReport(window Window, orders, previous []models.Order, topN int) *SalesReport {
	report := &SalesReport{
		WindowDays:   window.Days,
		From:         window.From,
		To:           window.To,
		StatusCounts: map[enums.OrderStatus]int{},
	}

	daily := map[string]*DailyPoint{}
	for day := window.From; day.Before(window.To); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayFormat)
		daily[key] = &DailyPoint{Date: key}
	}

	products := map[string]*ProductPerformance{}
	categories := map[string]*CategoryPerformance{}

	for i := range orders {
		order := &orders[i]
		report.TotalOrders++
		report.GrossRevenueCentavos += order.TotalCentavos
		report.StatusCounts[order.Status]++
		if order.Status == enums.OrderStatusCompleted {
			report.CompletedRevenueCentavos += order.TotalCentavos
		}

		if point, ok := daily[order.CreatedAt.UTC().Format(dayFormat)]; ok {
			point.Orders++
			point.RevenueCentavos += order.TotalCentavos
			if order.Status == enums.OrderStatusCompleted {
				point.CompletedRevenueCentavos += order.TotalCentavos
			}
		}

		if declined(order.Status) {
			continue
		}
		for _, item := range order.Items {
			pkey := item.ProductName
			if item.VariantName != nil {
				pkey += "|" + *item.VariantName
			}
			perf, ok := products[pkey]
			if !ok {
				perf = &ProductPerformance{
					ProductName: item.ProductName,
					Category:    item.Category,
					VariantName: item.VariantName,
				}
				products[pkey] = perf
			}
			perf.UnitsSold += item.Qty
			perf.RevenueCentavos += item.SubtotalCentavos

			cat, ok := categories[item.Category]
			if !ok {
				cat = &CategoryPerformance{Category: item.Category}
				categories[item.Category] = cat
			}
			cat.UnitsSold += item.Qty
			cat.RevenueCentavos += item.SubtotalCentavos
		}
	}

	if report.TotalOrders > 0 {
		report.AverageOrderValueCentavos = decimal.NewFromInt(report.GrossRevenueCentavos).
			Div(decimal.NewFromInt(int64(report.TotalOrders))).
			Round(0).IntPart()
		report.CompletionRatePct = ratePct(report.StatusCounts[enums.OrderStatusCompleted], report.TotalOrders)
		report.CancellationRatePct = ratePct(report.StatusCounts[enums.OrderStatusCancelled], report.TotalOrders)
	}

	var prevRevenue int64
	prevOrders := len(previous)
	for i := range previous {
		prevRevenue += previous[i].TotalCentavos
	}
	report.Growth = GrowthStats{
		RevenuePct: growthPct(report.GrossRevenueCentavos, prevRevenue),
		OrdersPct:  growthPct(int64(report.TotalOrders), int64(prevOrders)),
	}

	report.Daily = make([]DailyPoint, 0, len(daily))
	for day := window.From; day.Before(window.To); day = day.AddDate(0, 0, 1) {
		report.Daily = append(report.Daily, *daily[day.Format(dayFormat)])
	}

	report.TopProducts = rankProducts(products, topN)
	report.TopCategories = rankCategories(categories, topN)
	return report
}

// growthPct returns nil when the previous window is empty rather than
// dividing by zero or fabricating an infinite growth rate.
func growthPct(current, previous int64) *float64 {
	if previous == 0 {
		return nil
	}
	pct := decimal.NewFromInt(current-previous).
		Div(decimal.NewFromInt(previous)).
		Mul(decimal.NewFromInt(100)).
		Round(2).InexactFloat64()
	return &pct
}

func ratePct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		Round(2).InexactFloat64()
}

func declined(status enums.OrderStatus) bool {
	return status == enums.OrderStatusRejected || status == enums.OrderStatusCancelled
}

func rankProducts(products map[string]*ProductPerformance, topN int) []ProductPerformance {
	ranked := make([]ProductPerformance, 0, len(products))
	for _, perf := range products {
		ranked = append(ranked, *perf)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RevenueCentavos != ranked[j].RevenueCentavos {
			return ranked[i].RevenueCentavos > ranked[j].RevenueCentavos
		}
		if ranked[i].UnitsSold != ranked[j].UnitsSold {
			return ranked[i].UnitsSold > ranked[j].UnitsSold
		}
		return ranked[i].ProductName < ranked[j].ProductName
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func rankCategories(categories map[string]*CategoryPerformance, topN int) []CategoryPerformance {
	ranked := make([]CategoryPerformance, 0, len(categories))
	for _, perf := range categories {
		ranked = append(ranked, *perf)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RevenueCentavos != ranked[j].RevenueCentavos {
			return ranked[i].RevenueCentavos > ranked[j].RevenueCentavos
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
