package sales

import (
	"context"
	"strings"
	"time"

	"github.com/scottsberry/commerce-backend/pkg/logger"
)

// Filters narrow the aggregation scan. Each enabled flag can only remove
// rows, so the combined result is always a subset of the unfiltered one.
type Filters struct {
	OnlyShipped    bool
	ExcludeBundles bool
	OnlyActive     bool
}

// OrderDetail is one contributing order line, kept in scan order.
type OrderDetail struct {
	OrderNumber      string  `json:"order_number"`
	OrderDate        string  `json:"order_date"`
	Quantity         int64   `json:"quantity"`
	Status           string  `json:"status"`
	TotalSEK         float64 `json:"total_sek"`
	LineTotalSEK     float64 `json:"line_total_sek"`
	ShippingValueSEK float64 `json:"shipping_value_sek"`
	IsBundle         bool    `json:"isBundle"`
	ProductName      string  `json:"product_name"`
	ProductNumber    string  `json:"productNumber"`
}

// ProductAggregate accumulates one product number's totals over the window.
// ShippingValueSEK and ProductInfo are copied from the first matching row and
// never re-summed.
type ProductAggregate struct {
	TotalQuantity    int64         `json:"total_quantity"`
	TotalValue       float64       `json:"total_value"`
	TotalLineSEK     float64       `json:"total_line_sek"`
	ShippingValueSEK float64       `json:"shipping_value_sek"`
	Orders           []OrderDetail `json:"orders"`
	ProductInfo      ProductInfo   `json:"product_info"`
}

// Totals are the cross-product reductions computed in a second pass over an
// aggregation result.
type Totals struct {
	TotalSales  float64
	TotalOrders int
	TotalItems  int64
}

// Engine turns a snapshot into per-product aggregates for a date window.
// All date comparisons happen on instants: the window bounds and every record
// timestamp are localized in the reporting zone before comparing, so the
// process's own zone never shifts the window.
type Engine struct {
	loc  *time.Location
	logg *logger.Logger
}

func NewEngine(loc *time.Location, logg *logger.Logger) *Engine {
	return &Engine{loc: loc, logg: logg}
}

// Aggregate scans the snapshot once and buckets matching rows by product
// number. fromDate and toDate are calendar dates (already validated at the
// boundary); the window spans [fromDate 00:00:00, toDate 23:59:59] in the
// reporting zone, inclusive on both ends. A nil snapshot yields an empty map.
func (e *Engine) Aggregate(ctx context.Context, snap *Snapshot, fromDate, toDate time.Time, filters Filters) map[string]*ProductAggregate {
	result := make(map[string]*ProductAggregate)
	if snap == nil || len(snap.Records) == 0 {
		return result
	}

	fromInstant, toInstant := e.window(fromDate, toDate)

	for _, rec := range snap.Records {
		if rec.OrderDate == "" {
			continue
		}

		ts, err := time.ParseInLocation(TimestampLayout, rec.OrderDate, e.loc)
		if err != nil {
			// Bad row, not a bad scan. Skip it and keep going.
			if e.logg != nil {
				rowCtx := e.logg.WithFields(ctx, map[string]any{
					"order_number": rec.OrderNumber,
					"order_date":   rec.OrderDate,
				})
				e.logg.Warn(rowCtx, "skipping row with unparsable order date")
			}
			continue
		}

		if ts.Before(fromInstant) || ts.After(toInstant) {
			continue
		}
		if filters.OnlyShipped && !strings.EqualFold(rec.OrderStatus, statusShipped) {
			continue
		}
		if filters.ExcludeBundles && rec.IsBundle {
			continue
		}
		if filters.OnlyActive && !strings.EqualFold(rec.ProductStatus, statusActive) {
			continue
		}

		entry, ok := result[rec.ProductNumber]
		if !ok {
			entry = &ProductAggregate{
				ShippingValueSEK: rec.ShippingValueSEK,
				ProductInfo:      rec.productInfo(),
			}
			result[rec.ProductNumber] = entry
		}

		entry.TotalQuantity += rec.Quantity
		entry.TotalValue += rec.TotalSEK
		entry.TotalLineSEK += rec.LineTotalSEK

		entry.Orders = append(entry.Orders, OrderDetail{
			OrderNumber:      rec.OrderNumber,
			OrderDate:        ts.In(e.loc).Format(TimestampLayout),
			Quantity:         rec.Quantity,
			Status:           rec.OrderStatus,
			TotalSEK:         rec.TotalSEK,
			LineTotalSEK:     rec.LineTotalSEK,
			ShippingValueSEK: rec.ShippingValueSEK,
			IsBundle:         rec.IsBundle,
			ProductName:      rec.ProductName,
			ProductNumber:    rec.ProductNumber,
		})
	}

	return result
}

func (e *Engine) window(fromDate, toDate time.Time) (time.Time, time.Time) {
	fy, fm, fd := fromDate.Date()
	ty, tm, td := toDate.Date()
	from := time.Date(fy, fm, fd, 0, 0, 0, 0, e.loc)
	to := time.Date(ty, tm, td, 23, 59, 59, 0, e.loc)
	return from, to
}

// ComputeTotals reduces an aggregation result into the grand totals. Orders
// touching several products count once; item counts are summed per order
// line, not per product entry.
func ComputeTotals(aggregated map[string]*ProductAggregate) Totals {
	totals := Totals{}
	seenOrders := make(map[string]struct{})
	for _, entry := range aggregated {
		totals.TotalSales += entry.TotalValue
		for _, order := range entry.Orders {
			totals.TotalItems += order.Quantity
			seenOrders[order.OrderNumber] = struct{}{}
		}
	}
	totals.TotalOrders = len(seenOrders)
	return totals
}
