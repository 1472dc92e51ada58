package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/scottsberry/commerce-backend/api/responses"
	"github.com/scottsberry/commerce-backend/internal/sales"
	pkgerrors "github.com/scottsberry/commerce-backend/pkg/errors"
	"github.com/scottsberry/commerce-backend/pkg/logger"
)

// AggregatedSalesResponse echoes the requested window and filters alongside
// the per-product aggregates.
type AggregatedSalesResponse struct {
	FromDate        string                            `json:"from_date"`
	ToDate          string                            `json:"to_date"`
	OnlyShipped     bool                              `json:"only_shipped"`
	ExcludeBundles  bool                              `json:"exclude_bundles"`
	OnlyActive      bool                              `json:"only_active"`
	AggregatedSales map[string]*sales.ProductAggregate `json:"aggregated_sales"`
	TotalSales      float64                           `json:"totalSales"`
	TotalOrders     int                               `json:"totalOrders"`
	TotalItems      int64                             `json:"totalItems"`
	LastUpdated     *string                           `json:"last_updated"`
}

func AggregatedSales(store *sales.Store, engine *sales.Engine, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()

		fromDate, err := parseDateParam(query.Get("from_date"), "from_date")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		toDate, err := parseDateParam(query.Get("to_date"), "to_date")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if toDate.Before(fromDate) {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "to_date must not be before from_date"))
			return
		}

		filters := sales.Filters{
			OnlyShipped:    strings.EqualFold(query.Get("status"), "shipped"),
			ExcludeBundles: boolParam(query.Get("exclude_bundles")),
			OnlyActive:     boolParam(query.Get("only_active")),
		}

		snap := store.Current()
		aggregated := engine.Aggregate(ctx, snap, fromDate, toDate, filters)
		totals := sales.ComputeTotals(aggregated)

		var lastUpdated *string
		if snap != nil {
			formatted := snap.LastUpdated.In(loc).Format(sales.TimestampLayout)
			lastUpdated = &formatted
		}

		responses.WriteSuccess(w, AggregatedSalesResponse{
			FromDate:        fromDate.Format(sales.DateLayout),
			ToDate:          toDate.Format(sales.DateLayout),
			OnlyShipped:     filters.OnlyShipped,
			ExcludeBundles:  filters.ExcludeBundles,
			OnlyActive:      filters.OnlyActive,
			AggregatedSales: aggregated,
			TotalSales:      totals.TotalSales,
			TotalOrders:     totals.TotalOrders,
			TotalItems:      totals.TotalItems,
			LastUpdated:     lastUpdated,
		})
	}
}

func RefreshSales(refresher *sales.Refresher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := refresher.Refresh(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snap := refresher.Store().Current()
		payload := map[string]any{"status": "refreshed"}
		if snap != nil {
			payload["rows"] = len(snap.Records)
			payload["last_updated"] = snap.LastUpdated.Format(sales.TimestampLayout)
		}

		responses.WriteSuccess(w, payload)
	}
}

func parseDateParam(value, name string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	parsed, err := time.Parse(sales.DateLayout, trimmed)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a YYYY-MM-DD date")
	}
	return parsed, nil
}

func boolParam(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}
