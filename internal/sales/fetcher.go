package sales

import (
	"context"
	"fmt"
	"time"

	cloudbigquery "cloud.google.com/go/bigquery"
	"github.com/scottsberry/commerce-backend/pkg/bigquery"
	"github.com/scottsberry/commerce-backend/pkg/config"
	pkgerrors "github.com/scottsberry/commerce-backend/pkg/errors"
	"google.golang.org/api/iterator"
)

// The join mirrors the warehouse layout: one row per order line, product info
// attached by whitespace-normalized product number.
const fetchSQL = `
SELECT
  s.order_uuid,
  s.order_number,
  s.order_date AS order_date,
  s.status AS order_status,
  s.country_name,
  s.country_code,
  s.grand_total_value,
  s.grand_total_currency,
  s.quantity,
  s.product_name,
  s.productNumber,
  s.unit_cost_value,
  s.unit_cost_currency,
  s.total_sek,
  s.line_total_sek,
  s.shipping_value_sek,
  i.id AS product_id,
  i.status AS product_status,
  i.isBundle,
  i.productType,
  i.collection,
  i.supplier,
  i.childProductNumbers
FROM %s s
INNER JOIN %s i
  ON TRIM(s.productNumber) = TRIM(i.productNumber)
`

// Fetcher produces the full set of warehouse order lines.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]OrderLineRecord, error)
}

type warehouseRow struct {
	OrderUUID           cloudbigquery.NullString    `bigquery:"order_uuid"`
	OrderNumber         cloudbigquery.NullString    `bigquery:"order_number"`
	OrderDate           cloudbigquery.NullTimestamp `bigquery:"order_date"`
	OrderStatus         cloudbigquery.NullString    `bigquery:"order_status"`
	CountryName         cloudbigquery.NullString    `bigquery:"country_name"`
	CountryCode         cloudbigquery.NullString    `bigquery:"country_code"`
	GrandTotalValue     cloudbigquery.NullFloat64   `bigquery:"grand_total_value"`
	GrandTotalCurrency  cloudbigquery.NullString    `bigquery:"grand_total_currency"`
	Quantity            cloudbigquery.NullInt64     `bigquery:"quantity"`
	ProductName         cloudbigquery.NullString    `bigquery:"product_name"`
	ProductNumber       cloudbigquery.NullString    `bigquery:"productNumber"`
	UnitCostValue       cloudbigquery.NullFloat64   `bigquery:"unit_cost_value"`
	UnitCostCurrency    cloudbigquery.NullString    `bigquery:"unit_cost_currency"`
	TotalSEK            cloudbigquery.NullFloat64   `bigquery:"total_sek"`
	LineTotalSEK        cloudbigquery.NullFloat64   `bigquery:"line_total_sek"`
	ShippingValueSEK    cloudbigquery.NullFloat64   `bigquery:"shipping_value_sek"`
	ProductID           cloudbigquery.NullString    `bigquery:"product_id"`
	ProductStatus       cloudbigquery.NullString    `bigquery:"product_status"`
	IsBundle            cloudbigquery.NullBool      `bigquery:"isBundle"`
	ProductType         cloudbigquery.NullString    `bigquery:"productType"`
	Collection          cloudbigquery.NullString    `bigquery:"collection"`
	Supplier            cloudbigquery.NullString    `bigquery:"supplier"`
	ChildProductNumbers []string                    `bigquery:"childProductNumbers"`
}

// WarehouseFetcher reads order lines out of BigQuery.
type WarehouseFetcher struct {
	client  *bigquery.Client
	sql     string
	timeout time.Duration
	loc     *time.Location
}

// NewWarehouseFetcher builds a fetcher for the configured dataset tables.
func NewWarehouseFetcher(client *bigquery.Client, project string, cfg config.WarehouseConfig, loc *time.Location) (*WarehouseFetcher, error) {
	if client == nil {
		return nil, fmt.Errorf("bigquery client required")
	}
	if project == "" || cfg.Dataset == "" || cfg.OrderLinesTable == "" || cfg.ProductInfoTable == "" {
		return nil, fmt.Errorf("project, dataset, and tables are required")
	}
	if loc == nil {
		return nil, fmt.Errorf("reporting location required")
	}
	orderLines := fmt.Sprintf("`%s.%s.%s`", project, cfg.Dataset, cfg.OrderLinesTable)
	productInfo := fmt.Sprintf("`%s.%s.%s`", project, cfg.Dataset, cfg.ProductInfoTable)
	return &WarehouseFetcher{
		client:  client,
		sql:     fmt.Sprintf(fetchSQL, orderLines, productInfo),
		timeout: cfg.FetchTimeout,
		loc:     loc,
	}, nil
}

// FetchAll runs the join query and maps every row into an OrderLineRecord.
// Any failure is a dependency error; the caller's existing snapshot is not
// touched on failure.
func (f *WarehouseFetcher) FetchAll(ctx context.Context) ([]OrderLineRecord, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	iter, err := f.client.Query(ctx, f.sql, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "querying warehouse")
	}

	var records []OrderLineRecord
	for {
		var row warehouseRow
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading warehouse row")
		}
		records = append(records, f.mapRow(row))
	}
	return records, nil
}

func (f *WarehouseFetcher) mapRow(row warehouseRow) OrderLineRecord {
	rec := OrderLineRecord{
		OrderUUID:           row.OrderUUID.StringVal,
		OrderNumber:         row.OrderNumber.StringVal,
		OrderStatus:         row.OrderStatus.StringVal,
		CountryName:         row.CountryName.StringVal,
		CountryCode:         row.CountryCode.StringVal,
		GrandTotalValue:     row.GrandTotalValue.Float64,
		GrandTotalCurrency:  row.GrandTotalCurrency.StringVal,
		Quantity:            row.Quantity.Int64,
		ProductName:         row.ProductName.StringVal,
		ProductNumber:       row.ProductNumber.StringVal,
		UnitCostValue:       row.UnitCostValue.Float64,
		UnitCostCurrency:    row.UnitCostCurrency.StringVal,
		TotalSEK:            row.TotalSEK.Float64,
		LineTotalSEK:        row.LineTotalSEK.Float64,
		ShippingValueSEK:    row.ShippingValueSEK.Float64,
		ProductID:           row.ProductID.StringVal,
		ProductStatus:       row.ProductStatus.StringVal,
		IsBundle:            row.IsBundle.Bool,
		ProductType:         row.ProductType.StringVal,
		Collection:          row.Collection.StringVal,
		Supplier:            row.Supplier.StringVal,
		ChildProductNumbers: row.ChildProductNumbers,
	}
	if row.OrderDate.Valid {
		rec.OrderDate = row.OrderDate.Timestamp.In(f.loc).Format(TimestampLayout)
	}
	return rec
}
