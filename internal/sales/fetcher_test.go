package sales

import (
	"testing"
	"time"

	cloudbigquery "cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottsberry/commerce-backend/pkg/config"
)

func TestMapRowLocalizesOrderDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	f := &WarehouseFetcher{loc: loc}
	row := warehouseRow{
		OrderNumber: cloudbigquery.NullString{StringVal: "1001", Valid: true},
		OrderDate: cloudbigquery.NullTimestamp{
			Timestamp: time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC),
			Valid:     true,
		},
		OrderStatus:   cloudbigquery.NullString{StringVal: "SHIPPED", Valid: true},
		Quantity:      cloudbigquery.NullInt64{Int64: 3, Valid: true},
		TotalSEK:      cloudbigquery.NullFloat64{Float64: 120.5, Valid: true},
		ProductNumber: cloudbigquery.NullString{StringVal: "X-100", Valid: true},
		IsBundle:      cloudbigquery.NullBool{Bool: true, Valid: true},
	}

	rec := f.mapRow(row)

	assert.Equal(t, "1001", rec.OrderNumber)
	assert.Equal(t, "2024-01-15 07:00:00", rec.OrderDate)
	assert.Equal(t, int64(3), rec.Quantity)
	assert.Equal(t, 120.5, rec.TotalSEK)
	assert.True(t, rec.IsBundle)
}

func TestMapRowDefaultsNullsToZero(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	f := &WarehouseFetcher{loc: loc}
	rec := f.mapRow(warehouseRow{})

	assert.Empty(t, rec.OrderDate, "null timestamps must map to an empty date")
	assert.Zero(t, rec.Quantity)
	assert.Zero(t, rec.TotalSEK)
	assert.Zero(t, rec.ShippingValueSEK)
	assert.False(t, rec.IsBundle)
	assert.Empty(t, rec.OrderNumber)
}

func TestNewWarehouseFetcherValidatesInputs(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	cfg := config.WarehouseConfig{
		Dataset:          "Info",
		OrderLinesTable:  "SKU_sb",
		ProductInfoTable: "sku_info",
	}

	_, err = NewWarehouseFetcher(nil, "proj", cfg, loc)
	assert.Error(t, err)

	_, err = NewWarehouseFetcher(nil, "", cfg, nil)
	assert.Error(t, err)
}
