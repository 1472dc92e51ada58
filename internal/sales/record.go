package sales

const (
	// TimestampLayout is the wire format for warehouse timestamps. Values are
	// local to the reporting zone and carry no offset.
	TimestampLayout = "2006-01-02 15:04:05"

	// DateLayout is the calendar-date format accepted on the API boundary.
	DateLayout = "2006-01-02"

	statusShipped = "SHIPPED"
	statusActive  = "ACTIVE"
)

// ProductInfo is the static product-side slice of a warehouse row, copied into
// an aggregate on first encounter of a product number.
type ProductInfo struct {
	ProductID           string   `json:"product_id"`
	Status              string   `json:"status"`
	ProductNumber       string   `json:"productNumber"`
	IsBundle            bool     `json:"isBundle"`
	ProductType         string   `json:"productType"`
	Collection          string   `json:"collection"`
	Supplier            string   `json:"supplier"`
	ProductName         string   `json:"product_name"`
	ChildProductNumbers []string `json:"childProductNumbers"`
}

// OrderLineRecord is one materialized order line joined with its product info.
// Monetary and quantity fields are zero when the warehouse column was null so
// accumulators never see missing values. OrderDate is empty when the source
// row carried no timestamp; such records are excluded from every window.
type OrderLineRecord struct {
	OrderUUID          string  `json:"order_uuid"`
	OrderNumber        string  `json:"order_number"`
	OrderDate          string  `json:"order_date"`
	OrderStatus        string  `json:"order_status"`
	CountryName        string  `json:"country_name"`
	CountryCode        string  `json:"country_code"`
	GrandTotalValue    float64 `json:"grand_total_value"`
	GrandTotalCurrency string  `json:"grand_total_currency"`
	Quantity           int64   `json:"quantity"`
	ProductName        string  `json:"product_name"`
	ProductNumber      string  `json:"productNumber"`
	UnitCostValue      float64 `json:"unit_cost_value"`
	UnitCostCurrency   string  `json:"unit_cost_currency"`
	TotalSEK           float64 `json:"total_sek"`
	LineTotalSEK       float64 `json:"line_total_sek"`
	ShippingValueSEK   float64 `json:"shipping_value_sek"`

	ProductID           string   `json:"product_id"`
	ProductStatus       string   `json:"product_status"`
	IsBundle            bool     `json:"isBundle"`
	ProductType         string   `json:"productType"`
	Collection          string   `json:"collection"`
	Supplier            string   `json:"supplier"`
	ChildProductNumbers []string `json:"childProductNumbers"`
}

func (r OrderLineRecord) productInfo() ProductInfo {
	return ProductInfo{
		ProductID:           r.ProductID,
		Status:              r.ProductStatus,
		ProductNumber:       r.ProductNumber,
		IsBundle:            r.IsBundle,
		ProductType:         r.ProductType,
		Collection:          r.Collection,
		Supplier:            r.Supplier,
		ProductName:         r.ProductName,
		ChildProductNumbers: r.ChildProductNumbers,
	}
}
