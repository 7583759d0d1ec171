package domain

import (
	"time"
)

// NoDescription is the sentinel stored in place of a missing product
// description. A missing description is not a data-quality defect, so
// affected rows are kept and filled rather than removed.
const NoDescription = "NO DESCRIPTION"

// Transaction represents one raw line item of an e-commerce order as it
// arrives from the extraction source. OrderID is an opaque identifier: it may
// carry a non-numeric cancellation prefix and must never be coerced to a
// number.
type Transaction struct {
	OrderID         string    `json:"order_id"`
	ProductCode     string    `json:"product_code"`
	Description     string    `json:"description"`
	Quantity        int       `json:"quantity"`
	TransactionTime time.Time `json:"transaction_time"`
	UnitPrice       float64   `json:"unit_price"`
	CustomerID      *int64    `json:"customer_id,omitempty"`
	Country         string    `json:"country"`
}

// HasCustomer reports whether the transaction is attributable to a customer.
func (t Transaction) HasCustomer() bool {
	return t.CustomerID != nil
}

// EnrichedTransaction is a clean transaction augmented with the derived
// fields computed during enrichment. DayOfWeek uses ISO numbering with
// Monday = 0.
type EnrichedTransaction struct {
	Transaction

	TotalPrice float64 `json:"total_price"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	YearMonth  string  `json:"year_month"`
	DayOfWeek  int     `json:"day_of_week"`
	DayName    string  `json:"day_name"`
	Hour       int     `json:"hour"`
	IsWeekend  bool    `json:"is_weekend"`
}
