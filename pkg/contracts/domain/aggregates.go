package domain

import (
	"time"
)

// CountrySales represents aggregated sales metrics for one country.
// Order counts are distinct by OrderID, not by line-item row.
type CountrySales struct {
	Country             string  `json:"country"`
	TotalOrders         int     `json:"total_orders"`
	UniqueCustomers     int     `json:"unique_customers"`
	TotalQuantity       int     `json:"total_quantity"`
	TotalRevenue        float64 `json:"total_revenue"`
	AvgOrderValue       float64 `json:"avg_order_value"`
	AvgQuantityPerOrder float64 `json:"avg_quantity_per_order"`
	RevenuePerCustomer  float64 `json:"revenue_per_customer"`
}

// PeriodSales represents aggregated sales metrics for one year-month period.
// Growth rates compare against the chronologically previous period; they are
// nil for the first period and for any period whose baseline revenue or order
// count is zero, because "no change" would be a false statement there.
type PeriodSales struct {
	YearMonth       string   `json:"year_month"`
	TotalOrders     int      `json:"total_orders"`
	UniqueCustomers int      `json:"unique_customers"`
	TotalQuantity   int      `json:"total_quantity"`
	TotalRevenue    float64  `json:"total_revenue"`
	AvgOrderValue   float64  `json:"avg_order_value"`
	RevenueGrowth   *float64 `json:"revenue_growth"`
	OrdersGrowth    *float64 `json:"orders_growth"`
}

// ProductSales represents aggregated sales metrics for one product code.
// Description carries the first non-sentinel description seen for the code.
type ProductSales struct {
	ProductCode         string  `json:"product_code"`
	Description         string  `json:"description"`
	TotalQuantitySold   int     `json:"total_quantity_sold"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalOrders         int     `json:"total_orders"`
	UniqueCustomers     int     `json:"unique_customers"`
	AvgPricePerUnit     float64 `json:"avg_price_per_unit"`
	AvgQuantityPerOrder float64 `json:"avg_quantity_per_order"`
}

// SegmentLabel classifies a customer by total spend.
type SegmentLabel string

const (
	SegmentLow    SegmentLabel = "Low Value"
	SegmentMedium SegmentLabel = "Medium Value"
	SegmentHigh   SegmentLabel = "High Value"
)

// CustomerSegment represents aggregated purchase behaviour for one customer.
// LifetimeDays is whole days between first and last purchase, never negative.
type CustomerSegment struct {
	CustomerID    int64        `json:"customer_id"`
	TotalOrders   int          `json:"total_orders"`
	TotalSpent    float64      `json:"total_spent"`
	TotalItems    int          `json:"total_items"`
	FirstPurchase time.Time    `json:"first_purchase"`
	LastPurchase  time.Time    `json:"last_purchase"`
	AvgOrderValue float64      `json:"avg_order_value"`
	LifetimeDays  int          `json:"lifetime_days"`
	Segment       SegmentLabel `json:"segment"`
}

// GoldTables bundles the four analytical tables produced by a run. Each table
// is recomputed from scratch on every run and sorted descending by its
// primary metric.
type GoldTables struct {
	Countries []CountrySales    `json:"sales_by_country"`
	Periods   []PeriodSales     `json:"sales_by_time"`
	Products  []ProductSales    `json:"top_products"`
	Segments  []CustomerSegment `json:"customer_segments"`
}
