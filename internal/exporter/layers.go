package exporter

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"retailetl/internal/config"
	"retailetl/internal/errors"
	"retailetl/pkg/contracts/domain"
)

// Gold table file prefixes. The run timestamp is appended so outputs are
// never mutated in place.
const (
	BronzePrefix     = "raw_data"
	SilverPrefix     = "clean_data"
	CountryPrefix    = "sales_by_country"
	PeriodPrefix     = "sales_by_time"
	ProductsPrefix   = "top_products"
	SegmentsPrefix   = "customer_segments"
	GoldTablesPrefix = "gold_tables"
)

// CSVStore persists pipeline layers to the medallion directories.
type CSVStore struct {
	logger *slog.Logger
	paths  *config.Paths
	writer *CSVWriter
}

// NewCSVStore creates the production storage collaborator.
func NewCSVStore(logger *slog.Logger, paths *config.Paths) *CSVStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVStore{
		logger: logger,
		paths:  paths,
		writer: NewCSVWriter(logger),
	}
}

// SaveBronze persists the raw extraction snapshot unmodified.
func (s *CSVStore) SaveBronze(ctx context.Context, runTime time.Time, raw []domain.Transaction) error {
	headers := []string{"OrderID", "ProductCode", "Description", "Quantity", "TransactionTime", "UnitPrice", "CustomerID", "Country"}
	records := make([][]string, 0, len(raw))
	for _, tx := range raw {
		records = append(records, []string{
			tx.OrderID,
			tx.ProductCode,
			tx.Description,
			formatInt(tx.Quantity),
			formatTime(tx.TransactionTime),
			formatFloat(tx.UnitPrice),
			formatCustomer(tx.CustomerID),
			tx.Country,
		})
	}

	path := s.paths.TimestampedFile(s.paths.BronzeDir, BronzePrefix, "csv", runTime)
	if err := s.writer.WriteSimpleCSV(path, headers, records); err != nil {
		return errors.NewStorageError("exporter.SaveBronze", "failed to write bronze layer", err)
	}
	return nil
}

// SaveSilver persists the clean, enriched record set.
func (s *CSVStore) SaveSilver(ctx context.Context, runTime time.Time, clean []domain.EnrichedTransaction) error {
	headers := []string{
		"OrderID", "ProductCode", "Description", "Quantity", "TransactionTime",
		"UnitPrice", "CustomerID", "Country", "TotalPrice", "Year", "Month",
		"YearMonth", "DayOfWeek", "DayName", "Hour", "IsWeekend",
	}
	records := make([][]string, 0, len(clean))
	for _, tx := range clean {
		records = append(records, []string{
			tx.OrderID,
			tx.ProductCode,
			tx.Description,
			formatInt(tx.Quantity),
			formatTime(tx.TransactionTime),
			formatFloat(tx.UnitPrice),
			formatCustomer(tx.CustomerID),
			tx.Country,
			formatFloat(tx.TotalPrice),
			formatInt(tx.Year),
			formatInt(tx.Month),
			tx.YearMonth,
			formatInt(tx.DayOfWeek),
			tx.DayName,
			formatInt(tx.Hour),
			formatBool(tx.IsWeekend),
		})
	}

	path := s.paths.TimestampedFile(s.paths.SilverDir, SilverPrefix, "csv", runTime)
	if err := s.writer.WriteSimpleCSV(path, headers, records); err != nil {
		return errors.NewStorageError("exporter.SaveSilver", "failed to write silver layer", err)
	}
	return nil
}

// SaveGold persists the four aggregate tables as CSV plus one JSON bundle for
// the results server.
func (s *CSVStore) SaveGold(ctx context.Context, runTime time.Time, tables *domain.GoldTables) error {
	if err := s.saveCountries(runTime, tables.Countries); err != nil {
		return err
	}
	if err := s.savePeriods(runTime, tables.Periods); err != nil {
		return err
	}
	if err := s.saveProducts(runTime, tables.Products); err != nil {
		return err
	}
	if err := s.saveSegments(runTime, tables.Segments); err != nil {
		return err
	}
	return s.saveGoldJSON(runTime, tables)
}

func (s *CSVStore) saveCountries(runTime time.Time, rows []domain.CountrySales) error {
	headers := []string{"Country", "TotalOrders", "UniqueCustomers", "TotalQuantity", "TotalRevenue", "AvgOrderValue", "AvgQuantityPerOrder", "RevenuePerCustomer"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Country,
			formatInt(r.TotalOrders),
			formatInt(r.UniqueCustomers),
			formatInt(r.TotalQuantity),
			formatFloat(r.TotalRevenue),
			formatFloat(r.AvgOrderValue),
			formatFloat(r.AvgQuantityPerOrder),
			formatFloat(r.RevenuePerCustomer),
		})
	}
	path := s.paths.TimestampedFile(s.paths.GoldDir, CountryPrefix, "csv", runTime)
	if err := s.writer.WriteSimpleCSV(path, headers, records); err != nil {
		return errors.NewStorageError("exporter.SaveGold", "failed to write sales_by_country", err)
	}
	return nil
}

func (s *CSVStore) savePeriods(runTime time.Time, rows []domain.PeriodSales) error {
	headers := []string{"YearMonth", "TotalOrders", "UniqueCustomers", "TotalQuantity", "TotalRevenue", "AvgOrderValue", "RevenueGrowth", "OrdersGrowth"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.YearMonth,
			formatInt(r.TotalOrders),
			formatInt(r.UniqueCustomers),
			formatInt(r.TotalQuantity),
			formatFloat(r.TotalRevenue),
			formatFloat(r.AvgOrderValue),
			formatGrowth(r.RevenueGrowth),
			formatGrowth(r.OrdersGrowth),
		})
	}
	path := s.paths.TimestampedFile(s.paths.GoldDir, PeriodPrefix, "csv", runTime)
	if err := s.writer.WriteSimpleCSV(path, headers, records); err != nil {
		return errors.NewStorageError("exporter.SaveGold", "failed to write sales_by_time", err)
	}
	return nil
}

func (s *CSVStore) saveProducts(runTime time.Time, rows []domain.ProductSales) error {
	headers := []string{"ProductCode", "Description", "TotalQuantitySold", "TotalRevenue", "TotalOrders", "UniqueCustomers", "AvgPricePerUnit", "AvgQuantityPerOrder"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.ProductCode,
			r.Description,
			formatInt(r.TotalQuantitySold),
			formatFloat(r.TotalRevenue),
			formatInt(r.TotalOrders),
			formatInt(r.UniqueCustomers),
			formatFloat(r.AvgPricePerUnit),
			formatFloat(r.AvgQuantityPerOrder),
		})
	}
	path := s.paths.TimestampedFile(s.paths.GoldDir, ProductsPrefix, "csv", runTime)
	if err := s.writer.WriteSimpleCSV(path, headers, records); err != nil {
		return errors.NewStorageError("exporter.SaveGold", "failed to write top_products", err)
	}
	return nil
}

func (s *CSVStore) saveSegments(runTime time.Time, rows []domain.CustomerSegment) error {
	headers := []string{"CustomerID", "TotalOrders", "TotalSpent", "TotalItems", "FirstPurchase", "LastPurchase", "AvgOrderValue", "LifetimeDays", "Segment"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatInt(int(r.CustomerID)),
			formatInt(r.TotalOrders),
			formatFloat(r.TotalSpent),
			formatInt(r.TotalItems),
			formatTime(r.FirstPurchase),
			formatTime(r.LastPurchase),
			formatFloat(r.AvgOrderValue),
			formatInt(r.LifetimeDays),
			string(r.Segment),
		})
	}
	path := s.paths.TimestampedFile(s.paths.GoldDir, SegmentsPrefix, "csv", runTime)
	if err := s.writer.WriteSimpleCSV(path, headers, records); err != nil {
		return errors.NewStorageError("exporter.SaveGold", "failed to write customer_segments", err)
	}
	return nil
}

func (s *CSVStore) saveGoldJSON(runTime time.Time, tables *domain.GoldTables) error {
	path := s.paths.TimestampedFile(s.paths.GoldDir, GoldTablesPrefix, "json", runTime)
	data, err := json.MarshalIndent(tables, "", "  ")
	if err != nil {
		return errors.NewStorageError("exporter.SaveGold", "failed to marshal gold tables", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewStorageError("exporter.SaveGold", "failed to write gold tables JSON", err)
	}
	s.logger.Info("gold layer persisted",
		slog.String("json_path", path),
		slog.Int("countries", len(tables.Countries)),
		slog.Int("periods", len(tables.Periods)),
		slog.Int("products", len(tables.Products)),
		slog.Int("segments", len(tables.Segments)))
	return nil
}
