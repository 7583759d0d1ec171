package extract

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"retailetl/internal/errors"
	"retailetl/pkg/contracts/domain"
)

// Column keys after header normalization.
const (
	colOrderID     = "invoiceno"
	colProductCode = "stockcode"
	colDescription = "description"
	colQuantity    = "quantity"
	colTime        = "invoicedate"
	colUnitPrice   = "unitprice"
	colCustomerID  = "customerid"
	colCountry     = "country"
)

// requiredColumns must all be present in the header row; a missing one is a
// schema violation and fails the run before any filtering.
var requiredColumns = []string{
	colOrderID, colProductCode, colQuantity, colTime,
	colUnitPrice, colCustomerID, colCountry,
}

// timeLayouts are the textual timestamp formats seen in exports of the
// dataset. Serial date numbers are handled separately.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"01-02-06 15:04",
	time.RFC3339,
}

// ParseWorkbook reads the retail transactions out of an Excel workbook. The
// header row is located dynamically and columns are mapped by name, so column
// order does not matter. Rows whose numeric or temporal cells cannot be
// parsed are skipped and counted; they never become zero-valued records.
func ParseWorkbook(logger *slog.Logger, filePath, preferredSheet string) ([]domain.Transaction, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, errors.NewExtractionError("extract.ParseWorkbook", "failed to open workbook", err)
	}
	defer f.Close()

	rows, sheetName, err := findTransactionSheet(f, preferredSheet)
	if err != nil {
		return nil, err
	}

	headerIdx, columns := findHeader(rows)
	if headerIdx < 0 {
		return nil, errors.NewExtractionError("extract.ParseWorkbook",
			fmt.Sprintf("no header row found in sheet %q", sheetName), nil)
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, errors.NewSchemaError("extract.ParseWorkbook", col)
		}
	}

	logger.Info("parsing transaction sheet",
		slog.String("sheet", sheetName),
		slog.Int("header_row", headerIdx),
		slog.Int("total_rows", len(rows)))

	var (
		transactions []domain.Transaction
		malformed    int
	)
	for _, row := range rows[headerIdx+1:] {
		if isEmptyRow(row) {
			continue
		}
		tx, err := parseRow(row, columns)
		if err != nil {
			malformed++
			continue
		}
		transactions = append(transactions, tx)
	}

	logger.Info("workbook parsed",
		slog.String("sheet", sheetName),
		slog.Int("records", len(transactions)),
		slog.Int("malformed_rows", malformed))

	return transactions, nil
}

// findTransactionSheet prefers the configured sheet name and otherwise scans
// for any sheet whose first rows look like a transaction header.
func findTransactionSheet(f *excelize.File, preferred string) ([][]string, string, error) {
	if preferred != "" {
		if rows, err := f.GetRows(preferred); err == nil && len(rows) > 1 {
			return rows, preferred, nil
		}
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		if idx, _ := findHeader(rows); idx >= 0 {
			return rows, name, nil
		}
	}

	return nil, "", errors.NewExtractionError("extract.findTransactionSheet",
		"no sheet with transaction data found", nil)
}

// findHeader locates the header row within the first few rows and returns the
// normalized column name to index mapping.
func findHeader(rows [][]string) (int, map[string]int) {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		columns := make(map[string]int)
		for j, cell := range rows[i] {
			key := normalizeHeader(cell)
			if key == "" {
				continue
			}
			if _, exists := columns[key]; !exists {
				columns[key] = j
			}
		}
		if _, hasOrder := columns[colOrderID]; !hasOrder {
			continue
		}
		if _, hasProduct := columns[colProductCode]; hasProduct {
			return i, columns
		}
	}
	return -1, nil
}

func normalizeHeader(cell string) string {
	return strings.ToLower(strings.Join(strings.Fields(cell), ""))
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, columns map[string]int) (domain.Transaction, error) {
	quantity, err := parseIntCell(cellAt(row, columns, colQuantity))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("quantity: %w", err)
	}

	unitPrice, err := strconv.ParseFloat(strings.TrimSpace(cellAt(row, columns, colUnitPrice)), 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("unit price: %w", err)
	}

	ts, err := parseTimeCell(cellAt(row, columns, colTime))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction time: %w", err)
	}

	customerID, err := parseCustomerCell(cellAt(row, columns, colCustomerID))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("customer id: %w", err)
	}

	return domain.Transaction{
		OrderID:         strings.TrimSpace(cellAt(row, columns, colOrderID)),
		ProductCode:     strings.TrimSpace(cellAt(row, columns, colProductCode)),
		Description:     strings.TrimSpace(cellAt(row, columns, colDescription)),
		Quantity:        quantity,
		TransactionTime: ts,
		UnitPrice:       unitPrice,
		CustomerID:      customerID,
		Country:         strings.TrimSpace(cellAt(row, columns, colCountry)),
	}, nil
}

func cellAt(row []string, columns map[string]int, key string) string {
	idx, ok := columns[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseIntCell accepts both "6" and the "6.0" some exports produce.
func parseIntCell(cell string) (int, error) {
	s := strings.TrimSpace(cell)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// parseTimeCell handles both textual timestamps and Excel serial dates.
func parseTimeCell(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseCustomerCell maps an empty cell to a nil customer; the quality filter
// decides what that means, not the parser.
func parseCustomerCell(cell string) (*int64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	id := int64(f)
	return &id, nil
}
