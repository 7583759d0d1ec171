package extract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"retailetl/internal/errors"
)

// writeWorkbook builds an xlsx fixture with the given rows on one sheet.
func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	require.NoError(t, err)
	f.SetActiveSheet(index)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "retail.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func retailHeader() []interface{} {
	return []interface{}{"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice", "CustomerID", "Country"}
}

func TestParseWorkbook_ReadsTransactions(t *testing.T) {
	path := writeWorkbook(t, "Online Retail", [][]interface{}{
		retailHeader(),
		{"536365", "85123A", "WHITE HANGING HEART", "6", "2011-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
		{"C536379", "D", "Discount", "-1", "2011-12-01 09:41:00", "27.50", "14527", "United Kingdom"},
		{"536366", "71053", "WHITE METAL LANTERN", "6", "2011-12-01 08:28:00", "3.39", "", "United Kingdom"},
	})

	txs, err := ParseWorkbook(nil, path, "Online Retail")
	require.NoError(t, err)
	require.Len(t, txs, 3)

	first := txs[0]
	assert.Equal(t, "536365", first.OrderID)
	assert.Equal(t, "85123A", first.ProductCode)
	assert.Equal(t, 6, first.Quantity)
	assert.Equal(t, time.Date(2011, 12, 1, 8, 26, 0, 0, time.UTC), first.TransactionTime)
	assert.InDelta(t, 2.55, first.UnitPrice, 1e-9)
	require.NotNil(t, first.CustomerID)
	assert.Equal(t, int64(17850), *first.CustomerID)

	// Cancellation invoices keep their opaque prefixed identifier.
	assert.Equal(t, "C536379", txs[1].OrderID)
	assert.Equal(t, -1, txs[1].Quantity)

	// An empty customer cell is a nil customer, not zero.
	assert.Nil(t, txs[2].CustomerID)
}

func TestParseWorkbook_MissingRequiredColumn(t *testing.T) {
	path := writeWorkbook(t, "Online Retail", [][]interface{}{
		{"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "CustomerID", "Country"},
		{"536365", "85123A", "X", "6", "2011-12-01 08:26:00", "17850", "United Kingdom"},
	})

	_, err := ParseWorkbook(nil, path, "Online Retail")
	require.Error(t, err)
	assert.True(t, errors.IsSchema(err))
	assert.Contains(t, err.Error(), "unitprice")
}

func TestParseWorkbook_SkipsMalformedRows(t *testing.T) {
	path := writeWorkbook(t, "Online Retail", [][]interface{}{
		retailHeader(),
		{"536365", "85123A", "X", "six", "2011-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
		{"536366", "85123A", "X", "6", "not a date", "2.55", "17850", "United Kingdom"},
		{"536367", "85123A", "X", "6", "2011-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
	})

	txs, err := ParseWorkbook(nil, path, "Online Retail")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "536367", txs[0].OrderID)
}

func TestParseWorkbook_FindsSheetByContent(t *testing.T) {
	path := writeWorkbook(t, "Some Export", [][]interface{}{
		retailHeader(),
		{"536365", "85123A", "X", "6", "2011-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
	})

	// The preferred sheet does not exist, so the scan locates the data.
	txs, err := ParseWorkbook(nil, path, "Online Retail")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestParseWorkbook_HeaderBelowTitleRows(t *testing.T) {
	path := writeWorkbook(t, "Online Retail", [][]interface{}{
		{"UCI Online Retail extract"},
		{},
		retailHeader(),
		{"536365", "85123A", "X", "6", "2011-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
	})

	txs, err := ParseWorkbook(nil, path, "Online Retail")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestParseWorkbook_SkipsEmptyRows(t *testing.T) {
	path := writeWorkbook(t, "Online Retail", [][]interface{}{
		retailHeader(),
		{"536365", "85123A", "X", "6", "2011-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
		{"", "", "", "", "", "", "", ""},
		{"536366", "85123A", "X", "6", "2011-12-01 08:26:00", "2.55", "17850", "United Kingdom"},
	})

	txs, err := ParseWorkbook(nil, path, "Online Retail")
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestParseIntCell(t *testing.T) {
	tests := []struct {
		cell    string
		want    int
		wantErr bool
	}{
		{cell: "6", want: 6},
		{cell: " 6 ", want: 6},
		{cell: "6.0", want: 6},
		{cell: "-5", want: -5},
		{cell: "six", wantErr: true},
		{cell: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := parseIntCell(tt.cell)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeCell(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want time.Time
	}{
		{name: "iso datetime", cell: "2011-12-01 08:26:00", want: time.Date(2011, 12, 1, 8, 26, 0, 0, time.UTC)},
		{name: "us short", cell: "12/1/10 8:26", want: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)},
		{name: "serial date", cell: "40878", want: time.Date(2011, 12, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeCell(tt.cell)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}

	_, err := parseTimeCell("")
	assert.Error(t, err)
	_, err = parseTimeCell("not a date")
	assert.Error(t, err)
}

func TestParseCustomerCell(t *testing.T) {
	id, err := parseCustomerCell("17850")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(17850), *id)

	// The "17850.0" float form some exports produce.
	id, err = parseCustomerCell("17850.0")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(17850), *id)

	id, err = parseCustomerCell("  ")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = parseCustomerCell("abc")
	assert.Error(t, err)
}
