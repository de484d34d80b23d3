// Package export writes a month of transactions as a CSV or XLSX download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"expensetracker/internal/models"
)

// Format selects the file type of an export.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	dateLayout = "2006-01-02"
	sheetName  = "Transactions"
)

// Header is the first row of every export.
var Header = []string{"Date", "Text", "Amount", "Category"}

// ParseFormat resolves a format name. An empty name selects CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q: use csv or xlsx", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName returns the download name for a month, e.g. transactions_3_2024.csv.
func FileName(year int, month time.Month, f Format) string {
	return fmt.Sprintf("transactions_%d_%d.%s", int(month), year, f)
}

// Write encodes txs in format f. Dates are rendered in loc.
func Write(w io.Writer, f Format, txs []models.Transaction, loc *time.Location) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, txs, loc)
	case FormatCSV:
		return WriteCSV(w, txs, loc)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteCSV writes txs as CSV with a Date,Text,Amount,Category header.
func WriteCSV(w io.Writer, txs []models.Transaction, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			formatDate(tx.CreatedAt, loc),
			csvText(tx.Text),
			tx.Amount.StringFixed(2),
			csvText(string(tx.Category)),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvText prefixes a quote to user text that a spreadsheet would otherwise
// evaluate as a formula.
func csvText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// WriteXLSX writes txs as a single-sheet workbook. Amounts are numeric cells.
func WriteXLSX(w io.Writer, txs []models.Transaction, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for i, header := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, tx := range txs {
		row := i + 2
		values := []any{
			formatDate(tx.CreatedAt, loc),
			tx.Text,
			tx.Amount.InexactFloat64(),
			string(tx.Category),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func formatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dateLayout)
}
