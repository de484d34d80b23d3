package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"expensetracker/internal/models"
)

func sampleTransactions() []models.Transaction {
	at := time.Date(2024, time.March, 5, 22, 30, 0, 0, time.UTC)
	return []models.Transaction{
		{Base: models.Base{CreatedAt: at}, Text: "Salary", Amount: decimal.RequireFromString("500"), Category: models.CategorySalary},
		{Base: models.Base{CreatedAt: at.Add(time.Hour)}, Text: "Lunch, with friends", Amount: decimal.RequireFromString("-12.5"), Category: models.CategoryFood},
		{Base: models.Base{CreatedAt: at.Add(2 * time.Hour)}, Text: "Vet", Amount: decimal.RequireFromString("-80"), Category: "Pets"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTransactions(), time.UTC); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	want := [][]string{
		{"Date", "Text", "Amount", "Category"},
		{"2024-03-05", "Salary", "500.00", "Salary"},
		{"2024-03-05", "Lunch, with friends", "-12.50", "Food"},
		{"2024-03-06", "Vet", "-80.00", "Pets"},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Errorf("record %d field %d = %q, want %q", i, j, records[i][j], want[i][j])
			}
		}
	}
}

func TestWriteCSV_NeutralisesFormulas(t *testing.T) {
	at := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{Base: models.Base{CreatedAt: at}, Text: `=HYPERLINK("http://x","y")`, Amount: decimal.RequireFromString("-1"), Category: "+Food"},
		{Base: models.Base{CreatedAt: at}, Text: "@SUM(A1)", Amount: decimal.RequireFromString("-2"), Category: "-cmd"},
		{Base: models.Base{CreatedAt: at}, Text: "Lunch = cheap", Amount: decimal.RequireFromString("-3"), Category: models.CategoryFood},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs, time.UTC); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}

	want := [][]string{
		{`'=HYPERLINK("http://x","y")`, "-1.00", "'+Food"},
		{"'@SUM(A1)", "-2.00", "'-cmd"},
		{"Lunch = cheap", "-3.00", "Food"},
	}
	for i, w := range want {
		got := records[i+1][1:]
		for j := range w {
			if got[j] != w[j] {
				t.Errorf("row %d col %d = %q, want %q", i+1, j+1, got[j], w[j])
			}
		}
	}
}

func TestWriteCSV_DatesUseLocation(t *testing.T) {
	var buf bytes.Buffer
	zone := time.FixedZone("UTC+3", 3*3600)
	if err := WriteCSV(&buf, sampleTransactions()[:1], zone); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, _ := csv.NewReader(&buf).ReadAll()
	if records[1][0] != "2024-03-06" {
		t.Errorf("expected date in UTC+3 to be 2024-03-06, got %s", records[1][0])
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleTransactions(), time.UTC); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][3] != "Category" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[2][1] != "Lunch, with friends" || rows[2][2] != "-12.5" {
		t.Errorf("unexpected row: %v", rows[2])
	}
	if rows[3][3] != "Pets" {
		t.Errorf("expected unknown category preserved, got %v", rows[3])
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatCSV, "csv": FormatCSV, "XLSX": FormatXLSX, " xlsx ": FormatXLSX}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for pdf")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(2024, time.March, FormatCSV); got != "transactions_3_2024.csv" {
		t.Errorf("unexpected file name %q", got)
	}
	if got := FileName(2023, time.December, FormatXLSX); got != "transactions_12_2023.xlsx" {
		t.Errorf("unexpected file name %q", got)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "pdf", nil, time.UTC); err == nil {
		t.Error("expected error for unknown format")
	}
}
