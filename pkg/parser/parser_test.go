package parser

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/tally/pkg/csv"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/xlsx"
)

func newTestParser() *Parser {
	p := New(log.New(io.Discard))
	p.now = func() time.Time { return time.Date(2025, 3, 29, 11, 1, 0, 0, time.Local) }
	return p
}

func TestProcessBytesStatement(t *testing.T) {
	content := []byte(`17/03/2025;PIX TRANSF ID_A15/03;-2327,00
17/03/2025;MOBILE PAG TIT 426XXXXXX;-287,00
28/03/2025;PIX TRANSF ID_B28/03;42.000,00
31/03/2025;ZERO;0,00
not a line`)

	p := newTestParser()
	output, err := p.ProcessBytes(content, "extrato.txt")
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}
	if len(output) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(output))
	}

	assertTransaction(t, output[0], "2025-03-17", models.Expense, "2327", "PIX TRANSF ID_A15/03")
	assertTransaction(t, output[1], "2025-03-17", models.Expense, "287", "MOBILE PAG TIT 426XXXXXX")
	assertTransaction(t, output[2], "2025-03-28", models.Income, "42000", "PIX TRANSF ID_B28/03")
	for i, tx := range output {
		if tx.ID != 0 {
			t.Errorf("statement line %d should leave id unset, got %d", i, tx.ID)
		}
	}
	if output[0].Category != models.DefaultCategory {
		t.Errorf("expected default category, got %q", output[0].Category)
	}
}

func TestParseLedgerCSVRoundTrip(t *testing.T) {
	in := []models.Transaction{
		{ID: 11, Date: "2024-03-01", Type: models.Income, Amount: decimal.NewFromInt(1000), Category: "Salary", CreatedAt: "2024-03-01T08:00:00"},
		{ID: 12, Date: "2024-03-02", Type: models.Expense, Amount: decimal.RequireFromString("12.30"), Category: "Food", Note: "a, b", CreatedAt: "2024-03-02T08:00:00"},
	}
	data, err := csv.Create(in, nil)
	if err != nil {
		t.Fatal(err)
	}

	out, err := newTestParser().ProcessBytes(data, "export.CSV")
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	for i := range in {
		a, b := in[i], out[i]
		if a.ID != b.ID || a.Date != b.Date || a.Type != b.Type || !a.Amount.Equal(b.Amount) ||
			a.Category != b.Category || a.Note != b.Note || a.CreatedAt != b.CreatedAt {
			t.Errorf("record %d mismatch:\nwant %+v\ngot  %+v", i, a, b)
		}
	}
}

func TestParseLedgerCSVSkipsInvalidRows(t *testing.T) {
	data := []byte(`date,amount,type,category
2024-03-01,10,expense,Food
2024-03-02,-1,expense,Food
2024-13-01,5,expense,Food
2024-03-04,5,transfer,Food
,5,income,Salary
2024-03-05,7.5,,
`)
	out, err := newTestParser().ParseLedgerCSV(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 valid rows, got %d: %+v", len(out), out)
	}
	if out[1].Type != models.Expense || out[1].Category != models.DefaultCategory {
		t.Errorf("defaults not applied: %+v", out[1])
	}
	if out[0].ID != 0 || out[1].ID != 0 {
		t.Errorf("rows without id should leave id unset: %d, %d", out[0].ID, out[1].ID)
	}
}

func TestParseStatementText(t *testing.T) {
	lines := []string{
		"Extrato de conta corrente",
		"Data Lançamento Valor",
		"17/03/2025 PIX TRANSF ID_A15/03 -2.327,00",
		"28/03/2025  SALARIO  42.000,00",
		"31/03/2025 SALDO DO DIA",
	}
	out, err := newTestParser().parseStatementText(lines)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 transactions, got %+v", out)
	}
	assertTransaction(t, out[0], "2025-03-17", models.Expense, "2327", "PIX TRANSF ID_A15/03")
	assertTransaction(t, out[1], "2025-03-28", models.Income, "42000", "SALARIO")
}

func TestProcessBytesInvalidPDF(t *testing.T) {
	if _, err := newTestParser().ProcessBytes([]byte("not a pdf at all"), "statement.pdf"); err == nil {
		t.Errorf("expected error for invalid pdf")
	}
}

func TestParseLedgerXLSXRoundTrip(t *testing.T) {
	in := []models.Transaction{
		{ID: 21, Date: "2024-05-01", Type: models.Income, Amount: decimal.NewFromInt(2500), Category: "Salary", CreatedAt: "2024-05-01T08:00:00"},
		{ID: 22, Date: "2024-05-03", Type: models.Expense, Amount: decimal.RequireFromString("42.5"), Category: "Food", Note: "market", CreatedAt: "2024-05-03T19:30:00"},
	}
	var buf bytes.Buffer
	if err := xlsx.Write(&buf, in, nil); err != nil {
		t.Fatal(err)
	}

	out, err := newTestParser().ProcessBytes(buf.Bytes(), "ledger.XLSX")
	if err != nil {
		t.Fatalf("ProcessBytes failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d records, got %d", len(in), len(out))
	}
	for i := range in {
		a, b := in[i], out[i]
		if a.ID != b.ID || a.Date != b.Date || a.Type != b.Type || !a.Amount.Equal(b.Amount) ||
			a.Category != b.Category || a.Note != b.Note || a.CreatedAt != b.CreatedAt {
			t.Errorf("record %d mismatch:\nwant %+v\ngot  %+v", i, a, b)
		}
	}
}

func TestParseLedgerXLSXFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"date", "amount", "type", "category"},
		{"2024-06-01", 12.75, "expense", "Transport"},
		{"2024-06-02", "abc", "expense", "Food"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	out, err := newTestParser().ParseLedgerXLSX(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 valid row, got %d: %+v", len(out), out)
	}
	if out[0].ID != 0 || out[0].Category != "Transport" || !out[0].Amount.Equal(decimal.RequireFromString("12.75")) {
		t.Errorf("unexpected record %+v", out[0])
	}
}

func TestProcessBytesInvalidWorkbooks(t *testing.T) {
	garbage := []byte(strings.Repeat("not a workbook ", 100))
	for _, name := range []string{"ledger.xls", "ledger.xlsx"} {
		if _, err := newTestParser().ProcessBytes(garbage, name); err == nil {
			t.Errorf("%s: expected error for invalid workbook", name)
		}
	}
}

func TestProcessBytesUnknownType(t *testing.T) {
	if _, err := newTestParser().ProcessBytes([]byte("x"), "statement.ofx"); err == nil {
		t.Errorf("expected error for unknown type")
	}
}

func assertTransaction(t *testing.T, tx models.Transaction, date string, kind models.Type, amount, note string) {
	t.Helper()
	if tx.Date != date || tx.Type != kind || !tx.Amount.Equal(decimal.RequireFromString(amount)) || tx.Note != note {
		t.Errorf("Transaction mismatch:\nExpected: date=%s, type=%s, amount=%s, note=%s\nGot: date=%s, type=%s, amount=%s, note=%s",
			date, kind, amount, note,
			tx.Date, tx.Type, tx.Amount, tx.Note)
	}
}
