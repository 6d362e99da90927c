package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"ledger/internal/core"
	"ledger/internal/engine"
)

func TestRenderSummary(t *testing.T) {
	snap := engine.Snapshot{
		MonthlyData: []core.MonthlySum{
			{Month: "2024-01", Total: core.Money{Cents: 3000}},
			{Month: "2024-02", Total: core.Money{Cents: 1550}},
		},
		CategoryData: []core.CategorySum{
			{Category: "food", Total: core.Money{Cents: 3050}, Percentage: 67.03},
			{Category: "transport", Total: core.Money{Cents: 1500}, Percentage: 32.97},
		},
		TotalAmountCents: 4550,
	}

	out, err := RenderSummary(snap)
	if err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	want := [][]string{
		{"section", "key", "amount", "percentage"},
		{"monthly", "2024-01", "30.00", ""},
		{"monthly", "2024-02", "15.50", ""},
		{"category", "food", "30.50", "67.03"},
		{"category", "transport", "15.00", "32.97"},
		{"total", "", "45.50", ""},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d:\n%s", len(records), len(want), out)
	}
	for i, row := range want {
		for j, cell := range row {
			if records[i][j] != cell {
				t.Errorf("record[%d][%d] = %q, want %q", i, j, records[i][j], cell)
			}
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	out, err := RenderSummary(engine.Snapshot{})
	if err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	// header plus the grand total row
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2:\n%s", len(records), out)
	}
	if records[1][0] != "total" || records[1][2] != "0.00" {
		t.Errorf("total row = %v", records[1])
	}
}

func TestRenderExpenses(t *testing.T) {
	date, err := core.ParseDate("2024-01-15")
	if err != nil {
		t.Fatal(err)
	}
	expenses := []core.Expense{
		{
			ID:          "abc-123",
			Amount:      core.Money{Cents: 1250},
			Category:    "food",
			Date:        date,
			Description: "Lunch, with a comma",
		},
	}

	out, err := RenderExpenses(expenses)
	if err != nil {
		t.Fatalf("RenderExpenses: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	row := records[1]
	if row[0] != "abc-123" || row[1] != "2024-01-15" || row[2] != "food" ||
		row[3] != "12.50" || row[4] != "Lunch, with a comma" {
		t.Errorf("row = %v", row)
	}
}
