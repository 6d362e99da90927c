// Package export renders aggregation results as CSV for download.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"ledger/internal/core"
	"ledger/internal/engine"
)

// RenderSummary writes the snapshot's aggregates as one CSV document with
// three sections: monthly totals, category totals, and the grand total.
// Amounts are decimal strings, percentages carry two decimal places.
func RenderSummary(snap engine.Snapshot) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"section", "key", "amount", "percentage"},
	}
	for _, m := range snap.MonthlyData {
		records = append(records, []string{
			"monthly", m.Month, m.Total.String(), "",
		})
	}
	for _, c := range snap.CategoryData {
		records = append(records, []string{
			"category", c.Category, c.Total.String(),
			strconv.FormatFloat(c.Percentage, 'f', 2, 64),
		})
	}
	records = append(records, []string{
		"total", "", core.Money{Cents: snap.TotalAmountCents}.String(), "",
	})

	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write summary csv: %w", err)
	}
	return buf.String(), nil
}

// RenderExpenses writes the filtered expense list as CSV, one row per
// expense in the order they appear in the snapshot.
func RenderExpenses(expenses []core.Expense) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"id", "date", "category", "amount", "description"},
	}
	for _, e := range expenses {
		records = append(records, []string{
			e.ID, e.Date.String(), e.Category, e.Amount.String(), e.Description,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write expenses csv: %w", err)
	}
	return buf.String(), nil
}
