package core

import (
	"math"
	"testing"
)

func expense(id, category, date string, cents int64, description string) Expense {
	d, _ := ParseDate(date)
	return Expense{
		ID:          id,
		Amount:      Money{Cents: cents},
		Category:    category,
		Date:        d,
		Description: description,
	}
}

func TestFilterMatches(t *testing.T) {
	lunch := expense("1", "food", "2024-01-15", 1250, "Lunch")

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter accepts", Filter{}, true},
		{"date range inclusive start", Filter{StartDate: "2024-01-15", EndDate: "2024-02-01"}, true},
		{"date range inclusive end", Filter{StartDate: "2024-01-01", EndDate: "2024-01-15"}, true},
		{"date range excludes", Filter{StartDate: "2024-02-01", EndDate: "2024-02-28"}, false},
		{"half-open range ignored", Filter{StartDate: "2024-02-01"}, true},
		{"category exact match", Filter{Category: "food"}, true},
		{"category mismatch", Filter{Category: "transport"}, false},
		{"search in description", Filter{Search: "lun"}, true},
		{"search case insensitive", Filter{Search: "LUNCH"}, true},
		{"search in category", Filter{Search: "foo"}, true},
		{"search mismatch", Filter{Search: "taxi"}, false},
		{"all criteria pass", Filter{StartDate: "2024-01-01", EndDate: "2024-01-31", Category: "food", Search: "lun"}, true},
		// conjunctive composition: a matching search term does not rescue an
		// expense rejected by the category or date filter
		{"search does not bypass category", Filter{Category: "transport", Search: "lun"}, false},
		{"search does not bypass date range", Filter{StartDate: "2024-02-01", EndDate: "2024-02-28", Search: "lun"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Matches(lunch); got != tc.want {
				t.Fatalf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestApplyFilterPreservesOrder(t *testing.T) {
	// newest first, as the Store keeps them
	expenses := []Expense{
		expense("3", "food", "2024-03-01", 300, "dinner"),
		expense("2", "transport", "2024-02-01", 200, "taxi"),
		expense("1", "food", "2024-01-01", 100, "lunch"),
	}
	got := ApplyFilter(expenses, Filter{Category: "food"})
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "1" {
		t.Fatalf("filtered order wrong: %+v", got)
	}

	all := ApplyFilter(expenses, Filter{})
	if len(all) != 3 {
		t.Fatalf("zero filter must accept everything, got %d", len(all))
	}
}

func TestMonthlySums(t *testing.T) {
	expenses := []Expense{
		expense("1", "food", "2024-02-05", 2000, ""),
		expense("2", "food", "2024-01-10", 1000, ""),
		expense("3", "transport", "2024-01-20", 500, ""),
	}
	got := MonthlySums(expenses)
	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d", len(got))
	}
	if got[0].Month != "2024-01" || got[0].Total.Cents != 1500 {
		t.Errorf("first month = %+v", got[0])
	}
	if got[1].Month != "2024-02" || got[1].Total.Cents != 2000 {
		t.Errorf("second month = %+v", got[1])
	}

	// strictly ascending, no duplicate keys
	for i := 1; i < len(got); i++ {
		if got[i-1].Month >= got[i].Month {
			t.Fatalf("months not strictly ascending: %+v", got)
		}
	}

	if empty := MonthlySums(nil); len(empty) != 0 {
		t.Fatalf("empty input should yield no months, got %+v", empty)
	}
}

func TestCategorySums(t *testing.T) {
	filtered := []Expense{
		expense("1", "food", "2024-01-01", 3000, ""),
		expense("2", "transport", "2024-01-02", 1000, ""),
	}
	got := CategorySums(filtered)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Category != "food" || got[0].Total.Cents != 3000 || got[0].Percentage != 75 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Category != "transport" || got[1].Total.Cents != 1000 || got[1].Percentage != 25 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestCategorySumsTiesKeepEncounterOrder(t *testing.T) {
	filtered := []Expense{
		expense("1", "b-second", "2024-01-01", 100, ""),
		expense("2", "a-first", "2024-01-02", 100, ""),
		expense("3", "top", "2024-01-03", 500, ""),
	}
	got := CategorySums(filtered)
	if got[0].Category != "top" || got[1].Category != "b-second" || got[2].Category != "a-first" {
		t.Fatalf("tie order wrong: %+v", got)
	}
}

func TestCategorySumsZeroGrandTotal(t *testing.T) {
	if got := CategorySums(nil); len(got) != 0 {
		t.Fatalf("empty filtered collection should yield no categories, got %+v", got)
	}

	zeros := []Expense{expense("1", "food", "2024-01-01", 0, "")}
	got := CategorySums(zeros)
	if len(got) != 1 || got[0].Percentage != 0 {
		t.Fatalf("zero grand total must yield zero percentages: %+v", got)
	}
}

func TestSumInvariants(t *testing.T) {
	expenses := []Expense{
		expense("1", "food", "2024-01-01", 1250, "lunch"),
		expense("2", "food", "2024-01-09", 750, "groceries"),
		expense("3", "transport", "2024-02-01", 430, "bus"),
		expense("4", "travel", "2024-03-12", 9900, "train to Rome"),
		expense("5", "other", "2024-03-13", 1, ""),
	}
	filters := []Filter{
		{},
		{Category: "food"},
		{StartDate: "2024-01-01", EndDate: "2024-02-28"},
		{Search: "o"},
		{Category: "nope"},
	}
	for _, f := range filters {
		filtered := ApplyFilter(expenses, f)
		sums := CategorySums(filtered)

		var byCategory int64
		var percentages float64
		for _, cs := range sums {
			byCategory += cs.Total.Cents
			percentages += cs.Percentage
		}
		total := Total(filtered)
		if byCategory != total {
			t.Errorf("filter %+v: category totals %d != running total %d", f, byCategory, total)
		}
		if total > 0 && math.Abs(percentages-100) > 1e-9 {
			t.Errorf("filter %+v: percentages sum to %f, want 100", f, percentages)
		}
		if total == 0 && percentages != 0 {
			t.Errorf("filter %+v: percentages should all be zero, got %f", f, percentages)
		}

		// descending by total
		for i := 1; i < len(sums); i++ {
			if sums[i-1].Total.Cents < sums[i].Total.Cents {
				t.Errorf("filter %+v: category sums not non-increasing: %+v", f, sums)
			}
		}
	}
}
