package core

import (
	"sort"
	"strings"
)

// Filter holds the active restriction criteria for display. The zero value
// means "no restriction". Dates are YYYY-MM-DD strings; the range only
// takes effect when both bounds are set.
type Filter struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Category  string `json:"category"`
	Search    string `json:"search"`
}

func (f Filter) IsZero() bool {
	return f.StartDate == "" && f.EndDate == "" && f.Category == "" && f.Search == ""
}

// Matches reports whether the expense satisfies every active criterion.
// Criteria compose conjunctively: an expense rejected by the date range or
// category filter stays rejected even when the search term matches.
func (f Filter) Matches(e Expense) bool {
	if f.StartDate != "" && f.EndDate != "" {
		// fixed-width zero-padded encoding, string order is date order
		d := e.Date.String()
		if d < f.StartDate || d > f.EndDate {
			return false
		}
	}
	if f.Category != "" && f.Category != e.Category {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Description), term) &&
			!strings.Contains(strings.ToLower(e.Category), term) {
			return false
		}
	}
	return true
}

// MonthlySum is the total spent in one calendar month, over the whole
// collection regardless of any active filter.
type MonthlySum struct {
	Month string `json:"month"` // "YYYY-MM"
	Total Money  `json:"totalCents"`
}

// CategorySum is the total spent in one category within the filtered
// collection, with its share of the filtered grand total.
type CategorySum struct {
	Category   string  `json:"category"`
	Total      Money   `json:"totalCents"`
	Percentage float64 `json:"percentage"`
}

// ApplyFilter returns the subset of expenses satisfying the filter,
// preserving the relative order of the input (newest first, since the
// Store prepends new records).
func ApplyFilter(expenses []Expense, f Filter) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// MonthlySums groups the entire collection by calendar month, summing
// amounts per group. Months with no expenses are omitted. Entries are
// sorted ascending by month key.
func MonthlySums(expenses []Expense) []MonthlySum {
	totals := make(map[string]int64)
	for _, e := range expenses {
		totals[e.Date.MonthKey()] += e.Amount.Cents
	}
	out := make([]MonthlySum, 0, len(totals))
	for month, total := range totals {
		out = append(out, MonthlySum{Month: month, Total: Money{Cents: total}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CategorySums groups the filtered collection by category. Entries are
// sorted descending by total; ties keep first-encounter order. Percentages
// are shares of the filtered grand total, and all zero when that total is
// zero.
func CategorySums(filtered []Expense) []CategorySum {
	grand := Total(filtered)
	totals := make(map[string]int64)
	order := make([]string, 0, len(filtered))
	for _, e := range filtered {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount.Cents
	}
	out := make([]CategorySum, 0, len(order))
	for _, category := range order {
		total := totals[category]
		percentage := 0.0
		if grand > 0 {
			percentage = float64(total) / float64(grand) * 100
		}
		out = append(out, CategorySum{
			Category:   category,
			Total:      Money{Cents: total},
			Percentage: percentage,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.Cents > out[j].Total.Cents })
	return out
}

// Total sums the amounts of the given expenses in cents.
func Total(expenses []Expense) int64 {
	var sum int64
	for _, e := range expenses {
		sum += e.Amount.Cents
	}
	return sum
}
